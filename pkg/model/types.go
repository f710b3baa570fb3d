package model

import "time"

// ProteinRecord is one CDS feature extracted from antiSMASH GenBank
// output. Annotation fields can later be overridden by the richer
// per-region files (see results.go).
type ProteinRecord struct {
	RecordID      string   `json:"record_id"`
	Gene          string   `json:"gene"`
	LocusTag      string   `json:"locus_tag"`
	Product       string   `json:"product"`
	Translation   string   `json:"protein_seq"`
	AALength      int      `json:"aa_length"`
	Location      string   `json:"location"`
	SourceFile    string   `json:"source_file"`
	GeneKind      string   `json:"gene_kind,omitempty"`
	GeneFunctions []string `json:"gene_functions,omitempty"`
	SecMetDomains []string `json:"sec_met_domains,omitempty"`
}

// ClusterRecord is one secondary-metabolite region reported by a
// per-region GenBank file.
type ClusterRecord struct {
	Region     string         `json:"region"`
	Type       string         `json:"type"`
	Location   string         `json:"location"`
	SizeBP     int            `json:"size_bp"`
	GeneCounts map[string]int `json:"gene_counts"`
	Genes      []string       `json:"genes"`
	SourceFile string         `json:"source_file"`
}

// InputSummary describes the uploaded sequence file.
type InputSummary struct {
	Records  int    `json:"records"`
	Residues int    `json:"residues"`
	Format   string `json:"format"`
}

// RunResults is the payload persisted as results.json in the run
// directory once a run completes.
type RunResults struct {
	RunName     string          `json:"run_name"`
	CompletedAt time.Time       `json:"completed_at"`
	Input       *InputSummary   `json:"input,omitempty"`
	Proteins    []ProteinRecord `json:"proteins"`
	Clusters    []ClusterRecord `json:"clusters"`
}

// RunFile is one entry of a run's output file listing.
type RunFile struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}
