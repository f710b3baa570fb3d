package model

// Turning a finished run directory into protein and cluster tables.
//
// antiSMASH writes one primary GenBank file covering the whole input
// plus one "<record>.regionNNN.gbk" per detected cluster. Only the
// region files carry the functional annotation (gene_kind,
// gene_functions, sec_met_domain), so their values win when the same
// gene shows up in both.

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yumyai/smashboard/logger"
)

var regionFilePattern = regexp.MustCompile(`\.region\d+\.gbk$`)

// IsRegionFile reports whether a filename is a per-region output file.
func IsRegionFile(name string) bool {
	return regionFilePattern.MatchString(strings.ToLower(name))
}

// CollectRunResults walks runDir for .gbk files and builds the merged
// result tables. Files that cannot be read are skipped and their
// errors aggregated, so a partial result set still comes back.
func CollectRunResults(runDir, runName string) (*RunResults, error) {
	results := &RunResults{
		RunName:     runName,
		CompletedAt: time.Now().UTC(),
		Proteins:    []ProteinRecord{},
		Clusters:    []ClusterRecord{},
	}

	var gbkFiles []string
	err := filepath.WalkDir(runDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".gbk") {
			gbkFiles = append(gbkFiles, path)
		}
		return nil
	})
	if err != nil {
		return results, fmt.Errorf("scan run dir: %w", err)
	}

	// Primary files first so their records anchor the merge order.
	sort.Slice(gbkFiles, func(i, j int) bool {
		ri, rj := IsRegionFile(gbkFiles[i]), IsRegionFile(gbkFiles[j])
		if ri != rj {
			return !ri
		}
		return gbkFiles[i] < gbkFiles[j]
	})

	var errs error
	var primary, regional []ProteinRecord

	for _, path := range gbkFiles {
		records, err := parseGenBankFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable GenBank file", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
			continue
		}
		name := filepath.Base(path)
		for _, rec := range records {
			if IsRegionFile(name) {
				regional = append(regional, extractProteins(rec, name)...)
				results.Clusters = append(results.Clusters, extractClusters(rec, name)...)
			} else {
				primary = append(primary, extractProteins(rec, name)...)
			}
		}
	}

	results.Proteins = mergeProteins(primary, regional)
	return results, errs
}

func parseGenBankFile(path string) ([]*GenBankRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseGenBank(f)
}

// extractProteins pulls one ProteinRecord per CDS feature. The gene
// name falls back to the locus tag when the CDS carries none.
func extractProteins(rec *GenBankRecord, sourceFile string) []ProteinRecord {
	var proteins []ProteinRecord
	for _, feat := range rec.Features {
		if !strings.EqualFold(feat.Key, "CDS") {
			continue
		}
		gene := feat.Qualifier("gene")
		locusTag := feat.Qualifier("locus_tag")
		if gene == "" {
			gene = locusTag
		}
		translation := feat.Qualifier("translation")
		proteins = append(proteins, ProteinRecord{
			RecordID:      rec.ID(),
			Gene:          gene,
			LocusTag:      locusTag,
			Product:       feat.Qualifier("product"),
			Translation:   translation,
			AALength:      len(translation),
			Location:      feat.Location,
			SourceFile:    sourceFile,
			GeneKind:      feat.Qualifier("gene_kind"),
			GeneFunctions: feat.QualifierAll("gene_functions"),
			SecMetDomains: feat.QualifierAll("sec_met_domain"),
		})
	}
	return proteins
}

// extractClusters pulls one ClusterRecord per region feature, counting
// the record's CDS features into antiSMASH's gene_kind buckets.
func extractClusters(rec *GenBankRecord, sourceFile string) []ClusterRecord {
	var clusters []ClusterRecord
	for _, feat := range rec.Features {
		if !strings.EqualFold(feat.Key, "region") {
			continue
		}

		counts := make(map[string]int)
		var genes []string
		for _, cds := range rec.Features {
			if !strings.EqualFold(cds.Key, "CDS") {
				continue
			}
			kind := cds.Qualifier("gene_kind")
			if !knownGeneKind(kind) {
				kind = "other"
			}
			counts[kind]++
			if lt := cds.Qualifier("locus_tag"); lt != "" {
				genes = append(genes, lt)
			} else if g := cds.Qualifier("gene"); g != "" {
				genes = append(genes, g)
			}
		}

		size := 0
		if lo, hi, ok := locationBounds(feat.Location); ok {
			size = hi - lo + 1
		}

		clusters = append(clusters, ClusterRecord{
			Region:     regionName(rec, feat, sourceFile),
			Type:       strings.Join(feat.QualifierAll("product"), "+"),
			Location:   feat.Location,
			SizeBP:     size,
			GeneCounts: counts,
			Genes:      genes,
			SourceFile: sourceFile,
		})
	}
	return clusters
}

func knownGeneKind(kind string) bool {
	switch kind {
	case "biosynthetic", "biosynthetic-additional", "transport", "regulatory", "resistance":
		return true
	}
	return false
}

func regionName(rec *GenBankRecord, feat *GenBankFeature, sourceFile string) string {
	if num := feat.Qualifier("region_number"); num != "" {
		return fmt.Sprintf("%s region %s", rec.LocusName, num)
	}
	base := filepath.Base(sourceFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var locationNumbers = regexp.MustCompile(`\d+`)

// locationBounds reduces any location expression to its outermost
// coordinates; join and complement operators collapse to min..max.
func locationBounds(loc string) (int, int, bool) {
	var nums []int
	for _, raw := range locationNumbers.FindAllString(loc, -1) {
		if n, err := strconv.Atoi(raw); err == nil {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return 0, 0, false
	}
	lo, hi := nums[0], nums[0]
	for _, n := range nums[1:] {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi, true
}

// proteinKey identifies a gene across files: locus tag when present,
// then gene name, then position.
func proteinKey(p *ProteinRecord) string {
	if p.LocusTag != "" {
		return "locus:" + p.LocusTag
	}
	if p.Gene != "" {
		return "gene:" + p.Gene
	}
	return "loc:" + p.RecordID + "@" + p.Location
}

// mergeProteins overlays region-file records onto primary-file ones.
// Coordinates stay with the primary record since region files are
// numbered in region-local space.
func mergeProteins(primary, regional []ProteinRecord) []ProteinRecord {
	merged := make([]ProteinRecord, len(primary))
	copy(merged, primary)

	index := make(map[string]int, len(merged))
	for i := range merged {
		index[proteinKey(&merged[i])] = i
	}

	for _, rp := range regional {
		key := proteinKey(&rp)
		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, rp)
			continue
		}
		overlayProtein(&merged[i], rp)
	}
	return merged
}

func overlayProtein(dst *ProteinRecord, src ProteinRecord) {
	// src.Gene equal to its locus tag is just the extraction fallback,
	// not a real gene qualifier, so it must not clobber a named gene.
	if src.Gene != "" && src.Gene != src.LocusTag {
		dst.Gene = src.Gene
	}
	if src.Product != "" {
		dst.Product = src.Product
	}
	if src.Translation != "" {
		dst.Translation = src.Translation
		dst.AALength = src.AALength
	}
	if src.GeneKind != "" {
		dst.GeneKind = src.GeneKind
	}
	if len(src.GeneFunctions) > 0 {
		dst.GeneFunctions = src.GeneFunctions
	}
	if len(src.SecMetDomains) > 0 {
		dst.SecMetDomains = src.SecMetDomains
	}
	dst.SourceFile = src.SourceFile
}
