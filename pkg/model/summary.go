package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// SummarizeInput counts the records and residues of an uploaded file
// so the progress and results views can say what went into a run.
// GenBank uploads are measured from their LOCUS headers; every other
// accepted extension is read as FASTA.
func SummarizeInput(path string) (*InputSummary, error) {
	if IsGenBankUpload(path) {
		return summarizeGenBank(path)
	}
	return summarizeFasta(path)
}

func summarizeFasta(path string) (*InputSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	template := linear.NewSeq("", nil, alphabet.DNA)
	sc := seqio.NewScanner(fasta.NewReader(f, template))

	summary := &InputSummary{Format: "fasta"}
	for sc.Next() {
		summary.Records++
		summary.Residues += sc.Seq().Len()
	}
	if err := sc.Error(); err != nil {
		return summary, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if summary.Records == 0 {
		return summary, fmt.Errorf("no sequence records in %s", filepath.Base(path))
	}
	return summary, nil
}

func summarizeGenBank(path string) (*InputSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ParseGenBank(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no sequence records in %s", filepath.Base(path))
	}

	summary := &InputSummary{Format: "genbank", Records: len(records)}
	for _, rec := range records {
		summary.Residues += rec.Length
	}
	return summary, nil
}
