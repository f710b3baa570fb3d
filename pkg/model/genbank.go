package model

// GenBank flatfile reading, enough of the format for antiSMASH output:
// the LOCUS line opens a record, FEATURES rows carry a key in columns
// 5-20 with the location from column 21, qualifier and continuation
// lines are indented to column 21, and "//" closes the record.

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// 21 spaces, the indent of qualifier and continuation lines.
const qualifierIndent = "                     "

// GenBankFeature is one row of a record's feature table.
type GenBankFeature struct {
	Key        string
	Location   string
	Qualifiers map[string][]string
}

// Qualifier returns the first value of the named qualifier, or "".
func (f *GenBankFeature) Qualifier(name string) string {
	vals := f.Qualifiers[name]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// QualifierAll returns every value of the named qualifier.
func (f *GenBankFeature) QualifierAll(name string) []string {
	return f.Qualifiers[name]
}

// GenBankRecord is one LOCUS..// block of a flatfile.
type GenBankRecord struct {
	LocusName  string
	Length     int
	Definition string
	Version    string
	Features   []*GenBankFeature
}

// ID is the record identifier results should carry: the versioned
// accession when the file has one, the LOCUS name otherwise.
func (r *GenBankRecord) ID() string {
	if r.Version != "" {
		return r.Version
	}
	return r.LocusName
}

// Qualifiers whose multi-line values are sequences and must be joined
// without spaces. Everything else joins with a single space.
var concatenatedQualifiers = map[string]bool{
	"translation":   true,
	"transcription": true,
	"peptide":       true,
	"anticodon":     true,
}

// ParseGenBank reads every record of a GenBank flatfile. Lines that do
// not fit the format are skipped rather than failing the parse, so
// malformed input yields zero records and no error. The returned error
// only reports read failures.
func ParseGenBank(r io.Reader) ([]*GenBankRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	p := &genbankParser{}
	for sc.Scan() {
		p.line(sc.Text())
	}
	return p.finish(), sc.Err()
}

type genbankParser struct {
	records    []*GenBankRecord
	rec        *GenBankRecord
	feat       *GenBankFeature
	qual       string   // qualifier currently being collected
	qualParts  []string // its value, one part per line
	inFeatures bool
	inOrigin   bool
	header     string // last top-level keyword, for continuations
}

func (p *genbankParser) line(line string) {
	if strings.HasPrefix(line, "LOCUS") {
		p.closeRecord()
		p.rec = &GenBankRecord{}
		cols := strings.Fields(line)
		if len(cols) >= 2 {
			p.rec.LocusName = cols[1]
		}
		if len(cols) >= 3 {
			if n, err := strconv.Atoi(cols[2]); err == nil {
				p.rec.Length = n
			}
		}
		p.header = "LOCUS"
		return
	}
	if p.rec == nil {
		// noise before the first LOCUS
		return
	}
	if strings.HasPrefix(line, "//") {
		p.closeRecord()
		return
	}
	if p.inOrigin {
		// sequence lines, nothing we keep
		return
	}
	if strings.HasPrefix(line, "ORIGIN") {
		p.closeFeature()
		p.inFeatures = false
		p.inOrigin = true
		return
	}
	if strings.HasPrefix(line, "FEATURES") {
		p.inFeatures = true
		p.header = ""
		return
	}
	if p.inFeatures {
		p.featureLine(line)
		return
	}
	p.headerLine(line)
}

func (p *genbankParser) featureLine(line string) {
	if strings.HasPrefix(line, qualifierIndent) {
		if p.feat == nil {
			return
		}
		txt := line[len(qualifierIndent):]
		if strings.HasPrefix(txt, "/") {
			p.closeQualifier()
			p.openQualifier(txt)
			return
		}
		if p.qual != "" {
			p.qualParts = append(p.qualParts, strings.TrimSpace(txt))
			return
		}
		// still inside the location expression
		p.feat.Location += strings.TrimSpace(txt)
		return
	}
	if strings.HasPrefix(line, "     ") && strings.TrimSpace(line) != "" {
		p.closeFeature()
		feat := &GenBankFeature{Qualifiers: make(map[string][]string)}
		if len(line) > 21 {
			feat.Key = strings.TrimSpace(line[5:21])
			feat.Location = strings.TrimSpace(line[21:])
		} else {
			feat.Key = strings.TrimSpace(line[5:])
		}
		p.feat = feat
		return
	}
	// the feature table is over (BASE COUNT, CONTIG, ...)
	p.closeFeature()
	p.inFeatures = false
}

// openQualifier starts collecting "/name=value" or a bare "/name".
func (p *genbankParser) openQualifier(txt string) {
	q := strings.TrimPrefix(txt, "/")
	name, val := q, ""
	if i := strings.Index(q, "="); i >= 0 {
		name = q[:i]
		val = q[i+1:]
	}
	p.qual = strings.TrimSpace(name)
	p.qualParts = []string{strings.TrimSpace(val)}
}

func (p *genbankParser) closeQualifier() {
	if p.feat == nil || p.qual == "" {
		p.qual = ""
		p.qualParts = nil
		return
	}
	sep := " "
	if concatenatedQualifiers[p.qual] {
		sep = ""
	}
	val := strings.Join(p.qualParts, sep)
	val = strings.TrimPrefix(val, `"`)
	val = strings.TrimSuffix(val, `"`)
	val = strings.TrimSpace(val)
	p.feat.Qualifiers[p.qual] = append(p.feat.Qualifiers[p.qual], val)
	p.qual = ""
	p.qualParts = nil
}

func (p *genbankParser) closeFeature() {
	p.closeQualifier()
	if p.feat != nil {
		p.rec.Features = append(p.rec.Features, p.feat)
		p.feat = nil
	}
}

func (p *genbankParser) closeRecord() {
	if p.rec == nil {
		return
	}
	p.closeFeature()
	p.records = append(p.records, p.rec)
	p.rec = nil
	p.inFeatures = false
	p.inOrigin = false
	p.header = ""
}

func (p *genbankParser) headerLine(line string) {
	switch {
	case strings.HasPrefix(line, "DEFINITION"):
		p.rec.Definition = strings.TrimSpace(strings.TrimPrefix(line, "DEFINITION"))
		p.header = "DEFINITION"
	case strings.HasPrefix(line, "VERSION"):
		cols := strings.Fields(line)
		if len(cols) >= 2 {
			p.rec.Version = cols[1]
		}
		p.header = "VERSION"
	case strings.HasPrefix(line, "            "): // 12-space continuation
		if p.header == "DEFINITION" {
			p.rec.Definition += " " + strings.TrimSpace(line)
		}
	default:
		if fields := strings.Fields(line); len(fields) > 0 {
			p.header = fields[0]
		}
	}
}

// finish flushes any record left open by a file missing its final "//".
func (p *genbankParser) finish() []*GenBankRecord {
	p.closeRecord()
	return p.records
}
