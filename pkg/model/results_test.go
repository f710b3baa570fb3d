package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const regionFixture = `LOCUS       JABCD010000001          3000 bp    DNA     linear   BCT 01-JAN-2024
DEFINITION  Streptomyces sp. strain X.
VERSION     JABCD010000001.1
FEATURES             Location/Qualifiers
     region          1..3000
                     /region_number="1"
                     /product="T1PKS"
                     /product="NRPS"
     CDS             complement(50..1450)
                     /locus_tag="CTG_00001"
                     /product="type I polyketide synthase"
                     /gene_kind="biosynthetic"
                     /gene_functions="biosynthetic (rule-based-clusters)
                     T1PKS: PKS_AT"
                     /sec_met_domain="PKS_AT (E-value: 1.1e-30)"
                     /translation="MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQAPILSRVGDGT"
     CDS             1950..2450
                     /locus_tag="CTG_00002"
                     /product="MFS transporter"
                     /gene_kind="transport"
//
`

func writeRunFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectRunResultsMergesRegionAnnotations(t *testing.T) {
	runDir := t.TempDir()
	writeRunFile(t, runDir, "input.gbk", genbankFixture)
	writeRunFile(t, runDir, "JABCD010000001.region001.gbk", regionFixture)

	results, err := CollectRunResults(runDir, "run_test")
	require.NoError(t, err)
	assert.Equal(t, "run_test", results.RunName)

	require.Len(t, results.Proteins, 2)

	p1 := results.Proteins[0]
	assert.Equal(t, "CTG_00001", p1.LocusTag)
	// the primary file is the only one naming the gene
	assert.Equal(t, "ctgA", p1.Gene)
	// annotations come from the region file
	assert.Equal(t, "type I polyketide synthase", p1.Product)
	assert.Equal(t, "biosynthetic", p1.GeneKind)
	assert.Equal(t, []string{"biosynthetic (rule-based-clusters) T1PKS: PKS_AT"}, p1.GeneFunctions)
	assert.Equal(t, []string{"PKS_AT (E-value: 1.1e-30)"}, p1.SecMetDomains)
	assert.Equal(t, "JABCD010000001.region001.gbk", p1.SourceFile)
	// coordinates stay in full-sequence space
	assert.Equal(t, "complement(100..1500)", p1.Location)

	p2 := results.Proteins[1]
	assert.Equal(t, "CTG_00002", p2.LocusTag)
	assert.Equal(t, "MFS transporter", p2.Product)
	assert.Equal(t, "transport", p2.GeneKind)

	require.Len(t, results.Clusters, 1)
	cluster := results.Clusters[0]
	assert.Equal(t, "JABCD010000001 region 1", cluster.Region)
	assert.Equal(t, "T1PKS+NRPS", cluster.Type)
	assert.Equal(t, "1..3000", cluster.Location)
	assert.Equal(t, 3000, cluster.SizeBP)
	assert.Equal(t, 1, cluster.GeneCounts["biosynthetic"])
	assert.Equal(t, 1, cluster.GeneCounts["transport"])
	assert.Equal(t, 0, cluster.GeneCounts["other"])
	assert.Equal(t, []string{"CTG_00001", "CTG_00002"}, cluster.Genes)
}

func TestCollectRunResultsRegionOnly(t *testing.T) {
	runDir := t.TempDir()
	writeRunFile(t, runDir, "JABCD010000001.region001.gbk", regionFixture)

	results, err := CollectRunResults(runDir, "run_test")
	require.NoError(t, err)

	// region-only genes still make it into the table
	require.Len(t, results.Proteins, 2)
	assert.Equal(t, "CTG_00001", results.Proteins[0].Gene)
	assert.Len(t, results.Clusters, 1)
}

func TestCollectRunResultsUnknownGeneKinds(t *testing.T) {
	fixture := `LOCUS       contig_9                 800 bp    DNA     linear   BCT 01-JAN-2024
FEATURES             Location/Qualifiers
     region          1..800
                     /region_number="1"
                     /product="terpene"
     CDS             1..300
                     /locus_tag="CTG_00001"
                     /gene_kind="regulatory"
     CDS             310..500
                     /locus_tag="CTG_00002"
                     /gene_kind="chemical_hybrid"
     CDS             510..790
                     /locus_tag="CTG_00003"
//
`
	runDir := t.TempDir()
	writeRunFile(t, runDir, "contig_9.region001.gbk", fixture)

	results, err := CollectRunResults(runDir, "run_test")
	require.NoError(t, err)
	require.Len(t, results.Clusters, 1)

	counts := results.Clusters[0].GeneCounts
	assert.Equal(t, 1, counts["regulatory"])
	// unrecognized and absent gene_kind values both land in "other"
	assert.Equal(t, 2, counts["other"])
	assert.Equal(t, 0, counts["biosynthetic"])
}

func TestCollectRunResultsEmptyDir(t *testing.T) {
	results, err := CollectRunResults(t.TempDir(), "run_test")
	require.NoError(t, err)
	assert.Empty(t, results.Proteins)
	assert.Empty(t, results.Clusters)
}

func TestCollectRunResultsSkipsUnreadableFiles(t *testing.T) {
	runDir := t.TempDir()
	writeRunFile(t, runDir, "input.gbk", genbankFixture)
	// a single 2 MB line blows the scanner's buffer and fails the read
	writeRunFile(t, runDir, "broken.gbk", "LOCUS       broken\n"+strings.Repeat("a", 2<<20))

	results, err := CollectRunResults(runDir, "run_test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.gbk")

	// the readable file still contributes
	assert.Len(t, results.Proteins, 2)
}

func TestCollectRunResultsSubdirectories(t *testing.T) {
	runDir := t.TempDir()
	nested := filepath.Join(runDir, "run_test")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeRunFile(t, nested, "input.gbk", genbankFixture)

	results, err := CollectRunResults(runDir, "run_test")
	require.NoError(t, err)
	assert.Len(t, results.Proteins, 2)
}

func TestLocationBounds(t *testing.T) {
	tests := []struct {
		loc    string
		lo, hi int
		ok     bool
	}{
		{"1..3000", 1, 3000, true},
		{"complement(100..1500)", 100, 1500, true},
		{"join(10..50,80..120)", 10, 120, true},
		{"complement(join(500..600,100..200))", 100, 600, true},
		{"<1..>900", 1, 900, true},
		{"no numbers here", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.loc, func(t *testing.T) {
			lo, hi, ok := locationBounds(tt.loc)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestIsRegionFile(t *testing.T) {
	assert.True(t, IsRegionFile("JABCD010000001.region001.gbk"))
	assert.True(t, IsRegionFile("contig_1.region012.GBK"))
	assert.False(t, IsRegionFile("input.gbk"))
	assert.False(t, IsRegionFile("region001.txt"))
}
