package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedUploadFile(t *testing.T) {
	accepted := []string{
		"genome.fasta", "genome.fa", "contigs.fna", "plasmid.gb",
		"record.gbk", "seqs.txt", "genes.ffn", "assembly.fas",
		"UPPER.FASTA", "dir.name/archive.v2.fa",
	}
	for _, name := range accepted {
		assert.True(t, AllowedUploadFile(name), "%s should be accepted", name)
	}

	rejected := []string{
		"", "noextension", "run.exe", "reads.fastq", "genome.gbff",
		"archive.tar.gz", "trailingdot.",
	}
	for _, name := range rejected {
		assert.False(t, AllowedUploadFile(name), "%s should be rejected", name)
	}
}

func TestIsGenBankUpload(t *testing.T) {
	assert.True(t, IsGenBankUpload("x.gb"))
	assert.True(t, IsGenBankUpload("x.GBK"))
	assert.False(t, IsGenBankUpload("x.fasta"))
	assert.False(t, IsGenBankUpload("x"))
}
