package model

import (
	"github.com/yumyai/smashboard/internal/util"
)

var (
	// Extensions the upload form accepts. antiSMASH itself only cares
	// about FASTA vs GenBank, so everything here funnels into one of
	// those two formats.
	ALLOWED_EXTENSIONS = map[string]struct{}{
		"fasta": {},
		"fa":    {},
		"fna":   {},
		"gb":    {},
		"gbk":   {},
		"txt":   {},
		"ffn":   {},
		"fas":   {},
	}

	// GenBank-flavored extensions, for picking how to summarize an upload.
	GENBANK_EXTENSIONS = map[string]struct{}{
		"gb":  {},
		"gbk": {},
	}
)

// DEFAULT_DOCKER_IMAGE is used when SMASHBOARD_IMAGE is unset.
const DEFAULT_DOCKER_IMAGE = "antismash/standalone:latest"

// AllowedUploadFile checks the filename extension against the accepted
// list. Names without any extension are rejected outright.
func AllowedUploadFile(filename string) bool {
	ext := util.FileExt(filename)
	if ext == "" {
		return false
	}
	_, ok := ALLOWED_EXTENSIONS[ext]
	return ok
}

// IsGenBankUpload reports whether the filename looks like a GenBank file.
func IsGenBankUpload(filename string) bool {
	_, ok := GENBANK_EXTENSIONS[util.FileExt(filename)]
	return ok
}
