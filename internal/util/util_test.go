package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"genome.fasta", "genome.fasta"},
		{"my genome (v2).fasta", "my_genome_v2_.fasta"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\x\genome.gbk`, "genome.gbk"},
		{".hidden", "hidden"},
		{"..", ""},
		{"weird$chars!.fa", "weird_chars_.fa"},
	}

	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFileExt(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"genome.fasta", "fasta"},
		{"genome.GBK", "gbk"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"trailing.", ""},
	}

	for _, tc := range cases {
		if got := FileExt(tc.in); got != tc.want {
			t.Errorf("FileExt(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()

	if !DirExists(dir) {
		t.Errorf("DirExists(%q) = false for a real directory", dir)
	}
	if DirExists(filepath.Join(dir, "missing")) {
		t.Errorf("DirExists reported a missing path as a directory")
	}

	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if DirExists(file) {
		t.Errorf("DirExists(%q) = true for a regular file", file)
	}
}
