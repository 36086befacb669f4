// Package source provides the per-file handle shared between an importer's
// detection and extraction phases. The decoded text of a file is computed at
// most once and cached on the handle itself, so there is no hidden mutable
// state inside importers; callers create one File per ingestion and pass the
// same handle to both Identify and Extract.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TextFunc decodes a file on disk into text. Binary formats (PDF payslips)
// inject their own converter; the default reads the file verbatim.
type TextFunc func(path string) (string, error)

// ReadText is the default converter: the raw file contents as a string.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// contentTypes maps filename extensions to declared content types. Detection
// dispatches on this before any converter runs, so at most one converter is
// ever invoked for a given file.
var contentTypes = map[string]string{
	".csv": "text/csv",
	".pdf": "application/pdf",
	".qif": "application/x-qw",
	".txt": "text/plain",
}

// File is a single source statement file presented for import.
type File struct {
	path string
	text *string
}

// New creates a handle for one file. The handle must not be reused for a
// different path; create a new File per ingestion.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the full path of the file.
func (f *File) Path() string { return f.path }

// Name returns the base filename.
func (f *File) Name() string { return filepath.Base(f.path) }

// ContentType returns the declared content type for the file, derived from
// its extension, or "" when the extension is not recognized.
func (f *File) ContentType() string {
	return contentTypes[strings.ToLower(filepath.Ext(f.path))]
}

// Text returns the decoded text of the file, converting on first use and
// caching for every later call. A nil convert uses ReadText.
func (f *File) Text(convert TextFunc) (string, error) {
	if f.text != nil {
		return *f.text, nil
	}
	if convert == nil {
		convert = ReadText
	}
	text, err := convert(f.path)
	if err != nil {
		return "", err
	}
	f.text = &text
	return text, nil
}

// Lines returns the decoded text split into lines, without trailing newlines.
func (f *File) Lines(convert TextFunc) ([]string, error) {
	text, err := f.Text(convert)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}
