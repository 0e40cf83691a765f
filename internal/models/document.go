package models

import (
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatPDF         Format = "pdf"
	FormatDOCX        Format = "docx"
	FormatUnsupported Format = "unsupported"
)

// FormatFromName maps a file name or object key to its document format by extension.
func FormatFromName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatUnsupported
	}
}

// Document is one resume discovered by a store or received by upload. Content is
// nil when the bytes live on the local filesystem at Path.
type Document struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Format   Format `json:"format"`
	Content  []byte `json:"-"`
}

func NewDocument(path string) Document {
	return Document{
		Path:     path,
		Filename: filepath.Base(path),
		Format:   FormatFromName(path),
	}
}

func NewDocumentFromBytes(filename string, content []byte) Document {
	return Document{
		Path:     filename,
		Filename: filepath.Base(filename),
		Format:   FormatFromName(filename),
		Content:  content,
	}
}

func (d Document) Supported() bool {
	return d.Format == FormatPDF || d.Format == FormatDOCX
}
