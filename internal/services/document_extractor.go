package services

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"

	"alfredoptarigan/resume-shortlister/internal/models"
)

type DocumentExtractor interface {
	// ExtractText returns the flat text of a PDF or DOCX document. Unsupported
	// formats fail with ErrUnsupportedFormat before the document is read; parse
	// failures are reported as *ExtractionError.
	ExtractText(doc models.Document) (string, error)
}

type documentExtractor struct {
	logger *zap.Logger
}

func NewDocumentExtractor(logger *zap.Logger) DocumentExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &documentExtractor{logger: logger}
}

func (e *documentExtractor) ExtractText(doc models.Document) (text string, err error) {
	if !doc.Supported() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, doc.Filename)
	}

	// Both parsers index into the raw bytes and may panic on truncated input.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Path: doc.Path, Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	reader, size, closeFn, err := openDocument(doc)
	if err != nil {
		return "", &ExtractionError{Path: doc.Path, Err: err}
	}
	defer closeFn()

	switch doc.Format {
	case models.FormatPDF:
		text, err = e.extractPDF(doc, reader, size)
	case models.FormatDOCX:
		text, err = extractDOCX(reader, size)
	}
	if err != nil {
		return "", &ExtractionError{Path: doc.Path, Err: err}
	}

	return text, nil
}

func openDocument(doc models.Document) (io.ReaderAt, int64, func(), error) {
	if doc.Content != nil {
		return bytes.NewReader(doc.Content), int64(len(doc.Content)), func() {}, nil
	}

	f, err := os.Open(doc.Path)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to open file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return f, info.Size(), func() { f.Close() }, nil
}

// extractPDF joins the plain text of every page with a single space. Pages without
// a text layer contribute an empty string, so image-only scans degrade to blank text.
func (e *documentExtractor) extractPDF(doc models.Document, reader io.ReaderAt, size int64) (string, error) {
	r, err := pdf.NewReader(reader, size)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	totalPage := r.NumPage()
	pages := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Debug("page has no extractable text",
				zap.String("file", doc.Filename),
				zap.Int("page", pageIndex),
				zap.Error(err),
			)
			pages = append(pages, "")
			continue
		}

		pages = append(pages, text)
	}

	return strings.Join(pages, " "), nil
}

func extractDOCX(reader io.ReaderAt, size int64) (string, error) {
	r, err := docx.ReadDocxFromMemory(reader, size)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer r.Close()

	paragraphs, err := docxParagraphs(r.Editable().GetContent())
	if err != nil {
		return "", err
	}

	return strings.Join(paragraphs, " "), nil
}

// docxParagraphs walks word/document.xml and returns the text of each paragraph
// that is a direct child of the body, in document order. Paragraphs inside tables,
// text boxes and content controls are not body paragraphs and are skipped.
func docxParagraphs(content string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		current    strings.Builder
		stack      []string
		paraDepth  = -1
	)

	parent := func() string {
		if len(stack) < 2 {
			return ""
		}
		return stack[len(stack)-2]
	}
	// inBodyParagraph reports whether no other paragraph is open beneath the
	// body paragraph that started at paraDepth.
	inBodyParagraph := func() bool {
		if paraDepth < 0 {
			return false
		}
		for _, name := range stack[paraDepth+1:] {
			if name == "p" {
				return false
			}
		}
		return true
	}

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse docx document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			name := t.Name.Local
			switch {
			case name == "p" && parent() == "body":
				paraDepth = len(stack) - 1
				current.Reset()
			case (name == "tab" || name == "br" || name == "cr") && parent() == "r" && inBodyParagraph():
				if name == "tab" {
					current.WriteByte('\t')
				} else {
					current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if len(stack) > 0 && stack[len(stack)-1] == "t" && parent() == "r" && inBodyParagraph() {
				current.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			if t.Name.Local == "p" && len(stack)-1 == paraDepth {
				paragraphs = append(paragraphs, current.String())
				paraDepth = -1
			}
			stack = stack[:len(stack)-1]
		}
	}

	return paragraphs, nil
}
