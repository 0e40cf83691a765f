package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"alfredoptarigan/resume-shortlister/internal/models"
	"alfredoptarigan/resume-shortlister/internal/testutil"
)

func TestExtractDOCXJoinsParagraphsWithSpace(t *testing.T) {
	extractor := NewDocumentExtractor(zaptest.NewLogger(t))
	doc := models.NewDocumentFromBytes("jane.docx", testutil.DOCX("Jane Doe", "Bachelor of Science", "Skills: Python"))

	text, err := extractor.ExtractText(doc)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe Bachelor of Science Skills: Python", text)
}

func TestExtractDOCXFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Resume.DOCX")
	require.NoError(t, os.WriteFile(path, testutil.DOCX("one", "two"), 0644))

	text, err := NewDocumentExtractor(nil).ExtractText(models.NewDocument(path))
	require.NoError(t, err)

	assert.Equal(t, "one two", text)
}

func TestExtractPDFJoinsPagesWithSpace(t *testing.T) {
	extractor := NewDocumentExtractor(zaptest.NewLogger(t))
	doc := models.NewDocumentFromBytes("cv.pdf", testutil.PDF("Page one", "Page two"))

	text, err := extractor.ExtractText(doc)
	require.NoError(t, err)

	assert.Equal(t, "Page one Page two", text)
}

func TestExtractPDFImageOnlyPageContributesEmptyString(t *testing.T) {
	extractor := NewDocumentExtractor(zaptest.NewLogger(t))
	doc := models.NewDocumentFromBytes("scan.pdf", testutil.PDF("", "after scan"))

	text, err := extractor.ExtractText(doc)
	require.NoError(t, err)

	assert.Equal(t, " after scan", text)
}

func TestExtractUnsupportedFormatDoesNotReadFile(t *testing.T) {
	// The path does not exist: an open attempt would surface as ExtractionError.
	doc := models.NewDocument(filepath.Join(t.TempDir(), "missing", "notes.txt"))

	_, err := NewDocumentExtractor(nil).ExtractText(doc)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	var extractErr *ExtractionError
	assert.False(t, errors.As(err, &extractErr))
}

func TestExtractCorruptDocumentsReturnExtractionError(t *testing.T) {
	tests := []struct {
		name string
		doc  models.Document
	}{
		{"garbage pdf", models.NewDocumentFromBytes("bad.pdf", []byte("%PDF-1.4 this is not really a pdf"))},
		{"empty pdf", models.NewDocumentFromBytes("empty.pdf", []byte{})},
		{"docx that is not a zip", models.NewDocumentFromBytes("bad.docx", []byte("plain text pretending"))},
		{"truncated docx", models.NewDocumentFromBytes("cut.docx", testutil.DOCX("Jane Doe")[:40])},
		{"missing file", models.NewDocument(filepath.Join(t.TempDir(), "gone.pdf"))},
	}

	extractor := NewDocumentExtractor(zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := extractor.ExtractText(tt.doc)

			assert.Empty(t, text)
			var extractErr *ExtractionError
			require.True(t, errors.As(err, &extractErr), "got %v", err)
			assert.Equal(t, tt.doc.Path, extractErr.Path)
			assert.NotEmpty(t, extractErr.Err.Error())
		})
	}
}

func TestDocxParagraphs(t *testing.T) {
	body := `<w:p><w:r><w:t>Jane</w:t></w:r><w:r><w:t xml:space="preserve"> Doe</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Name</w:t><w:tab/><w:t>Value</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>inside table</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:t>line</w:t><w:br/><w:t>break</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:r><w:delText>removed</w:delText><w:t>kept</w:t></w:r></w:p>`

	docx := testutil.DOCXFromBody(body)
	text, err := NewDocumentExtractor(nil).ExtractText(models.NewDocumentFromBytes("x.docx", docx))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe Name\tValue line\nbreak  kept", text)
}
