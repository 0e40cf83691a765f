package services

import (
	"regexp"
	"strings"

	"alfredoptarigan/resume-shortlister/internal/models"
)

// fieldPattern is one row of the contact-field pattern table.
type fieldPattern struct {
	Field   string
	Pattern *regexp.Regexp
	// Limitation describes inputs the pattern is known to get wrong.
	Limitation string
}

// fieldPatterns holds the heuristics used to pull contact details out of resume
// text. Only the first match of each pattern is used.
var fieldPatterns = []fieldPattern{
	{
		Field:      "email",
		Pattern:    regexp.MustCompile(`\b[\w.-]+?@\w+?\.\w+?\b`),
		Limitation: "domain is cut after its first label (a@mail.example.com yields a@mail.example); '+' and other local-part characters are not accepted",
	},
	{
		Field:      "phone",
		Pattern:    regexp.MustCompile(`(?:\+?\d{1,3}[\s-]?)?(?:\d{10}|\d{3}[\s-]\d{3}[\s-]\d{4})`),
		Limitation: "assumes ten-digit national numbers; parenthesised area codes and other groupings are missed, and long digit runs such as IDs are accepted",
	},
}

type FieldExtractor interface {
	ExtractFields(text string) models.ExtractedFields
}

type fieldExtractor struct {
	email *regexp.Regexp
	phone *regexp.Regexp
}

func NewFieldExtractor() FieldExtractor {
	fe := &fieldExtractor{}
	for _, fp := range fieldPatterns {
		switch fp.Field {
		case "email":
			fe.email = fp.Pattern
		case "phone":
			fe.phone = fp.Pattern
		}
	}
	return fe
}

// ExtractFields applies the pattern table to text. Name is the first non-empty
// line, which is frequently a header or the whole document for formats without
// line breaks.
func (f *fieldExtractor) ExtractFields(text string) models.ExtractedFields {
	return models.ExtractedFields{
		Name:  firstLine(text),
		Email: firstMatch(f.email, text),
		Phone: firstMatch(f.phone, text),
	}
}

func firstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindString(text); m != "" {
		return m
	}
	return models.NotFound
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return models.NotFound
}
