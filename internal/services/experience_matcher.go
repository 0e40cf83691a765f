package services

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
)

const (
	yearUnit = `(?:years?|yrs?)`
	// numberStart keeps N from matching the tail of a longer number such as
	// "15" or "2.5".
	numberStart = `(?:^|[^\d.])`
)

// experienceTemplates are the phrasings recognised as a claim of N years of
// experience, in evaluation order. %s is replaced by the literal threshold.
// Templates that open with the number are anchored so that "15 years" and
// "2.5 years" do not satisfy a threshold of 5.
var experienceTemplates = []string{
	numberStart + `%s\s*\+?\s*` + yearUnit,
	`over\s*%s\s*` + yearUnit,
	`at\s*least\s*%s\s*` + yearUnit,
	`minimum\s*%s\s*` + yearUnit,
	numberStart + `%s\s*-\s*` + yearUnit,
	numberStart + `%s\s*` + yearUnit + `\s*of\s*experience`,
	`experience\s*[:\-]?\s*%s\s*` + yearUnit,
}

type ExperienceMatcher interface {
	// Matches reports whether lowercased text states exactly the given number
	// of years using one of the recognised phrasings. It does not compare
	// numbers: "12 years" does not satisfy a threshold of 10.
	Matches(text string, years int) bool
}

// experienceMatcher compiles the template table once per threshold; the cache is
// shared by concurrent evaluations.
type experienceMatcher struct {
	compiled sync.Map // int -> []*regexp.Regexp
}

func NewExperienceMatcher() ExperienceMatcher {
	return &experienceMatcher{}
}

func (m *experienceMatcher) patterns(years int) []*regexp.Regexp {
	if cached, ok := m.compiled.Load(years); ok {
		return cached.([]*regexp.Regexp)
	}
	patterns := compileExperiencePatterns(years)
	m.compiled.Store(years, patterns)
	return patterns
}

func (m *experienceMatcher) Matches(text string, years int) bool {
	if years < 0 {
		return false
	}
	for _, re := range m.patterns(years) {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func compileExperiencePatterns(years int) []*regexp.Regexp {
	n := regexp.QuoteMeta(strconv.Itoa(years))
	patterns := make([]*regexp.Regexp, len(experienceTemplates))
	for i, tmpl := range experienceTemplates {
		patterns[i] = regexp.MustCompile(fmt.Sprintf(tmpl, n))
	}
	return patterns
}
