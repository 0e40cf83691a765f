package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperienceMatcherPhrasings(t *testing.T) {
	tests := []struct {
		text  string
		years int
		want  bool
	}{
		{"5 years", 5, true},
		{"5+ years", 5, true},
		{"5 + yrs in backend", 5, true},
		{"5yr", 5, true},
		{"over 5 years of relevant work", 5, true},
		{"over5years", 5, true},
		{"at least 5 years", 5, true},
		{"at  least\t5 yrs", 5, true},
		{"minimum 5 years", 5, true},
		{"5 - years", 5, true},
		{"5-yrs", 5, true},
		{"5 years of experience", 5, true},
		{"experience: 5 years", 5, true},
		{"experience-5yrs", 5, true},
		{"experience 5 years", 5, true},
		{"0 years", 0, true},
		{"i have 5\nyears behind me", 5, true},

		{"5 months", 5, false},
		{"five years", 5, false},
		{"", 5, false},
	}

	matcher := NewExperienceMatcher()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, matcher.Matches(tt.text, tt.years))
		})
	}
}

func TestExperienceMatcherIsLiteral(t *testing.T) {
	matcher := NewExperienceMatcher()

	tests := []struct {
		name  string
		text  string
		years int
	}{
		{"more years than required", "12 years of experience", 10},
		{"fewer years than required", "3 years of experience", 5},
		{"threshold is a suffix of the stated number", "15 years", 5},
		{"threshold is a suffix after over", "over 15 years", 5},
		{"threshold is a suffix after at least", "at least 12 years", 2},
		{"threshold is a prefix of the stated number", "50 years", 5},
		{"threshold is the fraction of a decimal", "2.5 years of experience", 5},
		{"threshold is the integer part of a decimal", "5.5 years", 5},
		{"decimal after over", "over 4.5 yrs", 5},
		{"threshold after experience label", "experience: 15 years", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, matcher.Matches(tt.text, tt.years))
		})
	}
}

func TestExperienceMatcherNegativeYears(t *testing.T) {
	assert.False(t, NewExperienceMatcher().Matches("-1 years", -1))
}

func TestExperienceMatcherConcurrentUse(t *testing.T) {
	matcher := NewExperienceMatcher()

	var wg sync.WaitGroup
	results := make([]bool, 50)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = matcher.Matches("over 7 years", 7)
		}()
	}
	wg.Wait()

	for _, ok := range results {
		require.True(t, ok)
	}
}

func TestCompileExperiencePatternsFollowsTemplateOrder(t *testing.T) {
	patterns := compileExperiencePatterns(3)
	require.Len(t, patterns, len(experienceTemplates))
	assert.True(t, patterns[1].MatchString("over 3 years"))
	assert.False(t, patterns[1].MatchString("minimum 3 years"))
	assert.True(t, patterns[3].MatchString("minimum 3 years"))
}
