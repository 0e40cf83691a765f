package services

import (
	"fmt"
	"strconv"
	"strings"

	"alfredoptarigan/resume-shortlister/internal/models"
)

// SplitSkills splits a comma-separated skills field as typed by a recruiter.
func SplitSkills(raw string) []string {
	return strings.Split(raw, ",")
}

// ParseCriteria validates raw recruiter input, including the textual experience
// value, and returns normalized criteria. Errors wrap ErrInvalidCriteria.
func ParseCriteria(skills []string, experience, education string) (models.Criteria, error) {
	experience = strings.TrimSpace(experience)
	if experience == "" {
		return models.Criteria{}, fmt.Errorf("%w: experience is required", ErrInvalidCriteria)
	}

	years, err := strconv.Atoi(experience)
	if err != nil {
		return models.Criteria{}, fmt.Errorf("%w: experience must be a number, got %q", ErrInvalidCriteria, experience)
	}

	return NewCriteria(skills, years, education)
}

// NewCriteria normalizes skills and education (trim, lowercase, drop empty and
// duplicate skills, first occurrence wins) and validates every field.
func NewCriteria(skills []string, experience int, education string) (models.Criteria, error) {
	normalized := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = normalizeSkill(skill)
		if skill == "" {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		normalized = append(normalized, skill)
	}

	if len(normalized) == 0 {
		return models.Criteria{}, fmt.Errorf("%w: at least one skill is required", ErrInvalidCriteria)
	}
	if experience < 0 {
		return models.Criteria{}, fmt.Errorf("%w: experience must not be negative, got %d", ErrInvalidCriteria, experience)
	}

	education = strings.ToLower(strings.TrimSpace(education))
	if education == "" {
		return models.Criteria{}, fmt.Errorf("%w: education is required", ErrInvalidCriteria)
	}

	return models.Criteria{
		Skills:     normalized,
		Experience: experience,
		Education:  education,
	}, nil
}

// normalizeSkill lowercases a skill and collapses inner whitespace.
func normalizeSkill(skill string) string {
	return strings.Join(strings.Fields(strings.ToLower(skill)), " ")
}
