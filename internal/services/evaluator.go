package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-shortlister/internal/models"
)

// tokenPunctuation is stripped from both ends of a token before skill comparison,
// so "python," in a skills list still counts as the token "python".
const tokenPunctuation = `,;:.!?()[]{}"'`

type CriteriaEvaluator interface {
	// Evaluate screens one document against criteria. It never fails: extraction
	// errors and unsupported formats produce a rejected result with Error set.
	Evaluate(doc models.Document, criteria models.Criteria) models.MatchResult
}

type criteriaEvaluator struct {
	extractor  DocumentExtractor
	fields     FieldExtractor
	experience ExperienceMatcher
	logger     *zap.Logger
}

func NewCriteriaEvaluator(
	extractor DocumentExtractor,
	fields FieldExtractor,
	experience ExperienceMatcher,
	logger *zap.Logger,
) CriteriaEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &criteriaEvaluator{
		extractor:  extractor,
		fields:     fields,
		experience: experience,
		logger:     logger,
	}
}

func (e *criteriaEvaluator) Evaluate(doc models.Document, criteria models.Criteria) models.MatchResult {
	result := models.MatchResult{
		Path:     doc.Path,
		Filename: doc.Filename,
		Format:   doc.Format,
	}

	text, err := e.extractor.ExtractText(doc)
	if err != nil {
		result.Error = err.Error()
		if errors.Is(err, ErrUnsupportedFormat) {
			e.logger.Debug("skipping unsupported document", zap.String("file", doc.Filename))
		} else {
			e.logger.Warn("text extraction failed", zap.String("file", doc.Filename), zap.Error(err))
		}
		return result
	}

	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		result.Error = "no text content found"
		e.logger.Warn("document has no extractable text", zap.String("file", doc.Filename))
		return result
	}

	skills := matchesSkills(text, criteria.Skills)
	experience := skills && e.experience.Matches(text, criteria.Experience)
	education := experience && matchesEducation(text, criteria.Education)

	e.logger.Debug("document evaluated",
		zap.String("file", doc.Filename),
		zap.Bool("skills", skills),
		zap.Bool("experience", experience),
		zap.Bool("education", education),
	)

	if !education {
		return result
	}

	result.Accepted = true
	result.Fields = e.fields.ExtractFields(text)
	return result
}

// matchesSkills reports whether any skill appears as a whole token of text. A
// multi-word skill must appear as a run of consecutive tokens.
func matchesSkills(text string, skills []string) bool {
	raw := strings.Fields(text)
	tokens := make([]string, 0, len(raw))
	set := make(map[string]struct{}, len(raw)*2)
	for _, tok := range raw {
		set[tok] = struct{}{}
		if trimmed := strings.Trim(tok, tokenPunctuation); trimmed != "" {
			set[trimmed] = struct{}{}
			tokens = append(tokens, trimmed)
		}
	}

	for _, skill := range skills {
		words := strings.Fields(normalizeSkill(skill))
		switch len(words) {
		case 0:
			continue
		case 1:
			if _, ok := set[words[0]]; ok {
				return true
			}
		default:
			if containsRun(tokens, words) {
				return true
			}
		}
	}
	return false
}

func containsRun(tokens, words []string) bool {
	for i := 0; i+len(words) <= len(tokens); i++ {
		match := true
		for j, w := range words {
			if tokens[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func matchesEducation(text, education string) bool {
	return strings.Contains(text, strings.ToLower(strings.TrimSpace(education)))
}
