package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CriteriaFile is the on-disk form of a recruiter's screening criteria.
//
//	skills: [go, postgres]
//	experience: 5
//	education: bachelor
type CriteriaFile struct {
	Skills     []string `yaml:"skills"`
	Experience string   `yaml:"experience"`
	Education  string   `yaml:"education"`
}

// LoadCriteriaFile reads a YAML criteria file. Experience is kept as raw text and
// validated together with the other inputs by services.ParseCriteria.
func LoadCriteriaFile(path string) (*CriteriaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read criteria file: %w", err)
	}

	var cf CriteriaFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse criteria file: %w", err)
	}

	return &cf, nil
}
