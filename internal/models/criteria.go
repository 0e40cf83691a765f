package models

// Criteria is a validated set of screening requirements. Skills and Education are
// already trimmed and lowercased; build it with services.NewCriteria.
type Criteria struct {
	Skills     []string `json:"skills" yaml:"skills"`
	Experience int      `json:"experience" yaml:"experience"`
	Education  string   `json:"education" yaml:"education"`
}
