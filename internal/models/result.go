package models

// NotFound is reported for a contact field the patterns could not locate.
const NotFound = "Not Found"

type ExtractedFields struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// MatchResult is the outcome of evaluating one document against one Criteria.
// Fields is only populated when Accepted is true.
type MatchResult struct {
	Path     string          `json:"path"`
	Filename string          `json:"filename"`
	Format   Format          `json:"format"`
	Accepted bool            `json:"accepted"`
	Fields   ExtractedFields `json:"fields"`
	Error    string          `json:"error,omitempty"`
}

// Row returns the report columns in Name, Email, Phone, Filename order.
func (r MatchResult) Row() []string {
	return []string{r.Fields.Name, r.Fields.Email, r.Fields.Phone, r.Filename}
}

type ScreenResponse struct {
	RunID       string        `json:"run_id"`
	Total       int           `json:"total"`
	Shortlisted []MatchResult `json:"shortlisted"`
	Rejected    []MatchResult `json:"rejected"`
	SavedTo     string        `json:"saved_to,omitempty"`
}

type ExtractResponse struct {
	Filename string `json:"filename"`
	Format   Format `json:"format"`
	Text     string `json:"text"`
}
