package models

import (
	"encoding/json"
	"time"
)

type ScreeningStatus string

const (
	StatusQueued     ScreeningStatus = "queued"
	StatusProcessing ScreeningStatus = "processing"
	StatusCompleted  ScreeningStatus = "completed"
	StatusFailed     ScreeningStatus = "failed"
)

// ScreeningJob is the queue message asking the worker to screen every document
// stored under Prefix.
type ScreeningJob struct {
	ID         string      `json:"id"`
	Prefix     string      `json:"prefix"`
	Skills     []string    `json:"skills"`
	Experience json.Number `json:"experience"`
	Education  string      `json:"education"`
}

type ScreeningUpdate struct {
	JobID       string          `json:"job_id"`
	Status      ScreeningStatus `json:"status"`
	Message     string          `json:"message"`
	Shortlisted []MatchResult   `json:"shortlisted,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}
