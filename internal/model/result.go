package model

import "time"

// StageStatus represents the current state of a pipeline stage.
type StageStatus string

const (
	StageStatusComplete StageStatus = "complete"
	StageStatusFailed   StageStatus = "failed"
	StageStatusSkipped  StageStatus = "skipped"
)

// StageResult holds the outcome of one pipeline stage.
type StageResult struct {
	Name     string         `json:"name"`
	Status   StageStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// PipelineResult is the final output of one product run.
type PipelineResult struct {
	URL        string          `json:"url"`
	ProductID  string          `json:"product_id,omitempty"`
	Resumed    bool            `json:"resumed"`
	Stages     []StageResult   `json:"stages"`
	Evaluation *Evaluation     `json:"evaluation,omitempty"`
	Claims     *ClaimsAnalysis `json:"claims,omitempty"`
	Stats      *ProductStats   `json:"stats,omitempty"`
	Report     string          `json:"report"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// ProductStats is the read model behind the final statistics stage and
// the products command.
type ProductStats struct {
	ProductID      string         `json:"product_id"`
	URL            string         `json:"url"`
	Name           string         `json:"name"`
	ImageCount     int            `json:"image_count"`
	ImageTexts     int            `json:"image_texts"`
	ReviewCount    int            `json:"review_count"`
	RatingCounts   map[string]int `json:"rating_counts"`
	HasSummary     bool           `json:"has_summary"`
	GroupsAnalyzed int            `json:"groups_analyzed"`
	FinalScore     *float64       `json:"final_score,omitempty"`
	Grade          string         `json:"grade,omitempty"`
	TrustLevel     string         `json:"trust_level,omitempty"`
}
