package model

import "time"

// RunStatus is the lifecycle state of a persisted comparison run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted comparison call, kept for audit: the broker can
// reproduce exactly which documents were compared and what came out.
type Run struct {
	ID            string            `json:"id"`
	Status        RunStatus         `json:"status"`
	DocumentCount int               `json:"document_count"`
	Input         []DocumentInput   `json:"input,omitempty"`
	Result        *ComparisonResult `json:"result,omitempty"`
	Error         string            `json:"error,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
