package model

// CellFlags annotates one document's value for one canonical field.
type CellFlags struct {
	IsBest    bool `json:"is_best"`
	IsWorst   bool `json:"is_worst"`
	IsOutlier bool `json:"is_outlier"`
}

// FieldComparison is the cross-document verdict for one canonical field.
// Best/worst are empty for kinds with no natural order (enum, text).
type FieldComparison struct {
	CanonicalID     string               `json:"canonical_id"`
	BestDocumentID  string               `json:"best_document_id,omitempty"`
	WorstDocumentID string               `json:"worst_document_id,omitempty"`
	Flags           map[string]CellFlags `json:"flags"`
}

// DocumentScore is one document's overall advisory ranking entry.
type DocumentScore struct {
	DocumentID  string  `json:"document_id"`
	InsurerName string  `json:"insurer_name"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
}

// ComparisonResult is the engine's complete output: ordered columns,
// ordered document rows, per-field verdicts, an advisory ranking, and
// every issue collected along the way. Read-only to consumers.
type ComparisonResult struct {
	Columns          []string                   `json:"columns"`
	Documents        []DocumentRecord           `json:"documents"`
	FieldComparisons map[string]FieldComparison `json:"field_comparisons"`
	Ranking          []DocumentScore            `json:"ranking"`
	Issues           []Issue                    `json:"issues"`
}
