package model

// IssueCode classifies a non-fatal problem encountered during a comparison.
type IssueCode string

const (
	IssueUnmatchedLabel  IssueCode = "unmatched_label"
	IssueAmbiguousLabel  IssueCode = "ambiguous_label"
	IssueUnitParse       IssueCode = "unit_parse_error"
	IssueMissingRequired IssueCode = "missing_required_field"
	IssueInsurerInferred IssueCode = "insurer_inferred"
)

// Issue is a structured warning surfaced alongside the comparison result.
// Per-field and per-document problems are always collected here, never
// dropped and never fatal to the batch.
type Issue struct {
	DocumentID  string    `json:"document_id"`
	Code        IssueCode `json:"code"`
	CanonicalID string    `json:"canonical_id,omitempty"`
	RawLabel    string    `json:"raw_label,omitempty"`
	RawValue    string    `json:"raw_value,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

// Less imposes a deterministic order on issues: by document, then code,
// then canonical field, then raw label.
func (i Issue) Less(other Issue) bool {
	if i.DocumentID != other.DocumentID {
		return i.DocumentID < other.DocumentID
	}
	if i.Code != other.Code {
		return i.Code < other.Code
	}
	if i.CanonicalID != other.CanonicalID {
		return i.CanonicalID < other.CanonicalID
	}
	return i.RawLabel < other.RawLabel
}
