package model

import (
	"fmt"
	"strconv"
)

// RawFieldCandidate is one field mention as extracted from a source document.
// Produced by the upstream extraction stage; input only, never mutated.
type RawFieldCandidate struct {
	DocumentID  string  `json:"document_id"`
	RawLabel    string  `json:"raw_label"`
	RawValue    string  `json:"raw_value"`
	Confidence  float64 `json:"extraction_confidence"`
	SourceOrder int     `json:"source_order"`
}

// DocumentInput is one document's worth of extraction output: the unit of
// work handed to the engine.
type DocumentInput struct {
	DocumentID  string              `json:"document_id"`
	InsurerName string              `json:"insurer_name"`
	Candidates  []RawFieldCandidate `json:"candidates"`
}

// CanonicalValue is a typed, unit-reconciled field value. Exactly one of the
// kind-specific members is meaningful, selected by Kind.
type CanonicalValue struct {
	Kind ValueKind `json:"kind"`

	// currency: amount in minor units (cents) plus ISO 4217 code.
	AmountMinor int64  `json:"amount_minor,omitempty"`
	Currency    string `json:"currency,omitempty"`

	// percentage: fraction in [0,1].
	Fraction float64 `json:"fraction,omitempty"`

	// duration: whole days.
	Days int `json:"days,omitempty"`

	// count.
	Count int64 `json:"count,omitempty"`

	// enum token or free text.
	Text string `json:"text,omitempty"`
}

// Magnitude returns the value as an orderable float64. The second return is
// false for enum and free-text kinds, which have no natural order.
func (cv CanonicalValue) Magnitude() (float64, bool) {
	switch cv.Kind {
	case KindCurrency:
		return float64(cv.AmountMinor), true
	case KindPercentage:
		return cv.Fraction, true
	case KindDuration:
		return float64(cv.Days), true
	case KindCount:
		return float64(cv.Count), true
	default:
		return 0, false
	}
}

// Display renders the value for broker-facing output.
func (cv CanonicalValue) Display() string {
	switch cv.Kind {
	case KindCurrency:
		return fmt.Sprintf("%s %s", cv.Currency, formatMinor(cv.AmountMinor))
	case KindPercentage:
		return strconv.FormatFloat(cv.Fraction*100, 'f', -1, 64) + "%"
	case KindDuration:
		return fmt.Sprintf("%d days", cv.Days)
	case KindCount:
		return strconv.FormatInt(cv.Count, 10)
	default:
		return cv.Text
	}
}

// formatMinor renders minor units as a decimal amount with thousands separators.
func formatMinor(minor int64) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}
	whole := minor / 100
	cents := minor % 100

	digits := strconv.FormatInt(whole, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, d)
	}

	s := fmt.Sprintf("%s.%02d", grouped, cents)
	if neg {
		return "-" + s
	}
	return s
}

// ResolvedField is the single winning value for one (document, canonical
// field) pair, with the candidate it was resolved from kept for audit.
type ResolvedField struct {
	DocumentID  string            `json:"document_id"`
	CanonicalID string            `json:"canonical_id"`
	Value       CanonicalValue    `json:"value"`
	Confidence  float64           `json:"confidence"`
	Provenance  RawFieldCandidate `json:"provenance"`
}

// DocumentRecord is one document's fully resolved canonical field set.
// Built once by the conflict resolver, immutable afterwards.
type DocumentRecord struct {
	DocumentID      string                   `json:"document_id"`
	InsurerName     string                   `json:"insurer_name"`
	Fields          map[string]ResolvedField `json:"fields"`
	MissingRequired []string                 `json:"missing_required_fields"`

	// GroupTotals sums currency fields by their registry group
	// (e.g. total premium, total coverage) for the recommendations output.
	GroupTotals map[string]int64 `json:"group_totals,omitempty"`
}
