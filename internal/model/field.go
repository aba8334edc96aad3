package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ValueKind is the expected type of a canonical field's value.
type ValueKind string

const (
	KindCurrency   ValueKind = "currency"
	KindPercentage ValueKind = "percentage"
	KindDuration   ValueKind = "duration"
	KindCount      ValueKind = "count"
	KindEnum       ValueKind = "enum"
	KindText       ValueKind = "text"
)

// Orderable reports whether values of this kind can be ranked best-to-worst.
func (k ValueKind) Orderable() bool {
	switch k {
	case KindCurrency, KindPercentage, KindDuration, KindCount:
		return true
	default:
		return false
	}
}

// Direction states whether a higher or lower value is preferable for a field.
// It is explicit registry data, never inferred from the field name.
type Direction string

const (
	DirectionHigher Direction = "higher"
	DirectionLower  Direction = "lower"
	DirectionNone   Direction = "none"
)

// FieldDefinition describes one canonical, insurer-independent quote field.
type FieldDefinition struct {
	CanonicalID string    `json:"canonical_id" yaml:"canonical_id"`
	DisplayName string    `json:"display_name" yaml:"display_name"`
	Kind        ValueKind `json:"kind" yaml:"kind"`
	UnitFamily  string    `json:"unit_family,omitempty" yaml:"unit_family,omitempty"`
	Required    bool      `json:"required" yaml:"required"`
	Direction   Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
	Group       string    `json:"group,omitempty" yaml:"group,omitempty"`
	Weight      float64   `json:"weight,omitempty" yaml:"weight,omitempty"`
	Synonyms    []string  `json:"synonyms" yaml:"synonyms"`
	EnumValues  []string  `json:"enum_values,omitempty" yaml:"enum_values,omitempty"`
}

// Vocabulary is an indexed, read-only registry of field definitions.
// Field order is the canonical column order for comparison output.
type Vocabulary struct {
	Fields    []FieldDefinition
	byID      map[string]*FieldDefinition
	bySynonym map[string]*FieldDefinition
	required  []*FieldDefinition
}

// NewVocabulary builds an indexed Vocabulary and validates its invariants:
// canonical ids are unique and no normalized synonym maps to two fields.
func NewVocabulary(fields []FieldDefinition) (*Vocabulary, error) {
	v := &Vocabulary{
		Fields:    fields,
		byID:      make(map[string]*FieldDefinition, len(fields)),
		bySynonym: make(map[string]*FieldDefinition),
	}

	for i := range v.Fields {
		f := &v.Fields[i]
		if f.CanonicalID == "" {
			return nil, eris.New("vocabulary: field with empty canonical_id")
		}
		if _, dup := v.byID[f.CanonicalID]; dup {
			return nil, eris.Errorf("vocabulary: duplicate canonical_id %q", f.CanonicalID)
		}
		if f.Direction == "" {
			f.Direction = DirectionNone
		}
		if f.Weight == 0 {
			f.Weight = 1
		}
		v.byID[f.CanonicalID] = f

		for _, syn := range f.Synonyms {
			norm := NormalizeLabel(syn)
			if norm == "" {
				continue
			}
			if other, dup := v.bySynonym[norm]; dup && other.CanonicalID != f.CanonicalID {
				return nil, eris.Errorf("vocabulary: synonym %q maps to both %q and %q",
					syn, other.CanonicalID, f.CanonicalID)
			}
			v.bySynonym[norm] = f
		}
		// The display name and canonical id double as synonyms of themselves.
		for _, self := range []string{f.DisplayName, strings.ReplaceAll(f.CanonicalID, "_", " ")} {
			norm := NormalizeLabel(self)
			if norm == "" {
				continue
			}
			if other, dup := v.bySynonym[norm]; dup && other.CanonicalID != f.CanonicalID {
				return nil, eris.Errorf("vocabulary: label %q maps to both %q and %q",
					self, other.CanonicalID, f.CanonicalID)
			}
			v.bySynonym[norm] = f
		}

		if f.Required {
			v.required = append(v.required, f)
		}
	}

	return v, nil
}

// ByID returns the field definition for the given canonical id, or nil.
func (v *Vocabulary) ByID(id string) *FieldDefinition {
	return v.byID[id]
}

// ByLabel returns the field definition whose synonym set contains the
// normalized label, or nil. Exact match only; fuzzy matching lives in
// the match package.
func (v *Vocabulary) ByLabel(label string) *FieldDefinition {
	return v.bySynonym[NormalizeLabel(label)]
}

// Synonyms returns the full normalized synonym index. The matcher iterates
// it for fuzzy fallback scoring.
func (v *Vocabulary) Synonyms() map[string]*FieldDefinition {
	return v.bySynonym
}

// Required returns all required field definitions in registry order.
func (v *Vocabulary) Required() []*FieldDefinition {
	return v.required
}

// NormalizeLabel canonicalizes a raw label for comparison: case-fold, trim,
// collapse internal whitespace, strip trailing punctuation. Every label
// comparison in the engine goes through this.
func NormalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ":;,.?! ")
}
