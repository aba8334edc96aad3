// Package reconcile converts raw extracted value strings into canonical,
// cross-insurer-comparable representations per field kind.
package reconcile

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/currency"

	"github.com/sells-group/quote-compare/internal/model"
)

// ErrUnitParse is the root of every value-conversion failure. Callers
// check it with errors.Is; the wrapped message carries the specifics.
var ErrUnitParse = eris.New("unit parse error")

// DefaultCurrency is assumed when a currency value carries no code.
const DefaultCurrency = "USD"

// Reconciler parses raw values into canonical representations. Safe for
// concurrent use.
type Reconciler struct {
	defaultCurrency currency.Unit
}

// New creates a Reconciler with the given default ISO 4217 currency code.
func New(defaultCurrency string) (*Reconciler, error) {
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}
	unit, err := currency.ParseISO(defaultCurrency)
	if err != nil {
		return nil, eris.Wrapf(err, "reconcile: invalid default currency %q", defaultCurrency)
	}
	return &Reconciler{defaultCurrency: unit}, nil
}

// Parse converts a raw value string into the canonical value for the
// field's kind. Failures wrap ErrUnitParse; the field is then omitted
// from the document rather than failing the batch.
func (r *Reconciler) Parse(def *model.FieldDefinition, raw string) (model.CanonicalValue, error) {
	switch def.Kind {
	case model.KindCurrency:
		return r.parseCurrency(raw)
	case model.KindPercentage:
		return parsePercentage(raw)
	case model.KindDuration:
		return parseDuration(raw)
	case model.KindCount:
		return parseCount(raw)
	case model.KindEnum:
		return parseEnum(def, raw)
	case model.KindText:
		return parseText(raw)
	default:
		return model.CanonicalValue{}, eris.Wrapf(ErrUnitParse, "unknown kind %q", def.Kind)
	}
}

// periodSuffixes are payment-period annotations insurers tack onto amounts.
// They carry no unit information for a currency field and are stripped.
var periodSuffixes = []string{
	"/year", "/yr", "/month", "/mo", "per year", "per annum", "per month",
	"p.a.", "pa", "annually", "yearly", "monthly",
}

func (r *Reconciler) parseCurrency(raw string) (model.CanonicalValue, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.CanonicalValue{}, eris.Wrap(ErrUnitParse, "currency: empty value")
	}

	lower := strings.ToLower(s)
	for _, suf := range periodSuffixes {
		if strings.HasSuffix(lower, suf) {
			s = strings.TrimSpace(s[:len(s)-len(suf)])
			lower = strings.ToLower(s)
			break
		}
	}
	for _, suf := range []string{" dollars", " dollar"} {
		if strings.HasSuffix(lower, suf) {
			s = strings.TrimSpace(s[:len(s)-len(suf)])
			break
		}
	}

	code := r.defaultCurrency.String()

	// Leading ISO code: "AUD 1,000".
	if len(s) > 3 && isAlpha3(s[:3]) {
		if unit, err := currency.ParseISO(s[:3]); err == nil {
			code = unit.String()
			s = strings.TrimSpace(s[3:])
		}
	}
	// Trailing ISO code: "1,000 AUD".
	if len(s) > 3 && isAlpha3(s[len(s)-3:]) {
		if unit, err := currency.ParseISO(s[len(s)-3:]); err == nil {
			code = unit.String()
			s = strings.TrimSpace(s[:len(s)-3])
		}
	}

	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return model.CanonicalValue{}, eris.Wrapf(ErrUnitParse, "currency: no amount in %q", raw)
	}

	minor, err := parseMinorUnits(s)
	if err != nil {
		return model.CanonicalValue{}, eris.Wrapf(ErrUnitParse, "currency: %q: %v", raw, err)
	}

	return model.CanonicalValue{
		Kind:        model.KindCurrency,
		AmountMinor: minor,
		Currency:    code,
	}, nil
}

// parseMinorUnits converts a plain decimal string to minor units without
// going through float64, so large sums stay exact.
func parseMinorUnits(s string) (int64, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, eris.Errorf("not a decimal amount: %q", s)
	}

	var cents int64
	switch {
	case frac == "":
	case len(frac) == 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, eris.Errorf("not a decimal amount: %q", s)
		}
		cents = d * 10
	default:
		d, err := strconv.ParseInt(frac[:2], 10, 64)
		if err != nil {
			return 0, eris.Errorf("not a decimal amount: %q", s)
		}
		cents = d
		// Round half up on the third decimal digit.
		if len(frac) > 2 && frac[2] >= '5' && frac[2] <= '9' {
			cents++
		}
	}

	minor := w*100 + cents
	if neg {
		minor = -minor
	}
	return minor, nil
}

func parsePercentage(raw string) (model.CanonicalValue, error) {
	s := strings.TrimSpace(raw)
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.ReplaceAll(s, ",", "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.CanonicalValue{}, eris.Wrapf(ErrUnitParse, "percentage: %q", raw)
	}
	if pct || f > 1 {
		f /= 100
	}
	if f < 0 || f > 1 {
		return model.CanonicalValue{}, eris.Wrapf(ErrUnitParse, "percentage: %q out of range", raw)
	}

	return model.CanonicalValue{Kind: model.KindPercentage, Fraction: f}, nil
}

// daysPerUnit uses 365-day years and 30-day months, matching broker
// convention for quote terms.
var daysPerUnit = map[string]int{
	"day": 1, "days": 1, "d": 1,
	"week": 7, "weeks": 7, "w": 7,
	"month": 30, "months": 30, "mo": 30, "mos": 30,
	"year": 365, "years": 365, "yr": 365, "yrs": 365, "y": 365,
}

func parseDuration(raw string) (model.CanonicalValue, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	if len(fields) == 0 {
		return model.CanonicalValue{}, eris.Wrap(ErrUnitParse, "duration: empty value")
	}

	n, err := strconv.Atoi(strings.ReplaceAll(fields[0], ",", ""))
	if err != nil {
		return model.CanonicalValue{}, eris.Wrapf(ErrUnitParse, "duration: %q", raw)
	}

	days := n // bare numbers are taken as days
	if len(fields) > 1 {
		unit := strings.TrimRight(fields[1], ".,")
		mult, ok := daysPerUnit[unit]
		if !ok {
			return model.CanonicalValue{}, eris.Wrapf(ErrUnitParse, "duration: unknown unit in %q", raw)
		}
		days = n * mult
	}
	if days < 0 {
		return model.CanonicalValue{}, eris.Wrapf(ErrUnitParse, "duration: negative in %q", raw)
	}

	return model.CanonicalValue{Kind: model.KindDuration, Days: days}, nil
}

func parseCount(raw string) (model.CanonicalValue, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return model.CanonicalValue{}, eris.Wrapf(ErrUnitParse, "count: %q", raw)
	}
	return model.CanonicalValue{Kind: model.KindCount, Count: n}, nil
}

func parseEnum(def *model.FieldDefinition, raw string) (model.CanonicalValue, error) {
	norm := model.NormalizeLabel(raw)
	for _, ev := range def.EnumValues {
		if model.NormalizeLabel(ev) == norm {
			return model.CanonicalValue{Kind: model.KindEnum, Text: ev}, nil
		}
	}
	return model.CanonicalValue{}, eris.Wrapf(ErrUnitParse,
		"enum: %q not among allowed values for %s", raw, def.CanonicalID)
}

func parseText(raw string) (model.CanonicalValue, error) {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return model.CanonicalValue{}, eris.Wrap(ErrUnitParse, "text: empty value")
	}
	return model.CanonicalValue{Kind: model.KindText, Text: s}, nil
}

func isAlpha3(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
