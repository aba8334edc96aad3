package resolve

import (
	"strings"

	"github.com/sells-group/quote-compare/internal/model"
)

// knownInsurers is the fallback list for insurer identification when the
// extraction stage supplies no insurer name.
var knownInsurers = []string{
	"AAMI", "Allianz", "Budget Direct", "NRMA", "Suncorp",
	"QBE", "Youi", "RACV", "CommInsure", "Virgin Money",
	"Woolworths Insurance", "Coles Insurance", "SGIC",
	"TAL", "Zurich", "MLC", "AIA", "MetLife",
}

// inferInsurer scans the document id and candidate text for a known insurer
// name. Returns "" when nothing matches; the caller records an issue when a
// name is inferred so the broker can verify it.
func inferInsurer(doc model.DocumentInput) string {
	haystacks := []string{strings.ToUpper(doc.DocumentID)}
	for _, c := range doc.Candidates {
		haystacks = append(haystacks, strings.ToUpper(c.RawLabel), strings.ToUpper(c.RawValue))
	}

	for _, insurer := range knownInsurers {
		needle := strings.ToUpper(insurer)
		for _, h := range haystacks {
			if strings.Contains(h, needle) {
				return insurer
			}
		}
	}
	return ""
}
