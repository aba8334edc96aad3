// Package report renders a ComparisonResult for brokers: a Markdown
// summary for the terminal and an XLSX workbook for clients. Rendering
// only; all comparison semantics live upstream.
package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/quote-compare/internal/model"
)

// FormatReport generates a human-readable comparison report.
func FormatReport(v *model.Vocabulary, result *model.ComparisonResult) string {
	var b strings.Builder

	b.WriteString("# Quote Comparison\n\n")

	// Summary.
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Documents compared: %d\n", len(result.Documents))
	fmt.Fprintf(&b, "- Fields compared: %d\n", len(result.Columns))
	fmt.Fprintf(&b, "- Issues: %d\n\n", len(result.Issues))

	// Ranking.
	b.WriteString("## Ranking\n")
	for _, ds := range result.Ranking {
		name := ds.InsurerName
		if name == "" {
			name = ds.DocumentID
		}
		fmt.Fprintf(&b, "%d. **%s** (%s) — score %.3f\n", ds.Rank, name, ds.DocumentID, ds.Score)
	}
	b.WriteString("\n")

	// Per-field matrix.
	b.WriteString("## Fields\n")
	for _, id := range result.Columns {
		def := v.ByID(id)
		name := id
		if def != nil {
			name = def.DisplayName
		}
		fmt.Fprintf(&b, "### %s\n", name)

		fc := result.FieldComparisons[id]
		for _, rec := range result.Documents {
			rf, ok := rec.Fields[id]
			if !ok {
				fmt.Fprintf(&b, "- %s: (missing)\n", rec.DocumentID)
				continue
			}
			var marks []string
			flags := fc.Flags[rec.DocumentID]
			if flags.IsBest {
				marks = append(marks, "best")
			}
			if flags.IsWorst {
				marks = append(marks, "worst")
			}
			if flags.IsOutlier {
				marks = append(marks, "outlier")
			}
			suffix := ""
			if len(marks) > 0 {
				suffix = " [" + strings.Join(marks, ", ") + "]"
			}
			fmt.Fprintf(&b, "- %s: %s (%.0f%%)%s\n",
				rec.DocumentID, rf.Value.Display(), rf.Confidence*100, suffix)
		}
		b.WriteString("\n")
	}

	// Issues.
	if len(result.Issues) > 0 {
		b.WriteString("## Issues\n")
		for _, issue := range result.Issues {
			fmt.Fprintf(&b, "- [%s] %s", issue.Code, issue.DocumentID)
			if issue.CanonicalID != "" {
				fmt.Fprintf(&b, " field=%s", issue.CanonicalID)
			}
			if issue.RawLabel != "" {
				fmt.Fprintf(&b, " label=%q", issue.RawLabel)
			}
			if issue.Detail != "" {
				fmt.Fprintf(&b, " (%s)", issue.Detail)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
