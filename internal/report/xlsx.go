package report

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/quote-compare/internal/model"
)

// ExportXLSX writes the comparison as a broker-facing workbook with a
// comparison matrix, an issues sheet, and a recommendations sheet.
func ExportXLSX(v *model.Vocabulary, result *model.ComparisonResult, outputPath string) error {
	f := xlsx.NewFile()

	if err := writeComparisonSheet(f, v, result); err != nil {
		return err
	}
	if err := writeIssuesSheet(f, result); err != nil {
		return err
	}
	if err := writeRecommendationsSheet(f, result); err != nil {
		return err
	}

	if err := f.Save(outputPath); err != nil {
		return eris.Wrap(err, "report: save workbook")
	}
	return nil
}

func writeComparisonSheet(f *xlsx.File, v *model.Vocabulary, result *model.ComparisonResult) error {
	sheet, err := f.AddSheet("Quote Comparison")
	if err != nil {
		return eris.Wrap(err, "report: add comparison sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Document")
	header.AddCell().SetString("Insurer")
	for _, id := range result.Columns {
		name := id
		if def := v.ByID(id); def != nil {
			name = def.DisplayName
		}
		header.AddCell().SetString(name)
	}
	header.AddCell().SetString("Overall Rank")
	header.AddCell().SetString("Score")

	rankByDoc := make(map[string]model.DocumentScore, len(result.Ranking))
	for _, ds := range result.Ranking {
		rankByDoc[ds.DocumentID] = ds
	}

	for _, rec := range result.Documents {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.DocumentID)
		row.AddCell().SetString(rec.InsurerName)

		for _, id := range result.Columns {
			cell := row.AddCell()
			rf, ok := rec.Fields[id]
			if !ok {
				cell.SetString("Not found")
				continue
			}
			cell.SetString(annotate(rf.Value.Display(), result.FieldComparisons[id].Flags[rec.DocumentID]))
		}

		ds := rankByDoc[rec.DocumentID]
		row.AddCell().SetInt(ds.Rank)
		row.AddCell().SetFloatWithFormat(ds.Score, "0.000")
	}

	return nil
}

func annotate(display string, flags model.CellFlags) string {
	switch {
	case flags.IsBest && flags.IsOutlier:
		return display + " (best, outlier)"
	case flags.IsBest:
		return display + " (best)"
	case flags.IsWorst && flags.IsOutlier:
		return display + " (worst, outlier)"
	case flags.IsWorst:
		return display + " (worst)"
	case flags.IsOutlier:
		return display + " (outlier)"
	default:
		return display
	}
}

func writeIssuesSheet(f *xlsx.File, result *model.ComparisonResult) error {
	sheet, err := f.AddSheet("Issues")
	if err != nil {
		return eris.Wrap(err, "report: add issues sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Document", "Code", "Field", "Raw Label", "Raw Value", "Detail"} {
		header.AddCell().SetString(h)
	}

	for _, issue := range result.Issues {
		row := sheet.AddRow()
		row.AddCell().SetString(issue.DocumentID)
		row.AddCell().SetString(string(issue.Code))
		row.AddCell().SetString(issue.CanonicalID)
		row.AddCell().SetString(issue.RawLabel)
		row.AddCell().SetString(issue.RawValue)
		row.AddCell().SetString(issue.Detail)
	}

	return nil
}

// writeRecommendationsSheet summarizes the lowest-premium and
// highest-coverage options using the per-document group totals.
func writeRecommendationsSheet(f *xlsx.File, result *model.ComparisonResult) error {
	sheet, err := f.AddSheet("Recommendations")
	if err != nil {
		return eris.Wrap(err, "report: add recommendations sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Recommendation")
	header.AddCell().SetString("Details")

	addRow := func(name, detail string) {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetString(detail)
	}

	if doc, total, ok := extremeByGroup(result.Documents, "premium", false); ok {
		addRow("Lowest Premium Option",
			fmt.Sprintf("%s — %s total annual premium", docName(doc), minorDisplay(doc, total)))
	}
	if doc, total, ok := extremeByGroup(result.Documents, "coverage", true); ok {
		addRow("Highest Coverage Option",
			fmt.Sprintf("%s — %s total coverage", docName(doc), minorDisplay(doc, total)))
	}
	if len(result.Ranking) > 0 {
		top := result.Ranking[0]
		name := top.InsurerName
		if name == "" {
			name = top.DocumentID
		}
		addRow("Best Overall (weighted)",
			fmt.Sprintf("%s — score %.3f across compared fields", name, top.Score))
	}
	addRow("Key Considerations",
		"Compare coverage types, premium sources, waiting periods, and exclusions")
	addRow("Next Steps",
		"Review policy terms, flagged outliers, and the issues sheet before advising the client")

	return nil
}

// extremeByGroup returns the document with the lowest (or highest) total
// for the given registry group. Ties break on document id.
func extremeByGroup(docs []model.DocumentRecord, group string, highest bool) (model.DocumentRecord, int64, bool) {
	var (
		found bool
		best  model.DocumentRecord
		total int64
	)
	for _, rec := range docs {
		t, ok := rec.GroupTotals[group]
		if !ok {
			continue
		}
		better := !found ||
			(highest && t > total) || (!highest && t < total) ||
			(t == total && rec.DocumentID < best.DocumentID)
		if better {
			best, total, found = rec, t, true
		}
	}
	return best, total, found
}

func docName(rec model.DocumentRecord) string {
	if rec.InsurerName != "" {
		return rec.InsurerName
	}
	return rec.DocumentID
}

// minorDisplay renders a group total using the currency of any of the
// document's currency fields, assuming a single currency per document.
func minorDisplay(rec model.DocumentRecord, minor int64) string {
	code := ""
	for _, rf := range rec.Fields {
		if rf.Value.Kind == model.KindCurrency {
			code = rf.Value.Currency
			break
		}
	}
	cv := model.CanonicalValue{Kind: model.KindCurrency, AmountMinor: minor, Currency: code}
	return cv.Display()
}
