package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/quote-compare/internal/model"
	"github.com/sells-group/quote-compare/internal/report"
	"github.com/sells-group/quote-compare/internal/store"
	"github.com/sells-group/quote-compare/internal/vocab"
)

var compareCmd = &cobra.Command{
	Use:   "compare <batch.json>",
	Short: "Compare a batch of extracted quote documents",
	Long:  "Reads a JSON batch of extracted documents, resolves each onto the canonical vocabulary, and prints a side-by-side comparison report.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		docs, err := readBatch(args[0])
		if err != nil {
			return err
		}

		eng, err := buildEngine()
		if err != nil {
			return err
		}

		save, _ := cmd.Flags().GetBool("save")
		var (
			st    store.Store
			runID string
		)
		if save {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run, err := st.CreateRun(ctx, docs)
			if err != nil {
				return eris.Wrap(err, "create run")
			}
			runID = run.ID
		}

		result, err := eng.Compare(ctx, docs)
		if err != nil {
			if st != nil {
				_ = st.FailRun(ctx, runID, err)
			}
			return eris.Wrap(err, "compare")
		}

		if st != nil {
			if err := st.CompleteRun(ctx, runID, result); err != nil {
				return eris.Wrap(err, "complete run")
			}
			zap.L().Info("run saved", zap.String("run_id", runID))
		}

		if out, _ := cmd.Flags().GetString("xlsx"); out != "" {
			if err := report.ExportXLSX(vocab.Active(), result, out); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", out))
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Print(report.FormatReport(vocab.Active(), result))
		return nil
	},
}

func init() {
	compareCmd.Flags().Bool("save", false, "persist the run to the configured store")
	compareCmd.Flags().Bool("json", false, "print the raw result as JSON instead of a report")
	compareCmd.Flags().String("xlsx", "", "also write an XLSX workbook to this path")
	rootCmd.AddCommand(compareCmd)
}

// readBatch loads a document batch from a JSON file. Both a bare array
// and a {"documents": [...]} wrapper are accepted.
func readBatch(path string) ([]model.DocumentInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read batch %s", path)
	}

	var wrapper struct {
		Documents []model.DocumentInput `json:"documents"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.Documents) > 0 {
		return wrapper.Documents, nil
	}

	var docs []model.DocumentInput
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, eris.Wrapf(err, "parse batch %s", path)
	}
	return docs, nil
}
