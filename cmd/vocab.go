package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/quote-compare/internal/model"
	"github.com/sells-group/quote-compare/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Inspect the canonical field vocabulary",
	Long:  "Commands for listing the active field registry and validating registry files.",
}

// -- vocab list --

var vocabListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active canonical fields",
	RunE: func(_ *cobra.Command, _ []string) error {
		formatVocab(os.Stdout, vocab.Active())
		return nil
	},
}

// -- vocab validate --

var vocabValidateCmd = &cobra.Command{
	Use:   "validate <registry.yaml>",
	Short: "Validate a field registry file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		v, err := vocab.LoadFromFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: valid (%d fields, %d required)\n",
			args[0], len(v.Fields), len(v.Required()))
		return nil
	},
}

func init() {
	vocabCmd.AddCommand(vocabListCmd)
	vocabCmd.AddCommand(vocabValidateCmd)
	rootCmd.AddCommand(vocabCmd)
}

// formatVocab writes a tabular view of the registry to w.
func formatVocab(out io.Writer, v *model.Vocabulary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tDIRECTION\tREQUIRED\tWEIGHT\tSYNONYMS")
	_, _ = fmt.Fprintln(w, "--\t----\t---------\t--------\t------\t--------")

	for _, def := range v.Fields {
		required := ""
		if def.Required {
			required = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%s\n",
			def.CanonicalID,
			def.Kind,
			def.Direction,
			required,
			def.Weight,
			strings.Join(def.Synonyms, ", "),
		)
	}
	_ = w.Flush()
}
