package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/kitchen-estimator/internal/answers"
	"github.com/sells-group/kitchen-estimator/internal/cost"
	"github.com/sells-group/kitchen-estimator/internal/model"
)

var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "Preview the cost impact of each option of a question",
	Long:  "Shows how the total would change when each option of a choice question is selected, given the answers so far.",
	RunE:  runImpact,
}

func init() {
	f := impactCmd.Flags()
	f.String("question", "", "question id (required)")
	f.String("answers", "", "path to an answers YAML file")
	_ = impactCmd.MarkFlagRequired("question")
	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("question")
	path, _ := cmd.Flags().GetString("answers")

	q, ok := cat.Base(id)
	if !ok || !q.IsChoice() {
		return eris.Errorf("question %q is not a choice question", id)
	}

	current := model.Answers{}
	if path != "" {
		decoded, err := answers.ReadFile(cat, path)
		if err != nil {
			return eris.Wrap(err, "read answers")
		}
		store := answers.NewStore(cat)
		if err := store.Apply(decoded); err != nil {
			return eris.Wrap(err, "apply answers")
		}
		current = store.Answers()
	}

	calc := newCalculator()
	newRenderer(cmd.OutOrStdout(), calc).Impacts(q, func(id, value string) cost.Impact {
		return calc.OptionImpact(id, value, current)
	})
	return nil
}
