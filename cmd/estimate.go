package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/kitchen-estimator/internal/answers"
	"github.com/sells-group/kitchen-estimator/internal/flow"
	"github.com/sells-group/kitchen-estimator/internal/model"
	"github.com/sells-group/kitchen-estimator/internal/report"
	"github.com/sells-group/kitchen-estimator/internal/validation"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Compute an estimate from an answers file",
	Long: `Computes a cost estimate without the interactive wizard.

The answers file is a YAML mapping of question id to value:

  dimensions: {length: 4, width: 3}
  qualityLevel: luxe
  countertop: composiet
  extras: [kookeiland, bar]

Unanswered or invalid required questions are reported as warnings; the
estimate uses the same defaults the wizard would.`,
	RunE: runEstimate,
}

func init() {
	f := estimateCmd.Flags()
	f.String("answers", "", "path to the answers YAML file (required)")
	f.String("format", "table", "output format: table or yaml")
	_ = estimateCmd.MarkFlagRequired("answers")
	rootCmd.AddCommand(estimateCmd)
}

// estimateResult is the yaml output of the estimate command.
type estimateResult struct {
	Estimate model.EstimatedCost   `yaml:"estimate"`
	Choices  []report.ChosenOption `yaml:"choices"`
	Warnings []string              `yaml:"warnings,omitempty"`
}

func runEstimate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("answers")
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "yaml" {
		return eris.Errorf("unknown format %q (want table or yaml)", format)
	}

	decoded, err := answers.ReadFile(cat, path)
	if err != nil {
		return eris.Wrap(err, "read answers")
	}
	store := answers.NewStore(cat)
	if err := store.Apply(decoded); err != nil {
		return eris.Wrap(err, "apply answers")
	}
	current := store.Answers()

	calc := newCalculator()
	active := flow.Resolve(cat, current)
	result := estimateResult{
		Estimate: calc.Estimate(current),
		Choices:  report.Summarize(cat, active, current),
	}
	for _, q := range active {
		if err := validation.ValidateStep(cat, q, current); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		}
	}

	zap.L().Info("estimate computed",
		zap.String("answers", path),
		zap.Float64("total", result.Estimate.Total),
		zap.Int("warnings", len(result.Warnings)),
	)

	out := cmd.OutOrStdout()
	if format == "yaml" {
		data, err := yaml.Marshal(result)
		if err != nil {
			return eris.Wrap(err, "marshal estimate")
		}
		_, err = out.Write(data)
		return err
	}

	r := newRenderer(out, calc)
	for _, w := range result.Warnings {
		r.Warn("Let op: %s", w)
	}
	r.Estimate(result.Estimate)
	return nil
}
