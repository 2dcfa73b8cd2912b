package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the question catalog",
	Long:  "Prints every question with its options and pricing rules. Use --format yaml to dump the catalog document.",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "yaml":
			out, err := yaml.Marshal(cat)
			if err != nil {
				return eris.Wrap(err, "marshal catalog")
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		case "table":
			newRenderer(cmd.OutOrStdout(), newCalculator()).Catalog(cat)
			return nil
		}
		return eris.Errorf("unknown format %q (want table or yaml)", format)
	},
}

func init() {
	catalogCmd.Flags().String("format", "table", "output format: table or yaml")
	rootCmd.AddCommand(catalogCmd)
}
