package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/config"
	"github.com/sells-group/kitchen-estimator/internal/cost"
	"github.com/sells-group/kitchen-estimator/internal/display"
)

var (
	cfg *config.Config
	cat *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "kitchen-estimator",
	Short: "Kitchen renovation cost estimator",
	Long:  "Walks through a short questionnaire about a kitchen renovation and produces an itemised cost estimate.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		loaded, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		cat = loaded
		zap.L().Debug("catalog loaded",
			zap.String("path", cfg.Catalog.Path),
			zap.Int("questions", len(cat.Questions)),
		)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func newCalculator() *cost.Calculator {
	return cost.NewCalculator(cat, cfg.Pricing)
}

func newRenderer(w io.Writer, calc *cost.Calculator) *display.Renderer {
	f, _ := w.(*os.File)
	return display.NewRenderer(w, calc, display.ColorEnabled(f, cfg.Display.Color))
}

func autoAdvanceDelay() time.Duration {
	return time.Duration(cfg.Wizard.AutoAdvanceMS) * time.Millisecond
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
