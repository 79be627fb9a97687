package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amyrzhang/productionSchedule/internal/engine"
	"github.com/amyrzhang/productionSchedule/internal/model"
)

type compareOptions struct {
	lengths []int
}

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <orders>",
		Short: "Compare plans across raw unit lengths",
		Long: "Build the plan for the configured settings and for shorter and longer raw\n" +
			"units, then print patterns, molds, by-product and utilization side by side.",
		Example: `  schedule compare orders.csv
  schedule compare orders.csv --unit-lengths 4800,6000,7200`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			orders, err := loadOrders(args[0], cliCtx.Logger)
			if err != nil {
				return err
			}

			base := cliCtx.Config.PlanSettings()
			scenarios := engine.BuildDefaultScenarios(base)
			if len(opts.lengths) > 0 {
				scenarios = lengthScenarios(base, opts.lengths)
			}

			results := engine.CompareScenarios(scenarios, orders,
				engine.WithLogger(cliCtx.Logger.Named("compare")))
			fmt.Fprint(cmd.OutOrStdout(), formatComparison(results))
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&opts.lengths, "unit-lengths", nil, "raw unit lengths to compare instead of the defaults")
	return cmd
}

func lengthScenarios(base model.PlanSettings, lengths []int) []engine.ComparisonScenario {
	scenarios := make([]engine.ComparisonScenario, 0, len(lengths))
	for _, l := range lengths {
		s := base
		s.UnitLength = l
		scenarios = append(scenarios, engine.ComparisonScenario{
			Name:     fmt.Sprintf("Unit length %dmm", l),
			Settings: s,
		})
	}
	return scenarios
}

func formatComparison(results []engine.ComparisonResult) string {
	headers := []string{"SCENARIO", "UNIT", "PATTERNS", "MOLDS", "BY-PRODUCT", "UTILIZATION", "ERROR"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		unit := strconv.Itoa(r.Scenario.Settings.UnitLength)
		if r.Err != nil {
			rows = append(rows, []string{r.Scenario.Name, unit, "-", "-", "-", "-", r.Err.Error()})
			continue
		}
		rows = append(rows, []string{
			r.Scenario.Name,
			unit,
			strconv.Itoa(r.Patterns),
			strconv.Itoa(r.Molds),
			strconv.Itoa(r.ByProductQuantity),
			fmt.Sprintf("%.1f%%", r.Utilization),
			"",
		})
	}
	return FormatTable(headers, rows)
}
