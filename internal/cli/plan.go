package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amyrzhang/productionSchedule/internal/config"
	"github.com/amyrzhang/productionSchedule/internal/engine"
	"github.com/amyrzhang/productionSchedule/internal/export"
	"github.com/amyrzhang/productionSchedule/internal/importer"
	"github.com/amyrzhang/productionSchedule/internal/logging"
	"github.com/amyrzhang/productionSchedule/internal/model"
	"github.com/amyrzhang/productionSchedule/internal/project"
)

type planOptions struct {
	output   string
	format   string
	encoding string
	tickets  bool
	archive  bool
	parallel bool
	length   int
}

// NewPlanCmd creates the plan command.
func NewPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan <orders>",
		Short: "Build a production plan from an order book",
		Long: "Read an order book (csv or xlsx), build the cutting plan and write it in the\n" +
			"configured format. Use -o - to write csv or json to stdout.",
		Example: `  schedule plan orders.csv
  schedule plan orders.xlsx --format pdf --tickets
  schedule plan orders.csv -o - --encoding gbk`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runPlan(cmd, cliCtx, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "output path (default: <orders>_plan.<format>)")
	flags.StringVar(&opts.format, "format", "", "output format (csv, xlsx, json, pdf); overrides the config")
	flags.StringVar(&opts.encoding, "encoding", "", "csv encoding (utf-8, gbk); overrides the config")
	flags.BoolVar(&opts.tickets, "tickets", false, "also write mold tickets as <output>_tickets.pdf")
	flags.BoolVar(&opts.archive, "archive", false, "save the plan to the archive")
	flags.BoolVar(&opts.parallel, "parallel", false, "pack width groups concurrently")
	flags.IntVar(&opts.length, "unit-length", 0, "raw unit length in mm; overrides the config")

	return cmd
}

func runPlan(cmd *cobra.Command, cliCtx *CLIContext, opts *planOptions, ordersPath string) error {
	cfg := *cliCtx.Config
	if opts.format != "" {
		cfg.Output.Format = strings.ToLower(opts.format)
	}
	if opts.encoding != "" {
		cfg.Output.Encoding = opts.encoding
	}
	if opts.tickets {
		cfg.Output.Tickets = true
	}
	if opts.archive {
		cfg.Archive.Enabled = true
	}
	if opts.parallel {
		cfg.Plan.Parallel = true
	}
	if opts.length > 0 {
		cfg.Plan.UnitLength = opts.length
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	orders, err := loadOrders(ordersPath, cliCtx.Logger)
	if err != nil {
		return err
	}

	planner := engine.New(cfg.PlanSettings(), engine.WithLogger(cliCtx.Logger.Named("engine")))
	plan, err := planner.BuildPlan(orders)
	if err != nil {
		return fmt.Errorf("building plan: %w", err)
	}

	out := opts.output
	if out == "" {
		out = defaultOutputPath(ordersPath, cfg.Output.Format)
	}
	if err := writePlan(cmd.OutOrStdout(), out, &cfg, plan); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	cliCtx.Logger.Info("plan written",
		logging.String("path", out),
		logging.String("format", cfg.Output.Format),
	)

	if cfg.Output.Tickets {
		ticketPath := ticketOutputPath(ordersPath, out)
		if err := export.ExportTickets(ticketPath, plan); err != nil {
			return fmt.Errorf("writing tickets: %w", err)
		}
		cliCtx.Logger.Info("tickets written", logging.String("path", ticketPath))
	}

	if cfg.Archive.Enabled {
		source, _ := filepath.Abs(ordersPath)
		entry, err := project.SavePlan(cfg.Archive.Dir, plan, source)
		if err != nil {
			return fmt.Errorf("archiving plan: %w", err)
		}
		cliCtx.Logger.Info("plan archived",
			logging.String("plan_id", entry.ID),
			logging.String("dir", cfg.Archive.Dir),
		)
	}

	if out != "-" {
		fmt.Fprint(cmd.OutOrStdout(), formatPlanSummary(plan))
	}
	return nil
}

// loadOrders picks the reader by file extension and logs import warnings.
func loadOrders(path string, log logging.Logger) ([]model.OrderLine, error) {
	var (
		result importer.ImportResult
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		result, err = importer.ImportExcel(path)
	default:
		result, err = importer.ImportCSV(path)
	}
	for _, w := range result.Warnings {
		log.Warn("import warning", logging.String("path", path), logging.String("warning", w))
	}
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	log.Debug("orders imported", logging.String("path", path), logging.Int("orders", len(result.Orders)))
	return result.Orders, nil
}

func writePlan(stdout io.Writer, out string, cfg *config.Config, plan model.Plan) error {
	if out == "-" {
		switch cfg.Output.Format {
		case config.FormatCSV:
			return export.WriteCSV(stdout, plan, cfg.Output.Encoding)
		case config.FormatJSON:
			return export.WriteJSON(stdout, plan)
		default:
			return model.NewConfigError("format %s cannot be written to stdout", cfg.Output.Format)
		}
	}

	switch cfg.Output.Format {
	case config.FormatCSV:
		return export.ExportCSV(out, plan, cfg.Output.Encoding)
	case config.FormatXLSX:
		return export.ExportExcel(out, plan)
	case config.FormatJSON:
		return export.ExportJSON(out, plan)
	case config.FormatPDF:
		return export.ExportPDF(out, plan)
	default:
		return model.NewConfigError("unknown output format %q", cfg.Output.Format)
	}
}

func defaultOutputPath(ordersPath, format string) string {
	base := strings.TrimSuffix(ordersPath, filepath.Ext(ordersPath))
	return base + "_plan." + format
}

func ticketOutputPath(ordersPath, out string) string {
	if out == "-" {
		return strings.TrimSuffix(ordersPath, filepath.Ext(ordersPath)) + "_tickets.pdf"
	}
	return strings.TrimSuffix(out, filepath.Ext(out)) + "_tickets.pdf"
}

func formatPlanSummary(plan model.Plan) string {
	s := plan.Summary()
	rows := make([][]string, 0, len(plan.Patterns))
	for _, p := range plan.Patterns {
		rows = append(rows, []string{
			strconv.Itoa(p.Index),
			strconv.Itoa(p.Width),
			describeCuts(p),
			strconv.Itoa(p.MoldCount),
			strconv.Itoa(p.Waste(plan.Settings.UnitLength)),
		})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Plan %s: %d patterns, %d molds, %d pieces, %d by-product, %.1f%% utilization\n\n",
		plan.ID, s.PatternCount, s.TotalMolds, s.TotalQuantity, s.ByProductQuantity, s.Utilization)
	sb.WriteString(FormatTable([]string{"PATTERN", "WIDTH", "CUTS", "MOLDS", "WASTE"}, rows))
	return sb.String()
}

func describeCuts(p model.Pattern) string {
	parts := make([]string, len(p.Cuts))
	for i, c := range p.Cuts {
		parts[i] = fmt.Sprintf("%dx%d", c.Length, c.Rows)
	}
	return strings.Join(parts, " + ")
}
