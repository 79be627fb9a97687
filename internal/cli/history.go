package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amyrzhang/productionSchedule/internal/project"
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			archive, err := project.LoadArchive(cliCtx.Config.Archive.Dir)
			if err != nil {
				return fmt.Errorf("reading archive: %w", err)
			}
			if len(archive.Entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived plans.")
				return nil
			}

			rows := make([][]string, 0, len(archive.Entries))
			for _, e := range archive.Entries {
				rows = append(rows, []string{
					e.ID,
					e.CreatedAt,
					strconv.Itoa(e.Summary.PatternCount),
					strconv.Itoa(e.Summary.TotalMolds),
					fmt.Sprintf("%.1f%%", e.Summary.Utilization),
					e.Source,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(
				[]string{"ID", "CREATED", "PATTERNS", "MOLDS", "UTILIZATION", "SOURCE"}, rows))
			return nil
		},
	}

	cmd.AddCommand(newHistoryShowCmd(), newHistoryRemoveCmd())
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the pattern table of an archived plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			plan, err := project.LoadPlan(cliCtx.Config.Archive.Dir, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatPlanSummary(plan))
			return nil
		},
	}
}

func newHistoryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete an archived plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			removed, err := project.RemovePlan(cliCtx.Config.Archive.Dir, args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("plan %q is not archived", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
