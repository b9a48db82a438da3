package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/manavm12/parallel-u/internal/schedule"
	"github.com/manavm12/parallel-u/internal/types"
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleAddCmd, scheduleListCmd, scheduleRemoveCmd, scheduleEnableCmd, scheduleDisableCmd)

	scheduleAddCmd.Flags().String("name", "", "exploration name (required)")
	scheduleAddCmd.Flags().String("user", "", "user identifier (required)")
	scheduleAddCmd.Flags().StringSlice("topic", nil, "topic to explore (repeatable, required)")
	scheduleAddCmd.Flags().String("depth", "medium", "exploration depth: shallow, medium or deep")
	scheduleAddCmd.Flags().Int("budget", 5, "time budget in minutes")
	scheduleAddCmd.Flags().String("cron", "", "cron schedule expression (required)")
	scheduleAddCmd.Flags().String("deliver-to", "", "delivery key, e.g. telegram:12345")
	_ = scheduleAddCmd.MarkFlagRequired("name")
	_ = scheduleAddCmd.MarkFlagRequired("user")
	_ = scheduleAddCmd.MarkFlagRequired("topic")
	_ = scheduleAddCmd.MarkFlagRequired("cron")
}

func scheduleStore() *schedule.Store {
	cfg := loadConfig()
	return schedule.NewStore(filepath.Join(cfg.DataDir, "explorations.json"))
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage recurring explorations",
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recurring exploration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		user, _ := cmd.Flags().GetString("user")
		topics, _ := cmd.Flags().GetStringSlice("topic")
		depth, _ := cmd.Flags().GetString("depth")
		budget, _ := cmd.Flags().GetInt("budget")
		cronExpr, _ := cmd.Flags().GetString("cron")
		deliverTo, _ := cmd.Flags().GetString("deliver-to")

		exp := &schedule.Exploration{
			Name:          name,
			UserID:        user,
			Topics:        topics,
			Depth:         types.Depth(depth),
			TimeBudgetMin: budget,
			Schedule:      cronExpr,
			DeliverTo:     deliverTo,
			Enabled:       true,
		}
		if err := scheduleStore().Add(exp); err != nil {
			return fmt.Errorf("add exploration: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Exploration %q added.\n", name)
		return nil
	},
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recurring explorations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		explorations, err := scheduleStore().List()
		if err != nil {
			return fmt.Errorf("list explorations: %w", err)
		}

		if len(explorations) == 0 {
			fmt.Println("No explorations configured.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSCHEDULE\tENABLED\tUSER\tTOPICS\tDELIVER TO")
		for _, exp := range explorations {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\t%s\n",
				exp.Name, exp.Schedule, exp.Enabled, exp.UserID,
				strings.Join(exp.Topics, ","), exp.DeliverTo)
		}
		return w.Flush()
	},
}

var scheduleRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a recurring exploration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := scheduleStore().Remove(args[0]); err != nil {
			return fmt.Errorf("remove exploration: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Exploration %q removed.\n", args[0])
		return nil
	},
}

var scheduleEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a recurring exploration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := scheduleStore().SetEnabled(args[0], true); err != nil {
			return fmt.Errorf("enable exploration: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Exploration %q enabled.\n", args[0])
		return nil
	},
}

var scheduleDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a recurring exploration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := scheduleStore().SetEnabled(args[0], false); err != nil {
			return fmt.Errorf("disable exploration: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Exploration %q disabled.\n", args[0])
		return nil
	},
}
