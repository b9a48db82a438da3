package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/manavm12/parallel-u/internal/archive"
	"github.com/manavm12/parallel-u/internal/types"
)

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd)
}

func reportStore() *archive.Store {
	cfg := loadConfig()
	return archive.NewStore(cfg.DataDir)
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse archived exploration reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := reportStore().List(context.Background())
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}

		if len(reports) == 0 {
			fmt.Println("No reports archived.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tUSER\tTOPICS\tGOAL")
		for _, report := range reports {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				report.ID,
				report.CreatedAt.Format("2006-01-02 15:04"),
				report.UserID,
				strings.Join(report.Topics, ","),
				report.Goal)
		}
		return w.Flush()
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one archived report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := reportStore().Get(context.Background(), types.ReportID(args[0]))
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}
