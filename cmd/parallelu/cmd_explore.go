package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/manavm12/parallel-u/internal/explore"
	"github.com/manavm12/parallel-u/internal/types"
)

func init() {
	rootCmd.AddCommand(exploreCmd)

	exploreCmd.Flags().String("user", "cli", "user identifier")
	exploreCmd.Flags().StringSlice("topic", nil, "topic to explore (repeatable, required)")
	exploreCmd.Flags().String("depth", "medium", "exploration depth: shallow, medium or deep")
	exploreCmd.Flags().Int("budget", 5, "time budget in minutes")
	exploreCmd.Flags().Bool("plan-only", false, "print the browsing plan without executing it")
	_ = exploreCmd.MarkFlagRequired("topic")
}

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Run one exploration cycle and print the brief",
	Args:  cobra.NoArgs,
	RunE:  runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	user, _ := cmd.Flags().GetString("user")
	topics, _ := cmd.Flags().GetStringSlice("topic")
	depth, _ := cmd.Flags().GetString("depth")
	budget, _ := cmd.Flags().GetInt("budget")
	planOnly, _ := cmd.Flags().GetBool("plan-only")

	svc, sessions, _, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer sessions.Close()

	req := explore.Request{
		UserID:        user,
		Topics:        topics,
		Depth:         types.Depth(depth),
		TimeBudgetMin: budget,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if planOnly {
		plan, err := svc.Plan(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Goal: %s\n", plan.Goal)
		for i, task := range plan.Tasks {
			fmt.Fprintf(os.Stdout, "\nTask %d: %s\n  %s\n", i+1, task.Website, task.Instructions)
		}
		return nil
	}

	out, err := svc.Explore(ctx, req)
	if err != nil {
		return err
	}

	printBrief(out)
	return nil
}

func printBrief(out *explore.Outcome) {
	fmt.Fprintf(os.Stdout, "Goal: %s\n", out.Goal)

	if out.Brief == nil || len(out.Brief.TopThings) == 0 {
		fmt.Fprintln(os.Stdout, "\nNo solid findings this time.")
	} else {
		for i, f := range out.Brief.TopThings {
			fmt.Fprintf(os.Stdout, "\n%d. %s\n   %s\n", i+1, f.Title, f.Summary)
			if f.WhyItMatters != "" {
				fmt.Fprintf(os.Stdout, "   Why it matters: %s\n", f.WhyItMatters)
			}
			if f.SourceLink != "" {
				fmt.Fprintf(os.Stdout, "   %s\n", f.SourceLink)
			}
		}
	}

	if out.Brief != nil {
		if out.Brief.OneDeeperInsight != "" {
			fmt.Fprintf(os.Stdout, "\nDeeper insight: %s\n", out.Brief.OneDeeperInsight)
		}
		if out.Brief.OneOpportunity != "" {
			fmt.Fprintf(os.Stdout, "Opportunity: %s\n", out.Brief.OneOpportunity)
		}
	}

	fmt.Fprintf(os.Stdout, "\nSession: %s\n", out.SessionID)
}
