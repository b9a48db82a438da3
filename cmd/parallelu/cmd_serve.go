package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/manavm12/parallel-u/internal/api"
	"github.com/manavm12/parallel-u/internal/archive"
	"github.com/manavm12/parallel-u/internal/automation"
	"github.com/manavm12/parallel-u/internal/clone"
	"github.com/manavm12/parallel-u/internal/config"
	"github.com/manavm12/parallel-u/internal/delivery"
	"github.com/manavm12/parallel-u/internal/explore"
	"github.com/manavm12/parallel-u/internal/schedule"
	"github.com/manavm12/parallel-u/internal/session"
	"github.com/manavm12/parallel-u/internal/telegram"
	"github.com/manavm12/parallel-u/internal/types"
	"github.com/manavm12/parallel-u/pkg/llm"
	"github.com/manavm12/parallel-u/pkg/llm/openai"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Parallel U daemon",
	RunE:  runServe,
}

func writePIDFile(dataDir string) (string, error) {
	pidPath := filepath.Join(dataDir, "parallelu.pid")
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return pidPath, nil
}

// buildService wires the clone engine, the browser and the stores into an
// exploration service. The returned session store must be closed by the
// caller.
func buildService(cfg *config.Config) (*explore.Service, *session.Store, *archive.Store, error) {
	if cfg.LLM.APIKey == "" {
		return nil, nil, nil, fmt.Errorf("llm.api_key is required (or set OPENAI_API_KEY)")
	}

	provider := openai.New(&llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	budget, err := clone.NewBudget(cfg.LLM.Model, cfg.LLM.MaxContextTokens, cfg.LLM.OutputReserve)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create token budget: %w", err)
	}
	engine := clone.New(provider, budget)

	var browser types.Browser
	if cfg.Mino.APIKey != "" {
		browser = automation.New(automation.Config{
			APIKey:         cfg.Mino.APIKey,
			BaseURL:        cfg.Mino.BaseURL,
			BrowserProfile: cfg.Mino.BrowserProfile,
			ProxyCountry:   cfg.Mino.ProxyCountry,
			Timeout:        time.Duration(cfg.Mino.TimeoutSeconds) * time.Second,
		})
	} else {
		slog.Warn("browser automation disabled (no mino api key), falling back to plain fetching")
		browser = automation.NewFetcher()
	}
	orchestrator := automation.NewOrchestrator(browser, int64(cfg.MaxConcurrentRuns))

	sessions := session.NewStore(time.Duration(cfg.SessionTTLMinutes) * time.Minute)
	reports := archive.NewStore(cfg.DataDir)

	svc := explore.New(engine, orchestrator, sessions, reports, slog.Default())
	return svc, sessions, reports, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	pidPath, err := writePIDFile(cfg.DataDir)
	if err != nil {
		return err
	}
	defer os.Remove(pidPath)

	svc, sessions, _, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer sessions.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Delivery registry
	deliveryReg := delivery.NewRegistry()
	if cfg.Telegram.Token != "" {
		notifier, err := telegram.New(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("create telegram notifier: %w", err)
		}
		deliveryReg.Register(telegram.KeyPrefix, notifier.Deliver)
		slog.Info("telegram delivery enabled")
	} else {
		slog.Warn("telegram delivery disabled (no token)")
	}

	// Scheduler for recurring explorations
	scheduleStore := schedule.NewStore(filepath.Join(cfg.DataDir, "explorations.json"))
	sched := schedule.New(scheduleStore, func(exp *schedule.Exploration) {
		runCtx, runCancel := context.WithTimeout(ctx, 30*time.Minute)
		defer runCancel()

		out, err := svc.Explore(runCtx, explore.Request{
			UserID:        exp.UserID,
			Topics:        exp.Topics,
			Depth:         exp.Depth,
			TimeBudgetMin: exp.TimeBudgetMin,
		})
		if err != nil {
			slog.Error("scheduled exploration failed", "name", exp.Name, "error", err)
			return
		}
		if exp.DeliverTo == "" {
			return
		}
		report := &archive.Report{
			UserID:    exp.UserID,
			CreatedAt: time.Now(),
			Goal:      out.Goal,
			Topics:    exp.Topics,
			Brief:     out.Brief,
			Results:   out.Results,
		}
		if err := deliveryReg.Deliver(exp.DeliverTo, report); err != nil {
			slog.Error("brief delivery failed", "name", exp.Name, "deliver_to", exp.DeliverTo, "error", err)
		}
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()
	slog.Info("scheduler started")

	// HTTP API
	server := api.NewServer(svc, sessions)
	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: server,
	}
	go func() {
		slog.Info("api server started", "listen", cfg.Listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	slog.Info("parallelu started",
		"data_dir", cfg.DataDir,
		"log_level", cfg.LogLevel,
		"listen", cfg.Listen,
		"session_ttl_minutes", cfg.SessionTTLMinutes,
		"max_concurrent_runs", cfg.MaxConcurrentRuns,
		"llm_model", cfg.LLM.Model,
		"pid_file", pidPath,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		sig := <-sigChan
		if sig == syscall.SIGHUP {
			slog.Info("received SIGHUP, restarting")
			execPath, err := os.Executable()
			if err != nil {
				slog.Error("failed to get executable path", "error", err)
				continue
			}
			os.Remove(pidPath)
			if err := syscall.Exec(execPath, os.Args, os.Environ()); err != nil {
				slog.Error("failed to re-exec", "error", err)
				if _, writeErr := writePIDFile(cfg.DataDir); writeErr != nil {
					slog.Error("failed to re-write PID file", "error", writeErr)
				}
				continue
			}
		}
		slog.Info("shutting down", "signal", sig)
		return nil
	}
}
