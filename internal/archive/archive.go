// Package archive keeps a file-backed historical record of completed
// explorations. It is write-once per report; chat sessions stay in memory
// and are never rehydrated from here.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/manavm12/parallel-u/internal/types"
)

// Report is the on-disk record of one finished exploration cycle.
type Report struct {
	ID        types.ReportID    `json:"id"`
	UserID    string            `json:"user_id"`
	CreatedAt time.Time         `json:"created_at"`
	Goal      string            `json:"goal"`
	Topics    []string          `json:"topics"`
	Brief     *types.Brief      `json:"brief"`
	Results   []types.RunResult `json:"results"`
}

// Store stores reports as individual JSON files under <root>/reports/.
type Store struct {
	root string
}

// NewStore creates a file-backed report store rooted at the given directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) reportsDir() string {
	return filepath.Join(s.root, "reports")
}

func (s *Store) reportPath(id types.ReportID) string {
	return filepath.Join(s.reportsDir(), string(id)+".json")
}

// Put archives a finished exploration and returns the stored report.
func (s *Store) Put(_ context.Context, userID, goal string, topics []string, brief *types.Brief, results []types.RunResult) (*Report, error) {
	report := &Report{
		ID:        types.NewReportID(),
		UserID:    userID,
		CreatedAt: time.Now(),
		Goal:      goal,
		Topics:    topics,
		Brief:     brief,
		Results:   results,
	}

	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	if err := os.MkdirAll(s.reportsDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}

	// Atomic write via temp file + rename
	target := s.reportPath(report.ID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return nil, fmt.Errorf("write temp report: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("rename temp report: %w", err)
	}

	return report, nil
}

// Get returns the report with the given ID.
func (s *Store) Get(_ context.Context, id types.ReportID) (*Report, error) {
	data, err := os.ReadFile(s.reportPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("report not found: %s", id)
		}
		return nil, fmt.Errorf("read report file: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

// List returns all reports, newest first. Unparseable files are skipped.
func (s *Store) List(_ context.Context) ([]*Report, error) {
	entries, err := os.ReadDir(s.reportsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []*Report{}, nil
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	reports := make([]*Report, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.reportsDir(), entry.Name()))
		if err != nil {
			continue
		}
		var report Report
		if err := json.Unmarshal(data, &report); err != nil {
			continue
		}
		reports = append(reports, &report)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}
