package delivery

import (
	"testing"

	"github.com/manavm12/parallel-u/internal/archive"
)

func TestRegistryDeliver(t *testing.T) {
	reg := NewRegistry()

	var gotKey string
	var gotReport *archive.Report
	reg.Register("test:", func(key string, report *archive.Report) error {
		gotKey = key
		gotReport = report
		return nil
	})

	report := &archive.Report{ID: "r1", Goal: "find news"}
	if err := reg.Deliver("test:123", report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "test:123" {
		t.Errorf("expected key %q, got %q", "test:123", gotKey)
	}
	if gotReport == nil || gotReport.ID != "r1" {
		t.Errorf("report = %+v", gotReport)
	}
}

func TestRegistryNoHandler(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Deliver("unknown:123", &archive.Report{}); err == nil {
		t.Fatal("expected error for unregistered prefix, got nil")
	}
}

func TestRegistryMultiplePrefixes(t *testing.T) {
	reg := NewRegistry()

	var telegramCalls, emailCalls int
	reg.Register("telegram:", func(key string, report *archive.Report) error {
		telegramCalls++
		return nil
	})
	reg.Register("email:", func(key string, report *archive.Report) error {
		emailCalls++
		return nil
	})

	if err := reg.Deliver("telegram:42", &archive.Report{}); err != nil {
		t.Fatalf("telegram deliver error: %v", err)
	}
	if err := reg.Deliver("email:me@example.com", &archive.Report{}); err != nil {
		t.Fatalf("email deliver error: %v", err)
	}

	if telegramCalls != 1 {
		t.Errorf("expected 1 telegram call, got %d", telegramCalls)
	}
	if emailCalls != 1 {
		t.Errorf("expected 1 email call, got %d", emailCalls)
	}
}
