package schedule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/manavm12/parallel-u/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "explorations.json"))
}

func TestAddGetList(t *testing.T) {
	store := newTestStore(t)

	exp := &Exploration{
		Name:          "morning-scan",
		UserID:        "u1",
		Topics:        []string{"AI agents", "Go"},
		Depth:         types.DepthMedium,
		TimeBudgetMin: 10,
		Schedule:      "0 8 * * *",
		DeliverTo:     "telegram:12345",
		Enabled:       true,
	}
	if err := store.Add(exp); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get("morning-scan")
	if err != nil {
		t.Fatal(err)
	}
	if got.UserID != "u1" || got.Schedule != "0 8 * * *" || got.DeliverTo != "telegram:12345" {
		t.Errorf("got %+v", got)
	}

	all, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("list = %d entries", len(all))
	}
}

func TestAddDuplicateName(t *testing.T) {
	store := newTestStore(t)

	if err := store.Add(&Exploration{Name: "dup", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(&Exploration{Name: "dup", UserID: "u2"}); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get("nope"); err == nil {
		t.Fatal("expected error for missing exploration")
	}
}

func TestListEmpty(t *testing.T) {
	store := newTestStore(t)

	all, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if all == nil || len(all) != 0 {
		t.Errorf("list = %v, want empty slice", all)
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	if err := store.Add(&Exploration{Name: "a", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(&Exploration{Name: "b", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}

	if err := store.Remove("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get("a"); err == nil {
		t.Error("removed exploration still present")
	}
	if _, err := store.Get("b"); err != nil {
		t.Error("unrelated exploration removed")
	}

	if err := store.Remove("a"); err == nil {
		t.Error("expected error removing missing exploration")
	}
}

func TestSetEnabled(t *testing.T) {
	store := newTestStore(t)

	if err := store.Add(&Exploration{Name: "a", UserID: "u1", Enabled: true}); err != nil {
		t.Fatal(err)
	}

	if err := store.SetEnabled("a", false); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get("a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Enabled {
		t.Error("exploration still enabled")
	}

	if err := store.SetEnabled("nope", true); err == nil {
		t.Error("expected error for missing exploration")
	}
}

func TestPersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explorations.json")

	first := NewStore(path)
	if err := first.Add(&Exploration{Name: "a", UserID: "u1", Topics: []string{"Go"}}); err != nil {
		t.Fatal(err)
	}

	second := NewStore(path)
	got, err := second.Get("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Topics) != 1 || got.Topics[0] != "Go" {
		t.Errorf("got %+v", got)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explorations.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path)
	if _, err := store.List(); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}
