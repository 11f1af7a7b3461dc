package action

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nerrad567/luxctl/internal/infrastructure/database"
	_ "github.com/nerrad567/luxctl/migrations"
)

// setupTestRepo opens a migrated store in a temporary directory.
func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "actions.sqlite"),
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	repo := NewSQLiteRepository(db.DB)
	if err := repo.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	return repo
}

// mustAdd stores actions or fails the test.
func mustAdd(t *testing.T, repo *SQLiteRepository, actions ...Action) {
	t.Helper()
	for _, a := range actions {
		if err := repo.Add(context.Background(), a); err != nil {
			t.Fatalf("Add(%+v) error = %v", a, err)
		}
	}
}

// collect drains the All sequence.
func collect(t *testing.T, repo *SQLiteRepository) []Entry {
	t.Helper()
	var entries []Entry
	for e, err := range repo.All(context.Background()) {
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestBootstrap_DefaultScope(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	scopes, err := repo.Scopes(ctx)
	if err != nil {
		t.Fatalf("Scopes() error = %v", err)
	}
	if len(scopes) != 1 {
		t.Fatalf("Scopes() = %v, want only Default", scopes)
	}
	if scopes[0].ID != DefaultScopeID || scopes[0].Name != DefaultScopeName {
		t.Errorf("scope = %+v, want {0 Default}", scopes[0])
	}

	if entries := collect(t, repo); len(entries) != 0 {
		t.Errorf("fresh store has %d actions, want 0", len(entries))
	}

	// Idempotent.
	if err := repo.Bootstrap(ctx); err != nil {
		t.Fatalf("second Bootstrap() error = %v", err)
	}
}

func TestAdd_CreatesScope(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	mustAdd(t, repo, Action{Level: 20, Scope: "porch", Command: "/usr/local/bin/porch on"})

	id, err := repo.ScopeID(ctx, "porch")
	if err != nil {
		t.Fatalf("ScopeID() error = %v", err)
	}
	if id == DefaultScopeID {
		t.Errorf("new scope got the Default id")
	}

	entries := collect(t, repo)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Scope != "porch" || entries[0].ScopeID != id || entries[0].Delay != 0 {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestAdd_Duplicate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	mustAdd(t, repo, Action{Level: 50, Scope: DefaultScopeName, Command: "first"})

	err := repo.Add(ctx, Action{Level: 50, Scope: DefaultScopeName, Command: "second"})
	if !errors.Is(err, ErrActionExists) {
		t.Fatalf("Add() duplicate error = %v, want ErrActionExists", err)
	}

	entries := collect(t, repo)
	if len(entries) != 1 {
		t.Fatalf("got %d entries after conflict, want 1", len(entries))
	}
	if entries[0].Command != "first" {
		t.Errorf("Command = %q, want the first action kept", entries[0].Command)
	}
}

func TestAdd_SameLevelOtherScope(t *testing.T) {
	repo := setupTestRepo(t)

	mustAdd(t, repo,
		Action{Level: 50, Scope: DefaultScopeName, Command: "a"},
		Action{Level: 50, Scope: "garden", Command: "b"},
	)

	if entries := collect(t, repo); len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestAdd_Invalid(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		action  Action
		wantErr error
	}{
		{"negative level", Action{Level: -1, Scope: "x", Command: "c"}, ErrInvalidAction},
		{"negative delay", Action{Level: 1, Scope: "x", Delay: -2, Command: "c"}, ErrInvalidAction},
		{"blank command", Action{Level: 1, Scope: "x", Command: "   "}, ErrInvalidAction},
		{"empty scope", Action{Level: 1, Scope: "", Command: "c"}, ErrInvalidScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Add(ctx, tt.action)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Validation happens before the scope insert.
	if _, err := repo.ScopeID(ctx, "x"); !errors.Is(err, ErrScopeNotFound) {
		t.Errorf("scope created by invalid add: %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	mustAdd(t, repo,
		Action{Level: 10, Scope: DefaultScopeName, Command: "a"},
		Action{Level: 50, Scope: DefaultScopeName, Command: "b"},
	)

	if err := repo.Delete(ctx, DefaultScopeName, 10); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	entries := collect(t, repo)
	if len(entries) != 1 || entries[0].Level != 50 {
		t.Errorf("entries after delete = %+v, want only level 50", entries)
	}
}

func TestDelete_Missing(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	mustAdd(t, repo, Action{Level: 10, Scope: DefaultScopeName, Command: "a"})

	if err := repo.Delete(ctx, DefaultScopeName, 999); err != nil {
		t.Errorf("Delete() missing level error = %v, want nil", err)
	}
	if err := repo.Delete(ctx, "nowhere", 10); err != nil {
		t.Errorf("Delete() missing scope error = %v, want nil", err)
	}

	if entries := collect(t, repo); len(entries) != 1 {
		t.Errorf("store changed by no-op delete: %+v", entries)
	}
}

func TestDeleteScope_Cascades(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	mustAdd(t, repo,
		Action{Level: 10, Scope: "attic", Command: "a"},
		Action{Level: 60, Scope: "attic", Command: "b"},
		Action{Level: 10, Scope: DefaultScopeName, Command: "c"},
	)

	if err := repo.DeleteScope(ctx, "attic"); err != nil {
		t.Fatalf("DeleteScope() error = %v", err)
	}

	if _, err := repo.ScopeID(ctx, "attic"); !errors.Is(err, ErrScopeNotFound) {
		t.Errorf("ScopeID() after delete error = %v, want ErrScopeNotFound", err)
	}

	for _, e := range collect(t, repo) {
		if e.Scope == "attic" {
			t.Errorf("action %+v survived scope delete", e)
		}
	}

	// The cascade must have removed the rows, not merely hidden them from the join.
	var orphans int
	if err := repo.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM actions WHERE scope_id NOT IN (SELECT id FROM scopes)`,
	).Scan(&orphans); err != nil {
		t.Fatalf("counting orphans: %v", err)
	}
	if orphans != 0 {
		t.Errorf("found %d orphaned actions", orphans)
	}
}

func TestDeleteScope_Missing(t *testing.T) {
	repo := setupTestRepo(t)
	if err := repo.DeleteScope(context.Background(), "nowhere"); err != nil {
		t.Errorf("DeleteScope() missing scope error = %v, want nil", err)
	}
}

func TestDeleteScope_DefaultIsRecreated(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	mustAdd(t, repo, Action{Level: 10, Scope: DefaultScopeName, Command: "a"})

	if err := repo.DeleteScope(ctx, DefaultScopeName); err != nil {
		t.Fatalf("DeleteScope(Default) error = %v", err)
	}

	id, err := repo.ScopeID(ctx, DefaultScopeName)
	if err != nil {
		t.Fatalf("Default scope missing after delete: %v", err)
	}
	if id != DefaultScopeID {
		t.Errorf("Default scope id = %d, want %d", id, DefaultScopeID)
	}
	if entries := collect(t, repo); len(entries) != 0 {
		t.Errorf("Default actions survived: %+v", entries)
	}
}

func TestSelect_Threshold(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	mustAdd(t, repo,
		Action{Level: 100, Scope: DefaultScopeName, Command: "hundred"},
		Action{Level: 10, Scope: DefaultScopeName, Command: "ten"},
		Action{Level: 50, Scope: DefaultScopeName, Command: "fifty"},
	)

	tests := []struct {
		name     string
		observed int
		want     []int
	}{
		{"between thresholds", 75, []int{50}},
		{"below all thresholds", 5, nil},
		{"inclusive boundary", 100, []int{100}},
		{"above all thresholds", 5000, []int{100}},
		{"lowest boundary", 10, []int{10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := repo.Select(ctx, tt.observed)
			if err != nil {
				t.Fatalf("Select(%d) error = %v", tt.observed, err)
			}
			var got []int
			for _, e := range entries {
				got = append(got, e.Level)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Select(%d) levels = %v, want %v", tt.observed, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Select(%d) levels = %v, want %v", tt.observed, got, tt.want)
				}
			}
		})
	}
}

func TestSelect_PerScopeIndependence(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	mustAdd(t, repo,
		Action{Level: 10, Scope: "A", Command: "a10"},
		Action{Level: 100, Scope: "A", Command: "a100"},
		Action{Level: 5, Scope: "B", Command: "b5"},
		Action{Level: 60, Scope: "B", Command: "b60"},
	)

	entries, err := repo.Select(ctx, 70)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	got := make(map[string]string)
	for _, e := range entries {
		got[e.Scope] = e.Command
	}
	if len(got) != 2 || got["A"] != "a10" || got["B"] != "b60" {
		t.Errorf("Select(70) = %v, want A:a10 and B:b60", got)
	}
}

func TestAll_OrderAndRestart(t *testing.T) {
	repo := setupTestRepo(t)

	// Insert out of order: scope "z" is created before "a" so it gets the lower id.
	mustAdd(t, repo,
		Action{Level: 300, Scope: "z", Command: "z300"},
		Action{Level: 40, Scope: DefaultScopeName, Command: "d40"},
		Action{Level: 7, Scope: "a", Command: "a7"},
		Action{Level: 20, Scope: "z", Command: "z20"},
		Action{Level: 4, Scope: DefaultScopeName, Command: "d4"},
	)

	want := []string{"d4", "d40", "z20", "z300", "a7"}

	for pass := 0; pass < 2; pass++ {
		entries := collect(t, repo)
		if len(entries) != len(want) {
			t.Fatalf("pass %d: got %d entries, want %d", pass, len(entries), len(want))
		}
		for i, e := range entries {
			if e.Command != want[i] {
				t.Errorf("pass %d: entry %d = %q, want %q", pass, i, e.Command, want[i])
			}
		}
	}
}

func TestAll_EarlyBreak(t *testing.T) {
	repo := setupTestRepo(t)
	mustAdd(t, repo,
		Action{Level: 1, Scope: DefaultScopeName, Command: "one"},
		Action{Level: 2, Scope: DefaultScopeName, Command: "two"},
	)

	for e, err := range repo.All(context.Background()) {
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if e.Command != "one" {
			t.Errorf("first entry = %q, want one", e.Command)
		}
		break
	}

	// The connection must have been released by the early break.
	if entries := collect(t, repo); len(entries) != 2 {
		t.Errorf("got %d entries after early break, want 2", len(entries))
	}
}

func TestRenameScope(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	mustAdd(t, repo,
		Action{Level: 10, Scope: "kitchen", Command: "k"},
		Action{Level: 10, Scope: "hall", Command: "h"},
	)
	oldID, err := repo.ScopeID(ctx, "kitchen")
	if err != nil {
		t.Fatalf("ScopeID() error = %v", err)
	}

	if err := repo.RenameScope(ctx, "kitchen", "galley"); err != nil {
		t.Fatalf("RenameScope() error = %v", err)
	}

	newID, err := repo.ScopeID(ctx, "galley")
	if err != nil {
		t.Fatalf("ScopeID() after rename error = %v", err)
	}
	if newID != oldID {
		t.Errorf("rename changed id %d -> %d", oldID, newID)
	}

	entries, err := repo.Select(ctx, 10)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Scope == "galley" && e.Command == "k" {
			found = true
		}
	}
	if !found {
		t.Errorf("renamed scope lost its action: %+v", entries)
	}

	t.Run("onto existing name", func(t *testing.T) {
		if err := repo.RenameScope(ctx, "galley", "hall"); !errors.Is(err, ErrScopeExists) {
			t.Errorf("RenameScope() error = %v, want ErrScopeExists", err)
		}
	})

	t.Run("missing scope", func(t *testing.T) {
		if err := repo.RenameScope(ctx, "cellar", "basement"); !errors.Is(err, ErrScopeNotFound) {
			t.Errorf("RenameScope() error = %v, want ErrScopeNotFound", err)
		}
	})

	t.Run("default scope", func(t *testing.T) {
		if err := repo.RenameScope(ctx, DefaultScopeName, "Main"); !errors.Is(err, ErrDefaultScope) {
			t.Errorf("RenameScope() error = %v, want ErrDefaultScope", err)
		}
	})
}
