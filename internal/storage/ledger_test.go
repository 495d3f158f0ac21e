package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestLedgerMarkAndLookup(t *testing.T) {
	ctx := context.Background()
	l, err := OpenLedger(filepath.Join(t.TempDir(), "ytce.db"))
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	defer l.Close()

	done, err := l.IsDone(ctx, "@chan", "vid1")
	if err != nil {
		t.Fatalf("IsDone: %v", err)
	}
	if done {
		t.Fatal("fresh ledger reports video done")
	}

	if err := l.MarkDone(ctx, "@chan", "vid1", 42); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	done, err = l.IsDone(ctx, "@chan", "vid1")
	if err != nil {
		t.Fatalf("IsDone: %v", err)
	}
	if !done {
		t.Error("marked video not reported done")
	}

	// Same video under another channel is unrelated.
	done, _ = l.IsDone(ctx, "@other", "vid1")
	if done {
		t.Error("completion leaked across channels")
	}
}

func TestLedgerMarkDoneIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l, err := OpenLedger(filepath.Join(t.TempDir(), "ytce.db"))
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	defer l.Close()

	if err := l.MarkDone(ctx, "@chan", "vid1", 1); err != nil {
		t.Fatalf("first MarkDone: %v", err)
	}
	if err := l.MarkDone(ctx, "@chan", "vid1", 2); err != nil {
		t.Fatalf("second MarkDone: %v", err)
	}
}

func TestLedgerForget(t *testing.T) {
	ctx := context.Background()
	l, err := OpenLedger(filepath.Join(t.TempDir(), "ytce.db"))
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	defer l.Close()

	for _, vid := range []string{"vid1", "vid2"} {
		if err := l.MarkDone(ctx, "@chan", vid, 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.MarkDone(ctx, "@keep", "vid1", 1); err != nil {
		t.Fatal(err)
	}

	if err := l.Forget(ctx, "@chan"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if done, _ := l.IsDone(ctx, "@chan", "vid1"); done {
		t.Error("forgotten channel still reports done")
	}
	if done, _ := l.IsDone(ctx, "@keep", "vid1"); !done {
		t.Error("Forget dropped rows of another channel")
	}
}

func TestLedgerSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ytce.db")

	l, err := OpenLedger(path)
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	if err := l.MarkDone(ctx, "@chan", "vid1", 5); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	l, err = OpenLedger(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l.Close()
	done, err := l.IsDone(ctx, "@chan", "vid1")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("completion lost across reopen")
	}
}
