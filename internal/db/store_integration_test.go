package db

import (
	"context"
	"os"
	"testing"

	"github.com/kommo_pulse/backend/internal/report"
)

func TestRunLifecycleIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := New(ctx, url)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	runID, err := store.CreateRun(ctx, "lead")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}

	table := &report.Table{Header: []string{"Lead ID", "Price"}}
	table.Append(report.Val("1"), report.Val("1000"))
	table.Append(report.Val("2"), report.Val("500"))

	copied, err := store.InsertRows(ctx, runID, table)
	if err != nil {
		t.Fatalf("insert rows: %v", err)
	}
	if copied != 2 {
		t.Fatalf("expected 2 rows copied, got %d", copied)
	}

	if err := store.FinishRun(ctx, runID, "DONE", 2, map[string]int{"rows": 2}); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	latest, err := store.LatestRun(ctx, "lead")
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if latest["id"] != runID {
		t.Fatalf("expected latest run %s, got %v", runID, latest["id"])
	}
	if latest["row_count"] != 2 {
		t.Fatalf("unexpected row count: %v", latest["row_count"])
	}
}
