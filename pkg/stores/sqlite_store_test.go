package stores

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/smesilov-dev/pacemaker/pkg/ops"
)

// setupTestStore creates a migrated store backed by a temp-dir database.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(Config{
		Path: filepath.Join(t.TempDir(), "status.db"),
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStoreLifecycle(t *testing.T) {
	store := setupTestStore(t)

	if err := store.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
}

func TestRecordResultDerivesFields(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	magic, err := ops.EncodeTransitionMagic(ops.ExecDone, 0, 5, 12, 0, "node1")
	if err != nil {
		t.Fatalf("EncodeTransitionMagic() error = %v", err)
	}

	rec := &OperationRecord{
		RscID:      "db",
		OpType:     "monitor",
		IntervalMS: 10000,
		Node:       "node1",
		Magic:      magic,
	}
	if err := store.RecordResult(ctx, rec); err != nil {
		t.Fatalf("RecordResult() error = %v", err)
	}

	if rec.ID == "" {
		t.Error("record id was not assigned")
	}
	if rec.OpKey != "db_monitor_10000" {
		t.Errorf("OpKey = %q, want %q", rec.OpKey, "db_monitor_10000")
	}
	if rec.TransitionID != 5 || rec.ActionID != 12 {
		t.Errorf("transition correlation = (%d, %d), want (5, 12)",
			rec.TransitionID, rec.ActionID)
	}
	if rec.Failed {
		t.Error("successful operation classified as failure")
	}

	got, err := store.GetResult(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetResult() error = %v", err)
	}
	if got.OpKey != rec.OpKey || got.Status != ops.ExecDone || got.Magic != magic {
		t.Errorf("GetResult() = %+v, want fields of %+v", got, rec)
	}
}

func TestRecordResultRejectsBadMagic(t *testing.T) {
	store := setupTestStore(t)

	rec := &OperationRecord{
		RscID:  "db",
		OpType: "start",
		Magic:  "not-a-magic",
	}
	err := store.RecordResult(context.Background(), rec)
	if err == nil {
		t.Fatal("RecordResult() error = nil, want error")
	}
	if !ops.IsInvalidFormat(err) {
		t.Errorf("error = %v, want invalid-format in chain", err)
	}
}

func TestRecordResultRequiresKeyFields(t *testing.T) {
	store := setupTestStore(t)

	rec := &OperationRecord{OpType: "start"}
	if err := store.RecordResult(context.Background(), rec); err == nil {
		t.Fatal("RecordResult() without rsc_id succeeded, want error")
	}
}

func TestGetLatest(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	for i, rc := range []int{0, 7} {
		rec := &OperationRecord{
			RscID:      "db",
			OpType:     "monitor",
			IntervalMS: 10000,
			Status:     ops.ExecDone,
			RC:         rc,
			ExecutedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.RecordResult(ctx, rec); err != nil {
			t.Fatalf("RecordResult() error = %v", err)
		}
	}

	got, err := store.GetLatest(ctx, "db_monitor_10000")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if got.RC != 7 {
		t.Errorf("GetLatest() RC = %d, want 7", got.RC)
	}
	if !got.Failed {
		t.Error("latest record with mismatched rc not classified as failure")
	}
}

func TestGetResultNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetResult(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListByResourceAndFailures(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	seed := []struct {
		rscID  string
		opType string
		status ops.ExecStatus
		rc     int
	}{
		{"db", "start", ops.ExecDone, 0},
		{"db", "monitor", ops.ExecTimeout, 1},
		{"vip", "start", ops.ExecDone, 0},
		{"db", "stop", ops.ExecError, 1},
	}
	for i, sd := range seed {
		rec := &OperationRecord{
			RscID:      sd.rscID,
			OpType:     sd.opType,
			Status:     sd.status,
			RC:         sd.rc,
			ExecutedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.RecordResult(ctx, rec); err != nil {
			t.Fatalf("RecordResult() error = %v", err)
		}
	}

	byRsc, err := store.ListByResource(ctx, "db", 10, 0)
	if err != nil {
		t.Fatalf("ListByResource() error = %v", err)
	}
	if len(byRsc) != 3 {
		t.Fatalf("ListByResource() returned %d records, want 3", len(byRsc))
	}
	if byRsc[0].OpType != "stop" {
		t.Errorf("most recent op = %q, want %q", byRsc[0].OpType, "stop")
	}

	failures, err := store.ListFailures(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListFailures() error = %v", err)
	}
	if len(failures) != 2 {
		t.Fatalf("ListFailures() returned %d records, want 2", len(failures))
	}
	for _, rec := range failures {
		if !rec.Failed {
			t.Errorf("non-failure record %q in failure list", rec.OpKey)
		}
	}
}

func TestPruneBefore(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		rec := &OperationRecord{
			RscID:      "db",
			OpType:     "monitor",
			Status:     ops.ExecDone,
			ExecutedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.RecordResult(ctx, rec); err != nil {
			t.Fatalf("RecordResult() error = %v", err)
		}
	}

	pruned, err := store.PruneBefore(ctx, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("PruneBefore() error = %v", err)
	}
	if pruned != 2 {
		t.Errorf("PruneBefore() = %d, want 2", pruned)
	}

	remaining, err := store.ListByResource(ctx, "db", 10, 0)
	if err != nil {
		t.Fatalf("ListByResource() error = %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("%d records remain, want 2", len(remaining))
	}
}
