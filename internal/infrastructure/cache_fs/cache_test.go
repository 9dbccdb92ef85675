package cache_fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/davarch/ci-status/internal/domain"
)

func workflowsFor(branch string, n int) []domain.Workflow {
	return []domain.Workflow{{
		WorkflowID:     "w-" + branch,
		WorkflowName:   "build",
		Status:         domain.StatusSuccess,
		PipelineNumber: n,
		Branch:         branch,
		Jobs: []domain.Job{
			{Name: "compile", Status: domain.StatusSuccess, JobNumber: n * 10},
			{Name: "gate", Status: domain.StatusOnHold, ApprovalRequestID: fmt.Sprintf("a%d", n)},
		},
	}}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	ctx := context.Background()

	c := New(path)
	if err := c.Update(ctx, "main", workflowsFor("main", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Update(ctx, "empty", []domain.Workflow{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cold process: only the file remains.
	cold := New(path)
	got, err := cold.Read(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Snapshot{
		"main":  workflowsFor("main", 1),
		"empty": {},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestUpdate_ReplacesBranchEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	ctx := context.Background()

	c := New(path)
	_ = c.Update(ctx, "main", workflowsFor("main", 1))
	if err := c.Update(ctx, "main", workflowsFor("main", 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap) != 1 {
		t.Fatalf("expected 1 branch entry, got %d", len(snap))
	}
	if snap["main"][0].PipelineNumber != 2 {
		t.Errorf("entry not replaced: %+v", snap["main"])
	}
}

func TestUpdate_ColdProcessKeepsOtherBranches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	ctx := context.Background()

	_ = New(path).Update(ctx, "main", workflowsFor("main", 1))

	// A different process updates another branch.
	c := New(path)
	if err := c.Update(ctx, "feature", workflowsFor("feature", 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := New(path).Read(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("expected both branches, got %v", len(snap))
	}
}

func TestRead_MissingFileIsEmpty(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "absent.json"))

	if c.Exists() {
		t.Error("Exists on missing file")
	}
	snap, err := c.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestRead_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(path)
	if !c.Exists() {
		t.Error("Exists should see the file")
	}
	if _, err := c.Read(context.Background()); !errors.Is(err, domain.ErrCacheCorrupt) {
		t.Fatalf("expected ErrCacheCorrupt, got %v", err)
	}
}

func TestUpdate_ConcurrentBranches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	ctx := context.Background()
	c := New(path)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			branch := fmt.Sprintf("branch-%d", i)
			if err := c.Update(ctx, branch, workflowsFor(branch, i+1)); err != nil {
				t.Errorf("update %s: %v", branch, err)
			}
		}()
	}
	wg.Wait()

	snap, err := New(path).Read(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap) != 8 {
		t.Fatalf("expected 8 branches, got %d", len(snap))
	}
	for i := 0; i < 8; i++ {
		branch := fmt.Sprintf("branch-%d", i)
		if !reflect.DeepEqual(snap[branch], workflowsFor(branch, i+1)) {
			t.Errorf("entry for %s corrupted", branch)
		}
	}
}

// An interrupted write leaves a stale temp file behind; the previous
// durable state must survive and later updates must still work.
func TestUpdate_StaleTempFileIsHarmless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	ctx := context.Background()

	_ = New(path).Update(ctx, "main", workflowsFor("main", 1))
	if err := os.WriteFile(path+".tmp", []byte("partial garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := New(path).Read(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(snap["main"], workflowsFor("main", 1)) {
		t.Errorf("previous state lost: %+v", snap["main"])
	}

	if err := New(path).Update(ctx, "main", workflowsFor("main", 2)); err != nil {
		t.Fatalf("update after stale temp: %v", err)
	}
}
