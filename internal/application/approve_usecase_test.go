package application

import (
	"context"
	"errors"
	"testing"

	"github.com/davarch/ci-status/internal/domain"
	"go.uber.org/zap"
)

func newApproveForTest(api *domain.MockAPI, cache *domain.MockCache) *ApproveUseCase {
	pull := newPullForTest(api, cache, nil, true)
	return NewApproveUseCase(api, cache, testResolver(), pull, zap.NewNop())
}

func pendingSnapshot() domain.Snapshot {
	return domain.Snapshot{
		"main": {{
			WorkflowID:     "w2",
			WorkflowName:   "approve",
			Status:         domain.StatusOnHold,
			PipelineNumber: 57,
			Branch:         "main",
			Jobs:           []domain.Job{{Name: "gate", Status: domain.StatusOnHold, ApprovalRequestID: "a1"}},
		}},
	}
}

func TestApproveLine_WithoutMarkerIsNoop(t *testing.T) {
	api := &domain.MockAPI{}
	cache := &domain.MockCache{Entries: pendingSnapshot()}
	uc := newApproveForTest(api, cache)

	approved, err := uc.ApproveLine(context.Background(), "main", "42 - build-x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved {
		t.Error("expected no-op")
	}
	if api.Calls() != 0 {
		t.Errorf("expected zero network calls, got %d", api.Calls())
	}
}

func TestApproveLine_PostsAndRepulls(t *testing.T) {
	api := &domain.MockAPI{
		PipelineList: []domain.PipelineRef{{ID: "p2", Number: 58}},
		Workflows:    []domain.WorkflowRef{{ID: "w3", Name: "approve", Status: domain.StatusRunning}},
		Jobs:         map[string][]domain.Job{"w3": {{Name: "gate", JobNumber: 9}}},
	}
	cache := &domain.MockCache{Entries: pendingSnapshot()}
	uc := newApproveForTest(api, cache)

	approved, err := uc.ApproveLine(context.Background(), "main", "approve - Wait for approve")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approved {
		t.Fatal("expected approval")
	}
	if len(api.Approved) != 1 || api.Approved[0] != "w2/a1" {
		t.Errorf("approved = %v, want [w2/a1]", api.Approved)
	}
	if api.PipelineCalls == 0 {
		t.Error("expected a fresh pull after approval")
	}
	if cache.Entries["main"][0].WorkflowID != "w3" {
		t.Errorf("cache not refreshed: %+v", cache.Entries["main"])
	}
}

func TestApproveLine_FailedPostDoesNotRepull(t *testing.T) {
	api := &domain.MockAPI{ApproveErr: &domain.TransportError{URL: "u", Status: 500}}
	cache := &domain.MockCache{Entries: pendingSnapshot()}
	uc := newApproveForTest(api, cache)

	_, err := uc.ApproveLine(context.Background(), "main", "approve - Wait for approve")
	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if api.PipelineCalls != 0 {
		t.Error("a failed POST must not trigger a re-pull")
	}
	if cache.Updates != 0 {
		t.Error("cache must stay unchanged after a failed POST")
	}
}

func TestApproveLine_UnresolvableLine(t *testing.T) {
	api := &domain.MockAPI{}
	cache := &domain.MockCache{Entries: pendingSnapshot()}
	uc := newApproveForTest(api, cache)

	_, err := uc.ApproveLine(context.Background(), "main", "ghost - Wait for approve")
	if !errors.Is(err, domain.ErrBuildNotFound) {
		t.Fatalf("expected ErrBuildNotFound, got %v", err)
	}
	if api.ApproveCalls != 0 {
		t.Error("nothing may be posted for an unresolvable line")
	}
}

func TestApproveLine_CorruptCacheReadsAsEmpty(t *testing.T) {
	api := &domain.MockAPI{}
	cache := &domain.MockCache{ReadErr: domain.ErrCacheCorrupt}
	uc := newApproveForTest(api, cache)

	_, err := uc.ApproveLine(context.Background(), "main", "approve - Wait for approve")
	if !errors.Is(err, domain.ErrBuildNotFound) {
		t.Fatalf("expected ErrBuildNotFound, got %v", err)
	}
}
