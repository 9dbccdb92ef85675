package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davarch/ci-status/internal/domain"
	"go.uber.org/zap"
)

// approvalMarker gates the action: lines without it are not approvals.
const approvalMarker = "wait for"

type ApproveUseCase struct {
	api   domain.PipelineAPI
	cache domain.SnapshotCache
	res   *Resolver
	pull  *PullUseCase
	log   *zap.Logger
}

func NewApproveUseCase(api domain.PipelineAPI, cache domain.SnapshotCache,
	res *Resolver, pull *PullUseCase, log *zap.Logger) *ApproveUseCase {
	return &ApproveUseCase{api: api, cache: cache, res: res, pull: pull, log: log}
}

// ApproveLine resolves the line against the branch's cached snapshot,
// POSTs the approval, and on success re-pulls so the next render reflects
// it. Lines without the approval marker are a no-op (false, nil). A
// failed POST is surfaced without a re-pull, so the failure is not masked
// by stale-looking state.
func (uc *ApproveUseCase) ApproveLine(ctx context.Context, branch, line string) (bool, error) {
	if !strings.Contains(strings.ToLower(line), approvalMarker) {
		return false, nil
	}

	snap, err := uc.cache.Read(ctx)
	if err != nil && !errors.Is(err, domain.ErrCacheCorrupt) {
		return false, err
	}

	target, err := uc.res.ResolveLine(snap[branch], line)
	if err != nil {
		return false, err
	}
	if target.Kind != domain.TargetApprove {
		return false, fmt.Errorf("line %q: no pending approval: %w", line, domain.ErrBuildNotFound)
	}

	if err := uc.api.Approve(ctx, target.WorkflowID, target.ApprovalRequestID); err != nil {
		return false, err
	}

	uc.log.Info("approved",
		zap.String("workflow", target.WorkflowID),
		zap.String("approval_request", target.ApprovalRequestID),
		zap.String("branch", branch),
	)

	if _, err := uc.pull.PullOnce(ctx, branch); err != nil {
		return true, fmt.Errorf("approved, but refreshing the snapshot failed: %w", err)
	}
	return true, nil
}
