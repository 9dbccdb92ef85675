package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/davarch/ci-status/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxJobFetches bounds the per-pull jobs fan-out so pipelines with many
// workflows don't hammer the provider.
const maxJobFetches = 4

type PullUseCase struct {
	api   domain.PipelineAPI
	cache domain.SnapshotCache
	note  domain.Notifier
	res   *Resolver
	ws    domain.Workspace
	log   *zap.Logger
}

func NewPullUseCase(api domain.PipelineAPI, cache domain.SnapshotCache, note domain.Notifier,
	res *Resolver, ws domain.Workspace, log *zap.Logger) *PullUseCase {
	return &PullUseCase{api: api, cache: cache, note: note, res: res, ws: ws, log: log}
}

// PullOnce assembles the branch's snapshot (project -> latest pipeline ->
// workflows -> jobs) and replaces the branch's cache entry. A repository
// without a CI config short-circuits: no network calls, cache untouched.
func (uc *PullUseCase) PullOnce(ctx context.Context, branch string) ([]domain.Workflow, error) {
	if !uc.ws.HasCIConfig() {
		uc.log.Debug("no CI config in repository, skipping pull", zap.String("branch", branch))
		return nil, nil
	}

	if err := uc.api.Project(ctx, uc.res.Slug); err != nil {
		var te *domain.TransportError
		if errors.As(err, &te) && te.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", uc.res.Slug, domain.ErrProjectNotFound)
		}
		return nil, err
	}

	pipelines, err := uc.api.Pipelines(ctx, uc.res.Slug, branch)
	if err != nil {
		return nil, err
	}
	if len(pipelines) == 0 {
		return nil, fmt.Errorf("branch %s: %w", branch, domain.ErrNoPipeline)
	}
	// Provider lists newest first.
	latest := pipelines[0]

	refs, err := uc.api.PipelineWorkflows(ctx, latest.ID)
	if err != nil {
		return nil, err
	}

	// Jobs are fetched concurrently per workflow; the indexed slice keeps
	// the result in workflow-list order, not fetch-completion order.
	workflows := make([]domain.Workflow, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxJobFetches)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			jobs, err := uc.api.WorkflowJobs(gctx, ref.ID)
			if err != nil {
				return err
			}
			workflows[i] = domain.Workflow{
				WorkflowID:     ref.ID,
				WorkflowName:   ref.Name,
				Status:         ref.Status,
				PipelineNumber: latest.Number,
				Branch:         branch,
				Jobs:           jobs,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prev := uc.previous(ctx, branch)
	if err := uc.cache.Update(ctx, branch, workflows); err != nil {
		return nil, err
	}

	uc.notifyChanges(ctx, branch, prev, workflows)
	return workflows, nil
}

func (uc *PullUseCase) previous(ctx context.Context, branch string) []domain.Workflow {
	snap, err := uc.cache.Read(ctx)
	if err != nil {
		// Corrupt cache reads as no previous state.
		return nil
	}
	return snap[branch]
}

// notifyChanges compares workflow statuses by name across pulls (IDs are
// new on every pipeline) and raises a desktop notification per change.
// Notification failure never affects the pull.
func (uc *PullUseCase) notifyChanges(ctx context.Context, branch string, prev, next []domain.Workflow) {
	if uc.note == nil || len(prev) == 0 {
		return
	}

	old := make(map[string]domain.Status, len(prev))
	for _, w := range prev {
		old[w.WorkflowName] = w.Status
	}

	for _, w := range next {
		if s, ok := old[w.WorkflowName]; ok && s == w.Status {
			continue
		}
		body := fmt.Sprintf("%s #%d (%s)", w.WorkflowName, w.PipelineNumber, branch)
		_ = uc.note.Notify(ctx, titleFor(w.Status), body, uc.res.WorkflowURL(w))
	}
}

func titleFor(s domain.Status) string {
	switch s {
	case domain.StatusSuccess:
		return "✅ CI: success"
	case domain.StatusFailed:
		return "❌ CI: failed"
	case domain.StatusRunning:
		return "▶️ CI: running"
	case domain.StatusOnHold:
		return "⏸️ CI: waiting for approval"
	case domain.StatusCanceled:
		return "⛔ CI: canceled"
	default:
		return "ℹ️ CI: " + string(s)
	}
}
