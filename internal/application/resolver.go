package application

import (
	"fmt"
	"strings"

	"github.com/davarch/ci-status/internal/domain"
)

const lineSeparator = " - "

// Resolver maps a rendered entry back to the workflow/job it stands for
// and derives a browse URL or an approval target.
type Resolver struct {
	WebHost string
	Slug    domain.ProjectSlug
}

func NewResolver(webHost string, slug domain.ProjectSlug) *Resolver {
	return &Resolver{WebHost: webHost, Slug: slug}
}

// ResolveRef is the stable resolution path: the renderer attaches an
// EntryRef to every line, so no text has to be re-parsed. An empty
// JobName targets the workflow itself.
func (r *Resolver) ResolveRef(workflows []domain.Workflow, ref domain.EntryRef) (domain.Target, error) {
	for _, w := range workflows {
		if w.WorkflowID != ref.WorkflowID {
			continue
		}
		if ref.JobName == "" {
			return r.target(w, nil), nil
		}
		for _, j := range w.Jobs {
			if j.Name == ref.JobName {
				return r.target(w, &j), nil
			}
		}
	}
	return domain.Target{}, fmt.Errorf("%s/%s: %w", ref.WorkflowID, ref.JobName, domain.ErrBuildNotFound)
}

// ResolveLine is the compatibility shim over rendered text. The filter
// name comes from splitting on " - ": first segment for approval lines
// (which read "<workflow> - Wait for approve"), second otherwise
// ("<number> - <name>"). Names containing " - " themselves are not
// supported; the shim keeps the observed two-segment behavior only.
func (r *Resolver) ResolveLine(workflows []domain.Workflow, line string) (domain.Target, error) {
	approval := strings.Contains(line, "approve")
	parts := strings.Split(line, lineSeparator)

	var filter string
	switch {
	case approval:
		filter = strings.TrimSpace(parts[0])
	case len(parts) >= 2:
		filter = strings.TrimSpace(parts[1])
	default:
		return domain.Target{}, fmt.Errorf("line %q: %w", line, domain.ErrBuildNotFound)
	}

	for _, w := range workflows {
		if approval {
			if j, ok := pendingApproval(w, filter); ok {
				return r.target(w, &j), nil
			}
			continue
		}
		for _, j := range w.Jobs {
			if j.Name == filter {
				return r.target(w, &j), nil
			}
		}
	}
	return domain.Target{}, fmt.Errorf("line %q: %w", line, domain.ErrBuildNotFound)
}

// pendingApproval picks the first job awaiting approval in a workflow the
// filter names, either by the workflow's own name (approval headings carry
// it) or by the job's.
func pendingApproval(w domain.Workflow, filter string) (domain.Job, bool) {
	if w.WorkflowName != filter {
		for _, j := range w.Jobs {
			if j.Name == filter && j.AwaitsApproval() {
				return j, true
			}
		}
		return domain.Job{}, false
	}
	for _, j := range w.Jobs {
		if j.AwaitsApproval() {
			return j, true
		}
	}
	return domain.Job{}, false
}

// WorkflowURL is the workflow-level browse URL, without a job segment.
func (r *Resolver) WorkflowURL(w domain.Workflow) string {
	return r.target(w, nil).URL
}

func (r *Resolver) target(w domain.Workflow, j *domain.Job) domain.Target {
	if j != nil && j.AwaitsApproval() {
		return domain.Target{
			Kind:              domain.TargetApprove,
			WorkflowID:        w.WorkflowID,
			ApprovalRequestID: j.ApprovalRequestID,
		}
	}

	url := fmt.Sprintf("%s/pipelines/%s/%d/workflows/%s", r.WebHost, r.Slug, w.PipelineNumber, w.WorkflowID)
	if j != nil && j.Executed() {
		url = fmt.Sprintf("%s/jobs/%d", url, j.JobNumber)
	}
	return domain.Target{Kind: domain.TargetBrowse, URL: url, WorkflowID: w.WorkflowID}
}
