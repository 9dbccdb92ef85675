package domain

import "context"

type PipelineAPI interface {
	// Project confirms the project exists on the provider.
	Project(ctx context.Context, slug ProjectSlug) error
	// Pipelines lists the branch's pipelines, newest first.
	Pipelines(ctx context.Context, slug ProjectSlug, branch string) ([]PipelineRef, error)
	PipelineWorkflows(ctx context.Context, pipelineID string) ([]WorkflowRef, error)
	WorkflowJobs(ctx context.Context, workflowID string) ([]Job, error)
	Approve(ctx context.Context, workflowID, approvalRequestID string) error
}

type SnapshotCache interface {
	// Update replaces the branch's entry and rewrites the durable file.
	Update(ctx context.Context, branch string, workflows []Workflow) error
	// Read returns the in-memory snapshot if populated, else the durable
	// file's content. Never a merge of the two.
	Read(ctx context.Context) (Snapshot, error)
	Exists() bool
}

type Notifier interface {
	Notify(ctx context.Context, title, body, url string) error
}

type Browser interface {
	Open(ctx context.Context, url string) error
}

// Workspace is what the pull needs to know about the checked-out repo.
type Workspace interface {
	HasCIConfig() bool
}
