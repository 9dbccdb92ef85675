package domain

type Status string

const (
	StatusSuccess  Status = "success"
	StatusRunning  Status = "running"
	StatusFailed   Status = "failed"
	StatusOnHold   Status = "on_hold"
	StatusBlocked  Status = "blocked"
	StatusCanceled Status = "canceled"
)

// PipelineRef identifies one CI run of a branch.
type PipelineRef struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
}

// WorkflowRef is a workflow as listed under a pipeline, before its jobs
// have been fetched.
type WorkflowRef struct {
	ID     string
	Name   string
	Status Status
}

// Job is a single unit within a workflow. Exactly one of JobNumber and
// ApprovalRequestID is set once the job settles: JobNumber for executed
// jobs, ApprovalRequestID for jobs waiting on a manual approval gate.
type Job struct {
	Name              string `json:"name"`
	Status            Status `json:"status"`
	JobNumber         int    `json:"job_number,omitempty"`
	ApprovalRequestID string `json:"approval_request_id,omitempty"`
}

func (j Job) Executed() bool       { return j.JobNumber != 0 }
func (j Job) AwaitsApproval() bool { return j.ApprovalRequestID != "" }

// Workflow is the per-pull view of one workflow and its jobs, in the
// execution order the provider returned them. Never mutated in place;
// a new pull replaces the whole slice.
type Workflow struct {
	WorkflowID     string `json:"workflow_id"`
	WorkflowName   string `json:"workflow_name"`
	Status         Status `json:"workflow_status"`
	PipelineNumber int    `json:"pipeline_number"`
	Branch         string `json:"branch"`
	Jobs           []Job  `json:"jobs"`
}

// Snapshot maps a branch name to its workflows as of the last pull.
// One entry per branch; a pull replaces the branch's entry wholesale.
type Snapshot map[string][]Workflow

// ProjectSlug identifies a project on the provider: vcs/org/repo.
type ProjectSlug struct {
	VCS          string
	Organization string
	Repo         string
}

func (s ProjectSlug) String() string {
	return s.VCS + "/" + s.Organization + "/" + s.Repo
}

// EntryRef is the stable identifier the renderer attaches to every line,
// so callers can resolve a line without re-parsing its text. An empty
// JobName refers to the workflow itself.
type EntryRef struct {
	WorkflowID string `json:"workflow_id"`
	JobName    string `json:"job_name,omitempty"`
}

type TargetKind string

const (
	TargetBrowse  TargetKind = "browse"
	TargetApprove TargetKind = "approve"
)

// Target is the outcome of a resolution: either a human browse URL or a
// POST-only approval endpoint.
type Target struct {
	Kind              TargetKind
	URL               string
	WorkflowID        string
	ApprovalRequestID string
}
