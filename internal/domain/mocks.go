package domain

import (
	"context"
	"sync"
)

type MockAPI struct {
	mu sync.Mutex

	ProjectErr   error
	PipelineList []PipelineRef
	PipelineErr  error
	Workflows    []WorkflowRef
	WorkflowErr  error
	Jobs         map[string][]Job
	JobErr       error
	ApproveErr   error

	ProjectCalls  int
	PipelineCalls int
	WorkflowCalls int
	JobCalls      int
	ApproveCalls  int
	Approved      []string // "workflowID/approvalRequestID"
}

func (m *MockAPI) Project(_ context.Context, _ ProjectSlug) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProjectCalls++
	return m.ProjectErr
}

func (m *MockAPI) Pipelines(_ context.Context, _ ProjectSlug, _ string) ([]PipelineRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PipelineCalls++
	if m.PipelineErr != nil {
		return nil, m.PipelineErr
	}
	return m.PipelineList, nil
}

func (m *MockAPI) PipelineWorkflows(_ context.Context, _ string) ([]WorkflowRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorkflowCalls++
	if m.WorkflowErr != nil {
		return nil, m.WorkflowErr
	}
	return m.Workflows, nil
}

func (m *MockAPI) WorkflowJobs(_ context.Context, workflowID string) ([]Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JobCalls++
	if m.JobErr != nil {
		return nil, m.JobErr
	}
	return m.Jobs[workflowID], nil
}

func (m *MockAPI) Approve(_ context.Context, workflowID, approvalRequestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApproveCalls++
	if m.ApproveErr != nil {
		return m.ApproveErr
	}
	m.Approved = append(m.Approved, workflowID+"/"+approvalRequestID)
	return nil
}

// Calls is the total number of network calls the mock has seen.
func (m *MockAPI) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ProjectCalls + m.PipelineCalls + m.WorkflowCalls + m.JobCalls + m.ApproveCalls
}

type MockCache struct {
	mu sync.Mutex

	Entries   Snapshot
	Updates   int
	ReadErr   error
	UpdateErr error
}

func (c *MockCache) Update(_ context.Context, branch string, workflows []Workflow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.UpdateErr != nil {
		return c.UpdateErr
	}
	if c.Entries == nil {
		c.Entries = Snapshot{}
	}
	c.Entries[branch] = workflows
	c.Updates++
	return nil
}

func (c *MockCache) Read(_ context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ReadErr != nil {
		return nil, c.ReadErr
	}
	out := make(Snapshot, len(c.Entries))
	for k, v := range c.Entries {
		out[k] = v
	}
	return out, nil
}

func (c *MockCache) Exists() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Entries) > 0
}

type MockNotifier struct {
	Messages []string
	Err      error
}

func (n *MockNotifier) Notify(_ context.Context, title, body, url string) error {
	n.Messages = append(n.Messages, title+"|"+body+"|"+url)
	return n.Err
}

type MockBrowser struct {
	Opened []string
	Err    error
}

func (b *MockBrowser) Open(_ context.Context, url string) error {
	if b.Err != nil {
		return b.Err
	}
	b.Opened = append(b.Opened, url)
	return nil
}

type MockWorkspace struct {
	CIConfig bool
}

func (w *MockWorkspace) HasCIConfig() bool { return w.CIConfig }
