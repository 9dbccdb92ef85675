package circle_http

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/davarch/ci-status/internal/domain"
)

const apiPrefix = "/api/v2"

// Client speaks the provider's v2 REST API. It does not retry: provider
// errors are surfaced to the caller as-is, without interpretation.
type Client struct {
	host  string
	token string
	hc    *http.Client
}

func New(host, token string, timeout time.Duration) *Client {
	tr := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		host:  trimSlash(host),
		token: token,
		hc:    &http.Client{Transport: tr, Timeout: timeout},
	}
}

// request issues one authenticated call and returns the raw body.
// Errors never echo the token: they carry the URL without its query.
func (c *Client) request(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("circle-token", c.token)

	bare := c.host + apiPrefix + path
	full := bare + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, full, nil)
	if err != nil {
		return nil, &domain.TransportError{URL: bare, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &domain.TransportError{URL: bare, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{URL: bare, Err: err}
	}

	if resp.StatusCode >= 300 {
		return nil, &domain.TransportError{URL: bare, Status: resp.StatusCode}
	}
	return body, nil
}

func decode(body []byte, bare string, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &domain.DecodeError{URL: bare, Err: err}
	}
	return nil
}

type projectDTO struct {
	Slug             string `json:"slug"`
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name"`
}

type pipelineDTO struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
}

type pipelinesEnvelope struct {
	Items         []pipelineDTO `json:"items"`
	NextPageToken string        `json:"next_page_token"`
}

type workflowDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type workflowsEnvelope struct {
	Items         []workflowDTO `json:"items"`
	NextPageToken string        `json:"next_page_token"`
}

type jobDTO struct {
	Name              string `json:"name"`
	Status            string `json:"status"`
	Type              string `json:"type"`
	JobNumber         int    `json:"job_number"`
	ApprovalRequestID string `json:"approval_request_id"`
}

type jobsEnvelope struct {
	Items         []jobDTO `json:"items"`
	NextPageToken string   `json:"next_page_token"`
}

func (c *Client) Project(ctx context.Context, slug domain.ProjectSlug) error {
	path := "/project/" + slug.String()
	body, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	var p projectDTO
	return decode(body, c.host+apiPrefix+path, &p)
}

func (c *Client) Pipelines(ctx context.Context, slug domain.ProjectSlug, branch string) ([]domain.PipelineRef, error) {
	path := "/project/" + slug.String() + "/pipeline"
	q := url.Values{"branch": {branch}}

	body, err := c.request(ctx, http.MethodGet, path, q)
	if err != nil {
		return nil, err
	}

	var env pipelinesEnvelope
	if err := decode(body, c.host+apiPrefix+path, &env); err != nil {
		return nil, err
	}

	out := make([]domain.PipelineRef, 0, len(env.Items))
	for _, p := range env.Items {
		out = append(out, domain.PipelineRef{ID: p.ID, Number: p.Number})
	}
	return out, nil
}

func (c *Client) PipelineWorkflows(ctx context.Context, pipelineID string) ([]domain.WorkflowRef, error) {
	path := "/pipeline/" + pipelineID + "/workflow"

	body, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var env workflowsEnvelope
	if err := decode(body, c.host+apiPrefix+path, &env); err != nil {
		return nil, err
	}

	out := make([]domain.WorkflowRef, 0, len(env.Items))
	for _, w := range env.Items {
		out = append(out, domain.WorkflowRef{ID: w.ID, Name: w.Name, Status: domain.Status(w.Status)})
	}
	return out, nil
}

func (c *Client) WorkflowJobs(ctx context.Context, workflowID string) ([]domain.Job, error) {
	path := "/workflow/" + workflowID + "/job"

	body, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var env jobsEnvelope
	if err := decode(body, c.host+apiPrefix+path, &env); err != nil {
		return nil, err
	}

	out := make([]domain.Job, 0, len(env.Items))
	for _, j := range env.Items {
		out = append(out, domain.Job{
			Name:              j.Name,
			Status:            domain.Status(j.Status),
			JobNumber:         j.JobNumber,
			ApprovalRequestID: j.ApprovalRequestID,
		})
	}
	return out, nil
}

func (c *Client) Approve(ctx context.Context, workflowID, approvalRequestID string) error {
	path := "/workflow/" + workflowID + "/approve/" + approvalRequestID
	_, err := c.request(ctx, http.MethodPost, path, nil)
	return err
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
