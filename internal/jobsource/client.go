// Package jobsource implements the job-board client the Scout agent consumes.
// It talks to a JSON search API and normalizes postings into graph job
// entities.
package jobsource

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/types"
)

// Client is a job-board API client.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the job board at baseURL. The timeout bounds
// every search call; timeouts surface as transient errors subject to the
// workflow retry policy.
func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: httpClient}
}

// searchResponse mirrors the job board's search payload.
type searchResponse struct {
	Jobs []jobPayload `json:"jobs"`
}

type jobPayload struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	EmploymentType string   `json:"employment_type"`
	Description    string   `json:"description"`
	URL            string   `json:"url"`
	Skills         []string `json:"skills"`
	PostedAt       string   `json:"posted_at"`
}

// Search queries the job board. Rate-limited (429) and server-side (5xx)
// responses are transient; the caller's retry policy handles them.
func (c *Client) Search(ctx context.Context, keywords, location, employmentType string, maxResults int) ([]types.Job, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	var payload searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        keywords,
			"location": location,
			"type":     employmentType,
			"limit":    fmt.Sprintf("%d", maxResults),
		}).
		SetResult(&payload).
		Get("/v1/jobs/search")
	if err != nil {
		return nil, errs.Transient("job search", err)
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return nil, errs.Transient("job search", fmt.Errorf("job board rate limited the request"))
	case resp.StatusCode() >= 500:
		return nil, errs.Transient("job search", fmt.Errorf("job board unavailable: status %d", resp.StatusCode()))
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("job search failed: status %d", resp.StatusCode())
	}

	jobs := make([]types.Job, 0, len(payload.Jobs))
	for _, p := range payload.Jobs {
		jobs = append(jobs, p.toJob())
	}
	return jobs, nil
}

func (p jobPayload) toJob() types.Job {
	job := types.Job{
		ID:             p.ID,
		Title:          p.Title,
		Company:        p.Company,
		Location:       p.Location,
		EmploymentType: p.EmploymentType,
		Description:    CleanDescription(p.Description),
		URL:            p.URL,
	}
	for _, name := range p.Skills {
		job.Skills = append(job.Skills, types.JobSkill{Name: types.NormalizeSkillName(name)})
	}
	if p.PostedAt != "" {
		if posted, err := time.Parse(time.RFC3339, p.PostedAt); err == nil {
			job.PostedAt = posted
		}
	}
	return job
}
