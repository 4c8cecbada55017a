package docgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-agent/internal/errs"
	"github.com/jonathan/job-agent/internal/llm"
	"github.com/jonathan/job-agent/internal/types"
)

// promptClient answers based on the prompt's role.
type promptClient struct {
	resume      string
	coverLetter string
	err         error
}

func (c *promptClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	if strings.Contains(prompt, "resume writer") {
		return c.resume, nil
	}
	return c.coverLetter, nil
}

func (c *promptClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return "", errors.New("not used")
}

func (c *promptClient) Close() error { return nil }

func testInputs() (*types.UserProfile, *types.Job) {
	profile := &types.UserProfile{
		ID:              "user-1",
		Name:            "Dana",
		Email:           "dana@example.com",
		ExperienceYears: 6,
		Skills:          []types.Skill{{Name: "go"}, {Name: "postgresql"}},
	}
	job := &types.Job{ID: "job-1", Title: "Backend Engineer", Company: "Acme", Description: "Build Go services"}
	return profile, job
}

func TestGenerate_ProducesBothDocuments(t *testing.T) {
	client := &promptClient{resume: "  Dana's resume  ", coverLetter: "Dear Acme,"}
	profile, job := testInputs()

	docs, err := New(client).Generate(context.Background(), profile, job)
	require.NoError(t, err)

	assert.Equal(t, "Dana's resume", docs.Resume, "output is trimmed")
	assert.Equal(t, "Dear Acme,", docs.CoverLetter)
}

func TestGenerate_ModelErrorIsTransient(t *testing.T) {
	client := &promptClient{err: errors.New("model overloaded")}
	profile, job := testInputs()

	_, err := New(client).Generate(context.Background(), profile, job)
	assert.True(t, errs.IsTransient(err))
}

func TestGenerate_EmptyOutputIncomplete(t *testing.T) {
	client := &promptClient{resume: "resume text", coverLetter: "   "}
	profile, job := testInputs()

	_, err := New(client).Generate(context.Background(), profile, job)
	assert.True(t, errs.IsIncomplete(err), "blank documents fail schema validation")
}

func TestDescribeCandidate(t *testing.T) {
	profile, _ := testInputs()
	described := describeCandidate(profile)

	assert.Contains(t, described, "Dana")
	assert.Contains(t, described, "6 years")
	assert.Contains(t, described, "go, postgresql")
}
