package types

import "time"

// Extraction is the structured requirements pulled out of one job
// description.
type Extraction struct {
	Skills       []JobSkill `json:"skills,omitempty"`
	Requirements []string   `json:"requirements,omitempty"`
	Summary      string     `json:"summary,omitempty"`
}

// Complete reports whether the extraction produced anything usable. An
// extraction with no skills cannot drive matching.
func (e Extraction) Complete() bool {
	return len(e.Skills) > 0
}

// Documents are the generated application documents for one job.
type Documents struct {
	Resume      string `json:"resume"`
	CoverLetter string `json:"cover_letter"`
}

// Failure records where and why a run failed. It is preserved on the final
// snapshot so the partial results of earlier stages stay inspectable.
type Failure struct {
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// RunState is the shared state threaded through a workflow run. Each agent
// step owns exactly one namespace: Jobs belongs to the scout, Extracted to
// the extractor, Matches to the matcher, Documents to the writer, Decision
// to the decider, and ApplicationID to the tracker. The whole struct is
// snapshotted after every completed stage.
type RunState struct {
	RunID  string `json:"run_id"`
	UserID string `json:"user_id"`

	// Inputs.
	Keywords       string `json:"keywords,omitempty"`
	Location       string `json:"location,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
	// SelectedJobID is set when the caller hands in a specific job; such a
	// run skips search and extraction and enters at the match stage.
	SelectedJobID string `json:"selected_job_id,omitempty"`

	// Stage namespaces.
	Jobs              []Job                 `json:"jobs,omitempty"`
	Extracted         map[string]Extraction `json:"extracted,omitempty"`
	Matches           []MatchResult         `json:"matches,omitempty"`
	Documents         map[string]Documents  `json:"documents,omitempty"`
	Decision          string                `json:"decision,omitempty"`
	DecisionRationale string                `json:"decision_rationale,omitempty"`
	ApplicationID     string                `json:"application_id,omitempty"`

	Failure *Failure `json:"failure,omitempty"`
}

// TargetJobID returns the job the downstream stages act on: the selected job
// when the caller provided one, otherwise the best match.
func (s *RunState) TargetJobID() string {
	if s.SelectedJobID != "" {
		return s.SelectedJobID
	}
	if len(s.Matches) > 0 {
		return s.Matches[0].JobID
	}
	return ""
}

// TargetMatch returns the match result for the target job, or nil when the
// job was never matched.
func (s *RunState) TargetMatch() *MatchResult {
	jobID := s.TargetJobID()
	for i := range s.Matches {
		if s.Matches[i].JobID == jobID {
			return &s.Matches[i]
		}
	}
	return nil
}

// JobByID returns the job carried in the state, or nil.
func (s *RunState) JobByID(jobID string) *Job {
	for i := range s.Jobs {
		if s.Jobs[i].ID == jobID {
			return &s.Jobs[i]
		}
	}
	return nil
}

// SetExtraction records the extraction for one job.
func (s *RunState) SetExtraction(jobID string, extraction Extraction) {
	if s.Extracted == nil {
		s.Extracted = make(map[string]Extraction)
	}
	s.Extracted[jobID] = extraction
}

// SetDocuments records the generated documents for one job.
func (s *RunState) SetDocuments(jobID string, docs Documents) {
	if s.Documents == nil {
		s.Documents = make(map[string]Documents)
	}
	s.Documents[jobID] = docs
}
