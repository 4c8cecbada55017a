// Package types defines the domain entities shared across the agent: jobs,
// user profiles, match results, applications, and the run state threaded
// through the workflow. Everything here serializes to JSON because run state
// snapshots and graph records are stored as JSONB.
package types

import (
	"strings"
	"time"
)

// JobSkill is one skill requirement extracted from a posting. Level is free
// text ("junior", "senior") and may be empty; Mandatory marks hard
// requirements that cap the match score when the user lacks them.
type JobSkill struct {
	Name      string `json:"name"`
	Level     string `json:"level,omitempty"`
	Mandatory bool   `json:"mandatory,omitempty"`
}

// Job is a job posting as stored in the graph.
type Job struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location,omitempty"`
	EmploymentType string     `json:"employment_type,omitempty"`
	Description    string     `json:"description,omitempty"`
	URL            string     `json:"url,omitempty"`
	Skills         []JobSkill `json:"skills,omitempty"`
	PostedAt       time.Time  `json:"posted_at,omitempty"`
}

// SkillNames returns the normalized names of all the job's skills.
func (j *Job) SkillNames() []string {
	names := make([]string, 0, len(j.Skills))
	for _, skill := range j.Skills {
		names = append(names, NormalizeSkillName(skill.Name))
	}
	return names
}

// MandatorySkills returns the normalized names of the job's mandatory skills.
func (j *Job) MandatorySkills() []string {
	var names []string
	for _, skill := range j.Skills {
		if skill.Mandatory {
			names = append(names, NormalizeSkillName(skill.Name))
		}
	}
	return names
}

// Skill is one skill in a user's profile.
type Skill struct {
	Name  string `json:"name"`
	Years int    `json:"years,omitempty"`
}

// skillAliases folds common spelling variants onto one canonical name so
// overlap comparison does not miss "golang" vs "go" or "k8s" vs "kubernetes".
var skillAliases = map[string]string{
	"golang":                "go",
	"k8s":                   "kubernetes",
	"postgres":              "postgresql",
	"js":                    "javascript",
	"ts":                    "typescript",
	"node":                  "node.js",
	"nodejs":                "node.js",
	"react.js":              "react",
	"reactjs":               "react",
	"ml":                    "machine learning",
	"ci/cd":                 "cicd",
	"ci cd":                 "cicd",
	"amazon web services":   "aws",
	"google cloud":          "gcp",
	"google cloud platform": "gcp",
}

// NormalizeSkillName lowercases, trims, and resolves aliases so skill names
// compare by meaning rather than spelling.
func NormalizeSkillName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.Join(strings.Fields(normalized), " ")
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// SkillSet builds a membership set of normalized skill names.
func SkillSet(skills []Skill) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, skill := range skills {
		set[NormalizeSkillName(skill.Name)] = true
	}
	return set
}
