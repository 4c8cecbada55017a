package types

import "strings"

// Preferences are the user's standing search preferences. They filter what
// the scout keeps, not what the board returns.
type Preferences struct {
	Locations         []string `json:"locations,omitempty"`
	EmploymentTypes   []string `json:"employment_types,omitempty"`
	ExcludedCompanies []string `json:"excluded_companies,omitempty"`
	MinSalary         int      `json:"min_salary,omitempty"`
}

// UserProfile is the candidate as stored in the graph.
type UserProfile struct {
	ID              string      `json:"id"`
	Name            string      `json:"name,omitempty"`
	Email           string      `json:"email,omitempty"`
	ExperienceYears int         `json:"experience_years,omitempty"`
	Skills          []Skill     `json:"skills,omitempty"`
	Preferences     Preferences `json:"preferences,omitempty"`
}

// ExcludesCompany reports whether the user has excluded the company.
// Comparison is case-insensitive.
func (p *UserProfile) ExcludesCompany(company string) bool {
	for _, excluded := range p.Preferences.ExcludedCompanies {
		if strings.EqualFold(excluded, company) {
			return true
		}
	}
	return false
}

// AcceptsEmploymentType reports whether the job's employment type passes the
// user's preferences. An empty preference list or an unlabeled job accepts
// everything.
func (p *UserProfile) AcceptsEmploymentType(employmentType string) bool {
	if len(p.Preferences.EmploymentTypes) == 0 || employmentType == "" {
		return true
	}
	for _, accepted := range p.Preferences.EmploymentTypes {
		if strings.EqualFold(accepted, employmentType) {
			return true
		}
	}
	return false
}
