// Package intent routes a free-text visitor question to a coarse topic
// category using ordered keyword groups.
package intent

import (
	"strings"

	"github.com/hannahmacd/portfolio-core/db"
)

type Intent string

const (
	Availability Intent = "availability"
	Tools        Intent = "tools"
	ProjectRole  Intent = "project_role"
	Education    Intent = "education"
	Default      Intent = "default"
)

// rules are evaluated in declaration order; the first group with any
// substring match wins. The groups overlap (e.g. "role" appears in both the
// career-interest and project-role groups), so order is load-bearing.
var rules = []struct {
	intent   Intent
	keywords []string
}{
	// Availability / logistics
	{Availability, []string{
		"relocation", "relocate", "remote", "location", "based", "visa",
		"work authorization", "where are you", "where is she",
	}},
	// Career interest / roles being looked for
	{Availability, []string{
		"what kinds of roles", "what roles", "looking for", "interested in",
		"open to", "what positions", "what job", "what type of role",
	}},
	// Education / schooling
	{Education, []string{
		"school", "education", "degree", "berkeley", "uc berkeley",
		"university of florida", "gpa", "masters", "master's", "bachelor",
		"b.s.", "mids", "graduated", "studied",
	}},
	// Tech stack / tools
	{Tools, []string{
		"tools", "tech stack", "stack", "built with", "framework", "database",
		"model", "vector", "supabase", "next.js", "react", "openai", "embedding",
	}},
	// Role / contribution (project-specific)
	{ProjectRole, []string{
		"what did", "what was", "role", "contribution", "worked on",
		"responsible for", "involved in",
	}},
}

// Classify is a pure function of the lowercased question text.
func Classify(question string) Intent {
	s := strings.ToLower(question)

	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(s, kw) {
				return rule.intent
			}
		}
	}
	return Default
}

// DocTypeFilter returns the doc-type allow-list retrieval should pass to the
// store, or nil for unfiltered retrieval.
func DocTypeFilter(i Intent) []db.DocType {
	switch i {
	case Availability:
		return []db.DocType{db.DocTypeContact, db.DocTypeFaq}
	case Tools:
		return []db.DocType{db.DocTypeProjects, db.DocTypeExperience, db.DocTypeSkills}
	case ProjectRole:
		return []db.DocType{db.DocTypeProjects, db.DocTypeExperience}
	case Education:
		return []db.DocType{db.DocTypeAbout, db.DocTypeExperience}
	default:
		return nil
	}
}

// MaxChunks caps how much retrieved context reaches the model per intent.
func MaxChunks(i Intent) int {
	switch i {
	case Availability:
		return 3
	case Tools:
		return 5
	default:
		return 6
	}
}
