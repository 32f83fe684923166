package db

import "strings"

// DocType is the closed category set a knowledge document can belong to.
type DocType string

const (
	DocTypeProjects    DocType = "projects"
	DocTypeExperience  DocType = "experience"
	DocTypeFaq         DocType = "faq"
	DocTypeAbout       DocType = "about"
	DocTypeSkills      DocType = "skills"
	DocTypeContact     DocType = "contact"
	DocTypeBotIdentity DocType = "bot_identity"
	DocTypeOther       DocType = "other"
)

// PriorityByType keeps skills weighted lower than projects so that
// project chunks win ties during ranking.
var PriorityByType = map[DocType]float64{
	DocTypeProjects:    1.0,
	DocTypeExperience:  0.9,
	DocTypeFaq:         0.85,
	DocTypeAbout:       0.7,
	DocTypeSkills:      0.4,
	DocTypeContact:     0.3,
	DocTypeBotIdentity: 0.2,
	DocTypeOther:       0.5,
}

// docTypeRules is evaluated in order; the first filename keyword match wins.
var docTypeRules = []struct {
	keyword string
	docType DocType
}{
	{"project", DocTypeProjects},
	{"experience", DocTypeExperience},
	{"faq", DocTypeFaq},
	{"about", DocTypeAbout},
	{"skill", DocTypeSkills},
	{"contact", DocTypeContact},
	{"bot_identity", DocTypeBotIdentity},
	{"bot-identity", DocTypeBotIdentity},
}

// InferDocType maps a knowledge file name to its category.
func InferDocType(filename string) DocType {
	base := strings.TrimSuffix(strings.ToLower(filename), ".md")

	for _, rule := range docTypeRules {
		if strings.Contains(base, rule.keyword) {
			return rule.docType
		}
	}
	return DocTypeOther
}

// Priority returns the ranking weight for a doc type.
func Priority(t DocType) float64 {
	if p, ok := PriorityByType[t]; ok {
		return p
	}
	return PriorityByType[DocTypeOther]
}
