// Package taxonomy holds the industry skill taxonomy: per-industry skill lists
// grouped by category, and the keyword patterns used to detect an industry
// from a job description. A Taxonomy is immutable once loaded and safe for
// concurrent use.
package taxonomy

import (
	"regexp"
	"strings"
)

// DefaultIndustry is the guaranteed fallback industry.
const DefaultIndustry = "technology"

// SkillLists are the skills an industry expects, in taxonomy file order.
type SkillLists struct {
	Technical      []string `json:"technical"`
	Soft           []string `json:"soft"`
	Certifications []string `json:"certifications"`
}

// Get returns the list for c.
func (s SkillLists) Get(c Category) []string {
	switch c {
	case Technical:
		return s.Technical
	case Soft:
		return s.Soft
	case Certifications:
		return s.Certifications
	}
	return nil
}

func (s *SkillLists) set(c Category, skills []string) {
	switch c {
	case Technical:
		s.Technical = skills
	case Soft:
		s.Soft = skills
	case Certifications:
		s.Certifications = skills
	}
}

// Len is the total number of skills across categories.
func (s SkillLists) Len() int {
	return len(s.Technical) + len(s.Soft) + len(s.Certifications)
}

// Industry is one taxonomy entry.
type Industry struct {
	Name     string
	Skills   SkillLists
	Keywords []*regexp.Regexp
}

// Taxonomy is the ordered set of industries. Iteration order is the order in
// which industries first appear in the source document, which makes industry
// detection ties deterministic.
type Taxonomy struct {
	industries []*Industry
	byName     map[string]*Industry
}

func newTaxonomy(industries []*Industry) *Taxonomy {
	t := &Taxonomy{
		industries: industries,
		byName:     make(map[string]*Industry, len(industries)),
	}
	for _, ind := range industries {
		t.byName[strings.ToLower(ind.Name)] = ind
	}
	return t
}

// Industries returns the industries in detection order.
func (t *Taxonomy) Industries() []*Industry {
	out := make([]*Industry, len(t.industries))
	copy(out, t.industries)
	return out
}

// Names returns industry names in detection order.
func (t *Taxonomy) Names() []string {
	names := make([]string, 0, len(t.industries))
	for _, ind := range t.industries {
		names = append(names, ind.Name)
	}
	return names
}

// Lookup finds an industry by name, ignoring case.
func (t *Taxonomy) Lookup(name string) (*Industry, bool) {
	ind, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]
	return ind, ok
}

// Fallback returns the technology industry.
func (t *Taxonomy) Fallback() *Industry {
	return t.byName[DefaultIndustry]
}

// SkillsFor returns the skills for name, or the technology skills when the
// industry is unknown.
func (t *Taxonomy) SkillsFor(name string) SkillLists {
	if ind, ok := t.Lookup(name); ok {
		return ind.Skills
	}
	return t.Fallback().Skills
}

// Resolve maps a requested industry to the name whose skills will be used.
func (t *Taxonomy) Resolve(name string) string {
	if ind, ok := t.Lookup(name); ok {
		return ind.Name
	}
	return DefaultIndustry
}
