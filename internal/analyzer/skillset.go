package analyzer

import (
	"strings"

	"resumescan/internal/taxonomy"
)

// SkillSet groups skills by category. Entries keep their display casing and
// are unique ignoring case.
type SkillSet struct {
	Technical      []string `json:"technical"`
	Soft           []string `json:"soft"`
	Certifications []string `json:"certifications"`
}

// Get returns the skills for c.
func (s SkillSet) Get(c taxonomy.Category) []string {
	switch c {
	case taxonomy.Technical:
		return s.Technical
	case taxonomy.Soft:
		return s.Soft
	case taxonomy.Certifications:
		return s.Certifications
	}
	return nil
}

func (s *SkillSet) add(c taxonomy.Category, skill string) {
	switch c {
	case taxonomy.Technical:
		s.Technical = append(s.Technical, skill)
	case taxonomy.Soft:
		s.Soft = append(s.Soft, skill)
	case taxonomy.Certifications:
		s.Certifications = append(s.Certifications, skill)
	}
}

// Len is the number of skills across all categories.
func (s SkillSet) Len() int {
	return len(s.Technical) + len(s.Soft) + len(s.Certifications)
}

// All returns every skill, technical first.
func (s SkillSet) All() []string {
	out := make([]string, 0, s.Len())
	for _, c := range taxonomy.Categories {
		out = append(out, s.Get(c)...)
	}
	return out
}

// nonNil replaces nil lists with empty ones so results serialize as [].
func (s SkillSet) nonNil() SkillSet {
	for _, c := range taxonomy.Categories {
		if s.Get(c) == nil {
			switch c {
			case taxonomy.Technical:
				s.Technical = []string{}
			case taxonomy.Soft:
				s.Soft = []string{}
			case taxonomy.Certifications:
				s.Certifications = []string{}
			}
		}
	}
	return s
}

// JobSkills are the skills a job description names explicitly. They are kept
// apart from taxonomy.SkillLists, which come from the industry taxonomy.
type JobSkills struct {
	SkillSet
}

// lowerSet returns the lower-cased skills of every category.
func (j JobSkills) lowerSet() map[string]struct{} {
	set := make(map[string]struct{}, j.Len())
	for _, skill := range j.All() {
		set[strings.ToLower(skill)] = struct{}{}
	}
	return set
}

// orderedSet appends strings while dropping case-insensitive duplicates.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (o *orderedSet) add(v string) bool {
	k := strings.ToLower(v)
	if _, ok := o.seen[k]; ok {
		return false
	}
	o.seen[k] = struct{}{}
	o.items = append(o.items, v)
	return true
}

func (o *orderedSet) has(v string) bool {
	_, ok := o.seen[strings.ToLower(v)]
	return ok
}
