package analyzer

import (
	"strings"

	"resumescan/internal/taxonomy"
)

// DefaultGapSkillCap is how many taxonomy skills per category take part in
// gap analysis, counted from the top of each list.
const DefaultGapSkillCap = 5

type skillMatch struct {
	found          SkillSet
	fromJob        SkillSet
	fromIndustry   SkillSet
	gaps           *SkillSet
	jdSkillMatches int
}

// matchSkills finds which required skills occur in the résumé. The required
// universe per category is the job's skills followed by the industry's.
// Gaps are only computed when withGaps is set; gapCap limits how many
// industry skills are considered for them, and a negative cap disables the
// limit.
func matchSkills(resumeLower string, job JobSkills, industry taxonomy.SkillLists, withGaps bool, gapCap int) skillMatch {
	jobSet := job.lowerSet()

	var m skillMatch
	if withGaps {
		m.gaps = &SkillSet{}
	}

	for _, c := range taxonomy.Categories {
		universe := newOrderedSet()
		for _, s := range job.Get(c) {
			universe.add(s)
		}
		for _, s := range industry.Get(c) {
			universe.add(s)
		}

		found := newOrderedSet()
		for _, s := range universe.items {
			if !strings.Contains(resumeLower, strings.ToLower(s)) {
				continue
			}
			found.add(s)
			m.found.add(c, s)
			if _, ok := jobSet[strings.ToLower(s)]; ok {
				m.jdSkillMatches++
				m.fromJob.add(c, s)
			} else {
				m.fromIndustry.add(c, s)
			}
		}

		if !withGaps {
			continue
		}
		industrySkills := industry.Get(c)
		if gapCap >= 0 && gapCap < len(industrySkills) {
			industrySkills = industrySkills[:gapCap]
		}
		required := newOrderedSet()
		for _, s := range job.Get(c) {
			required.add(s)
		}
		for _, s := range industrySkills {
			required.add(s)
		}
		for _, s := range required.items {
			if !found.has(s) {
				m.gaps.add(c, s)
			}
		}
	}

	m.found = m.found.nonNil()
	if m.gaps != nil {
		*m.gaps = m.gaps.nonNil()
	}
	return m
}
