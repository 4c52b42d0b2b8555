package analyzer

import (
	"regexp"

	"resumescan/internal/taxonomy"
)

// JobSkillPatternVersion identifies the pattern families below. Bump it when
// a family changes so reports can be compared across releases.
const JobSkillPatternVersion = "2025.1"

type patternFamily struct {
	category taxonomy.Category
	patterns []*regexp.Regexp
}

// Families are applied to lower-cased text in this order; the first match of
// a skill decides its position in the extracted list.
var jobSkillFamilies = []patternFamily{
	{
		category: taxonomy.Technical,
		patterns: compileAll(
			`\b(?:python|java|javascript|typescript|golang|rust|ruby|php|swift|kotlin|scala|perl)\b`,
			`\bc\+\+|\bc#`,
			`\b(?:react|angular|vue(?:\.js)?|node(?:\.js)?|django|flask|spring boot|spring|express|laravel|rails|asp\.net)\b`,
			`\b(?:sql|mysql|postgresql|postgres|mongodb|redis|oracle|nosql|elasticsearch)\b`,
			`\b(?:aws|azure|gcp|google cloud|docker|kubernetes|terraform|jenkins|ansible|ci/cd|git|linux)\b`,
			`\b(?:machine learning|deep learning|data science|data analysis|tensorflow|pytorch|pandas|numpy|tableau|power bi|excel|statistics)\b`,
			`\b(?:html5?|css3?|restful apis?|rest apis?|graphql|microservices)\b`,
			`\b(?:salesforce|sap|quickbooks|autocad|solidworks|matlab|seo|crm|financial modeling|accounting)\b`,
		),
	},
	{
		category: taxonomy.Soft,
		patterns: compileAll(
			`\b(?:communication|interpersonal)\b`,
			`\b(?:leadership|mentoring|mentorship)\b`,
			`\b(?:teamwork|team player|collaboration|collaborative)\b`,
			`\b(?:problem[- ]solving|critical thinking|analytical)\b`,
			`\b(?:time management|organizational|attention to detail|multitasking)\b`,
			`\b(?:adaptability|flexibility|creativity|self-motivated)\b`,
		),
	},
	{
		category: taxonomy.Certifications,
		patterns: compileAll(
			`\b(?:pmp|cpa|cfa|cissp|ccna|ccnp|cism|cisa|itil|prince2|acca|cma)\b`,
			`\bcomptia(?: (?:a|security|network)\+)?`,
			`\bsix sigma(?: (?:green|black|yellow) belt)?\b`,
			`\baws certified(?: (?:solutions architect|developer|sysops administrator|cloud practitioner))?\b`,
			`\b(?:certified )?scrum master\b`,
			`\b(?:google|azure|microsoft) certified\b`,
		),
	},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// ExtractJobSkills finds the skills a job description names. lowered must
// already be lower-cased.
func ExtractJobSkills(lowered string) JobSkills {
	var skills JobSkills
	for _, family := range jobSkillFamilies {
		seen := newOrderedSet()
		for _, re := range family.patterns {
			for _, m := range re.FindAllString(lowered, -1) {
				if seen.add(m) {
					skills.add(family.category, m)
				}
			}
		}
	}
	return skills
}
