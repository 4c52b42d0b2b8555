package analyzer

// Category weights of the base score.
const (
	technicalWeight     = 2.0
	softWeight          = 1.0
	certificationWeight = 1.5
	jobSkillBonus       = 3.0
)

// baseScore weighs found skills by category.
func baseScore(found SkillSet) float64 {
	return technicalWeight*float64(len(found.Technical)) +
		softWeight*float64(len(found.Soft)) +
		certificationWeight*float64(len(found.Certifications))
}

// finalScore adds the job-description bonus to the base score: three points
// per skill the job names and a tenth of the relevance percentage.
func finalScore(found SkillSet, jdSkillMatches int, relevance float64) float64 {
	bonus := jobSkillBonus*float64(jdSkillMatches) + relevance/10
	return round1(baseScore(found) + bonus)
}
