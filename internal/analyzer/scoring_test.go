package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"resumescan/internal/taxonomy"
)

func TestEstimateExperience(t *testing.T) {
	tests := []struct {
		jd   string
		want int
	}{
		{"We want 5+ years of experience in Go", 5},
		{"Minimum of 3 years in accounting", 3},
		{"At least 7 years building systems", 7},
		{"2-4 years in a similar role", 4},
		{"3 – 6 years in sales", 6},
		{"2 years experience plus 8-10 years of leadership", 10},
		{"Senior engineer with 3 years experience", 3},
		{"0 years experience needed, senior role", 5},
		{"Senior platform engineer", 5},
		{"Mid-level analyst", 3},
		{"Junior accountant", 1},
		{"Leadership matters but the role is open", 2},
		{"Engineer wanted", 2},
	}

	for _, tt := range tests {
		t.Run(tt.jd, func(t *testing.T) {
			if got := EstimateExperience(tt.jd); got != tt.want {
				t.Errorf("EstimateExperience(%q) = %d, want %d", tt.jd, got, tt.want)
			}
		})
	}
}

func TestExperienceLabel(t *testing.T) {
	tests := map[int]string{
		1:  "Entry Level",
		2:  "Junior",
		3:  "Mid Level",
		4:  "Senior",
		5:  "Lead/Principal",
		12: "Lead/Principal",
	}
	for level, want := range tests {
		if got := ExperienceLabel(level); got != want {
			t.Errorf("ExperienceLabel(%d) = %q, want %q", level, got, want)
		}
	}
}

func TestExtractJobSkills(t *testing.T) {
	jd := strings.ToLower("We use Python, C++ and C#, React and Node.js. Strong communication and leadership. " +
		"PMP or CompTIA Security+ preferred. Python again.")
	got := ExtractJobSkills(jd)

	want := SkillSet{
		Technical:      []string{"python", "c++", "c#", "react", "node.js"},
		Soft:           []string{"communication", "leadership"},
		Certifications: []string{"pmp", "comptia security+"},
	}
	if !reflect.DeepEqual(got.SkillSet, want) {
		t.Errorf("ExtractJobSkills() = %+v, want %+v", got.SkillSet, want)
	}
}

func TestExtractJobSkillsEmpty(t *testing.T) {
	got := ExtractJobSkills("nothing relevant in this text")
	if got.Len() != 0 {
		t.Errorf("expected no skills, got %+v", got)
	}
}

func TestJobPhrases(t *testing.T) {
	got := jobPhrases("go to the big market")
	want := []string{"the big", "big market", "the big market"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("jobPhrases() = %q, want %q", got, want)
	}
}

func TestRelevance(t *testing.T) {
	jd := "Senior backend developer building cloud services with Go, Docker and Kubernetes."

	t.Run("identical text", func(t *testing.T) {
		phrases := jobPhrases(strings.ToLower(jd))
		score, matched := relevance(phrases, strings.ToLower(Normalize(jd)))
		if score != 100 {
			t.Errorf("relevance = %v, want 100", score)
		}
		if len(matched) != len(phrases) {
			t.Errorf("matched %d of %d phrases", len(matched), len(phrases))
		}
	})

	t.Run("disjoint vocabulary", func(t *testing.T) {
		phrases := jobPhrases("experienced pastry chef baking artisan breads daily")
		score, _ := relevance(phrases, "kubernetes operator writing terraform modules")
		if score != 0 {
			t.Errorf("relevance = %v, want 0", score)
		}
	})

	t.Run("no phrases", func(t *testing.T) {
		score, matched := relevance(nil, "anything")
		if score != 0 || matched != nil {
			t.Errorf("relevance = %v, %v; want 0, nil", score, matched)
		}
	})

	t.Run("punctuation between words still matches", func(t *testing.T) {
		phrases := jobPhrases("machine learning engineer")
		score, matched := relevance(phrases, "machine. learning, engineer")
		if score != 100 {
			t.Errorf("relevance = %v, want 100", score)
		}
		if len(matched) != len(phrases) {
			t.Errorf("matched %v, want all of %v", matched, phrases)
		}
	})

	t.Run("words out of order do not match", func(t *testing.T) {
		phrases := jobPhrases("machine learning engineer")
		score, _ := relevance(phrases, "learning engineer of machine")
		if score != 33.3 {
			t.Errorf("relevance = %v, want 33.3", score)
		}
	})

	t.Run("partial overlap rounds to one decimal", func(t *testing.T) {
		phrases := []string{"cloud services", "with docker", "big market"}
		score, _ := relevance(phrases, "i build cloud services with docker")
		if score != 66.7 {
			t.Errorf("relevance = %v, want 66.7", score)
		}
	})
}

func TestMatchSkillsGapsIgnoreCase(t *testing.T) {
	job := ExtractJobSkills("looking for a python developer with docker skills and strong communication.")
	industry := taxonomy.SkillLists{
		Technical: []string{"Python", "Docker", "Kubernetes", "AWS", "React", "Terraform"},
		Soft:      []string{"Teamwork"},
	}

	m := matchSkills(strings.ToLower("I write PYTHON and DOCKER daily"), job, industry, true, DefaultGapSkillCap)

	if m.gaps == nil {
		t.Fatal("expected gap analysis")
	}
	for _, c := range taxonomy.Categories {
		for _, gap := range m.gaps.Get(c) {
			for _, found := range m.found.Get(c) {
				if strings.EqualFold(gap, found) {
					t.Errorf("%s gap %q was found in the resume", c, gap)
				}
			}
		}
	}

	wantTechnical := []string{"Kubernetes", "AWS", "React"}
	if !reflect.DeepEqual(m.gaps.Technical, wantTechnical) {
		t.Errorf("technical gaps = %q, want %q (taxonomy skills past the cap are excluded)", m.gaps.Technical, wantTechnical)
	}
	if !reflect.DeepEqual(m.gaps.Soft, []string{"communication", "Teamwork"}) {
		t.Errorf("soft gaps = %q", m.gaps.Soft)
	}
	if m.jdSkillMatches != 2 {
		t.Errorf("jdSkillMatches = %d, want 2", m.jdSkillMatches)
	}
}

func TestMatchSkillsGapCap(t *testing.T) {
	industry := taxonomy.SkillLists{Technical: []string{"A1", "B2", "C3"}}

	tests := []struct {
		cap  int
		want []string
	}{
		{0, []string{}},
		{2, []string{"A1", "B2"}},
		{-1, []string{"A1", "B2", "C3"}},
	}
	for _, tt := range tests {
		m := matchSkills("", JobSkills{}, industry, true, tt.cap)
		if !reflect.DeepEqual(m.gaps.Technical, tt.want) {
			t.Errorf("cap %d: gaps = %q, want %q", tt.cap, m.gaps.Technical, tt.want)
		}
	}
}

func TestMatchSkillsWithoutGaps(t *testing.T) {
	m := matchSkills("python", JobSkills{}, taxonomy.SkillLists{Technical: []string{"Python"}}, false, DefaultGapSkillCap)
	if m.gaps != nil {
		t.Errorf("gaps = %+v, want nil", m.gaps)
	}
	if !reflect.DeepEqual(m.found.Technical, []string{"Python"}) {
		t.Errorf("found = %q", m.found.Technical)
	}
}

func TestFinalScore(t *testing.T) {
	found := SkillSet{
		Technical:      []string{"go", "docker"},
		Soft:           []string{"teamwork"},
		Certifications: []string{"pmp"},
	}
	// 2*2 + 1 + 1.5 = 6.5 base; 3*2 + 47/10 = 10.7 bonus.
	if got := finalScore(found, 2, 47); got != 17.2 {
		t.Errorf("finalScore = %v, want 17.2", got)
	}
}

func TestFinalScoreMonotonicInTechnicalSkills(t *testing.T) {
	base := SkillSet{Technical: []string{"go"}, Soft: []string{"teamwork"}}
	more := SkillSet{Technical: []string{"go", "rust"}, Soft: []string{"teamwork"}}

	for _, relevance := range []float64{0, 33.3, 100} {
		for jd := 0; jd < 3; jd++ {
			if finalScore(more, jd, relevance) <= finalScore(base, jd, relevance) {
				t.Errorf("adding a technical skill did not raise the score (jd=%d relevance=%v)", jd, relevance)
			}
		}
	}
}

func TestEstimateSalary(t *testing.T) {
	tests := []struct {
		name  string
		found SkillSet
		level int
		hits  int
		want  int64
	}{
		{"level 3 two technical", SkillSet{Technical: []string{"a", "b"}}, 3, 0, 37700},
		{"entry level", SkillSet{}, 1, 0, 20000},
		{"unknown level uses base multiplier", SkillSet{Soft: []string{"a"}}, 9, 0, 25500},
		{"high value keywords", SkillSet{Certifications: []string{"pmp"}}, 5, 2, 76000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := estimateSalary(tt.found, tt.level, tt.hits, DefaultBaseSalary); got != tt.want {
				t.Errorf("estimateSalary = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{37700, "₱37,700"},
		{999, "₱999"},
		{1250000, "₱1,250,000"},
	}
	for _, tt := range tests {
		if got := FormatAmount(DefaultCurrencySymbol, tt.amount); got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestCountHighValueKeywords(t *testing.T) {
	jd := "senior devops engineer for our kubernetes and machine learning platform"
	if got := countHighValueKeywords(jd); got != 4 {
		t.Errorf("countHighValueKeywords = %d, want 4", got)
	}
}

func TestCultureFit(t *testing.T) {
	keywords := jobCultureKeywords("we value diversity, integrity and diversity of thought")
	if !reflect.DeepEqual(keywords, []string{"diversity", "integrity"}) {
		t.Fatalf("jobCultureKeywords = %q", keywords)
	}

	// 13 traits, 3 present; both job keywords present: (3+1)/(13+1).
	got := cultureFit("team player with integrity and a diversity focus", keywords)
	if got != 29 {
		t.Errorf("cultureFit = %d, want 29", got)
	}
	if s := formatCultureFit(got); s != "29% Match" {
		t.Errorf("formatCultureFit = %q", s)
	}
}

func TestSummarize(t *testing.T) {
	salary := "₱37,700"
	culture := "42% Match"

	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name:   "no skills",
			result: Result{Score: 4, RelevanceScore: 40},
			want:   noMatchSummary,
		},
		{
			name: "strong with everything",
			result: Result{
				FoundSkills:    SkillSet{Technical: []string{"go"}},
				Score:          21.5,
				RelevanceScore: 75,
				JDSkillMatches: 1,
				GapAnalysis:    &SkillSet{Technical: []string{"A", "B", "C", "D", "E", "F", "G"}},
				SalaryEstimate: &salary,
				CultureMatch:   &culture,
			},
			want: "This resume shows a score of 21.5 with strong relevance (75.0%) to the job description. " +
				"It covers 1 skill named in the job description. " +
				"Critical technical gaps: A, B, C, D, E and 2 more. " +
				"Estimated salary range is around ₱37,700. " +
				"Culture fit score is 42% Match.",
		},
		{
			name: "limited without optional parts",
			result: Result{
				FoundSkills:    SkillSet{Soft: []string{"teamwork"}},
				Score:          1,
				RelevanceScore: 12.5,
				GapAnalysis:    &SkillSet{Soft: []string{"leadership"}},
			},
			want: "This resume shows a score of 1.0 with limited relevance (12.5%) to the job description.",
		},
		{
			name: "moderate with job skills",
			result: Result{
				FoundSkills:    SkillSet{Technical: []string{"go", "sql"}},
				Score:          12,
				RelevanceScore: 40,
				JDSkillMatches: 2,
			},
			want: "This resume shows a score of 12.0 with moderate relevance (40.0%) to the job description. " +
				"It covers 2 skills named in the job description.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarize(&tt.result); got != tt.want {
				t.Errorf("summarize() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}
