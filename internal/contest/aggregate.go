package contest

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// CategoryAverages mirrors CategoryScores with per-category means, rounded to
// two decimals.
type CategoryAverages struct {
	Personality float64 `json:"personality"`
	Walking     float64 `json:"walking"`
	Attire      float64 `json:"attire"`
	Language    float64 `json:"language"`
	Overall     float64 `json:"overall"`
}

// JudgeScore is one judge's line in a contestant's breakdown.
type JudgeScore struct {
	CategoryScores
	Total      int    `json:"total"`
	KeepStatus string `json:"keepStatus"`
}

// Result is one contestant's aggregated standing.
type Result struct {
	Contestant
	CategorySums     CategoryScores        `json:"categorySums"`
	CategoryAverages CategoryAverages      `json:"categoryAverages"`
	TotalSum         int                   `json:"totalSum"`
	AverageTotal     float64               `json:"averageTotal"`
	JudgeScores      map[string]JudgeScore `json:"judgeScores"`
	SubmittedJudges  int                   `json:"submittedJudgesCount"`
	KeepCount        int                   `json:"keepCount"`
	EliminateCount   int                   `json:"eliminateCount"`
}

// Snapshot is the persisted output of one aggregation run, overwriting any
// previous snapshot.
type Snapshot struct {
	Results     []Result  `json:"results"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Aggregate reduces all submitted scores into per-contestant standings,
// ranked descending by average total. Only scores from users with the judge
// role count. Ties break by ascending contestant number, then by the raw
// number string, so repeated runs over the same data are identical.
//
// Judge breakdown lines are keyed by display name. Two judges sharing a name
// get the email appended, so one line can never overwrite another.
//
// A contestant nobody scored keeps zero sums and averages with
// SubmittedJudges = 0.
func Aggregate(contestants []Contestant, judges []User, scores []Score) []Result {
	nameCount := make(map[string]int, len(judges))
	for _, j := range judges {
		if j.Role == RoleJudge {
			nameCount[j.DisplayName()]++
		}
	}
	judgeNames := make(map[string]string, len(judges))
	for _, j := range judges {
		if j.Role != RoleJudge {
			continue
		}
		name := j.DisplayName()
		if nameCount[name] > 1 {
			name = fmt.Sprintf("%s (%s)", name, j.Email)
		}
		judgeNames[j.ID] = name
	}

	byContestant := make(map[string]*Result, len(contestants))
	results := make([]Result, 0, len(contestants))
	for _, c := range contestants {
		results = append(results, Result{
			Contestant:  c,
			JudgeScores: make(map[string]JudgeScore),
		})
	}
	for i := range results {
		byContestant[results[i].ID] = &results[i]
	}

	for _, sc := range scores {
		name, isJudge := judgeNames[sc.JudgeID]
		r, known := byContestant[sc.ContestantID]
		if !isJudge || !known {
			continue
		}

		r.CategorySums.Personality += sc.Personality
		r.CategorySums.Walking += sc.Walking
		r.CategorySums.Attire += sc.Attire
		r.CategorySums.Language += sc.Language
		r.CategorySums.Overall += sc.Overall
		r.TotalSum += sc.Total
		r.SubmittedJudges++

		r.JudgeScores[name] = JudgeScore{
			CategoryScores: sc.CategoryScores,
			Total:          sc.Total,
			KeepStatus:     sc.KeepStatus,
		}

		switch sc.KeepStatus {
		case KeepStatusKeep:
			r.KeepCount++
		case KeepStatusEliminate:
			r.EliminateCount++
		}
	}

	for i := range results {
		r := &results[i]
		if r.SubmittedJudges == 0 {
			continue
		}
		n := r.SubmittedJudges
		r.AverageTotal = round2(float64(r.TotalSum) / float64(n))
		r.CategoryAverages = CategoryAverages{
			Personality: round2(float64(r.CategorySums.Personality) / float64(n)),
			Walking:     round2(float64(r.CategorySums.Walking) / float64(n)),
			Attire:      round2(float64(r.CategorySums.Attire) / float64(n)),
			Language:    round2(float64(r.CategorySums.Language) / float64(n)),
			Overall:     round2(float64(r.CategorySums.Overall) / float64(n)),
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].AverageTotal != results[j].AverageTotal {
			return results[i].AverageTotal > results[j].AverageTotal
		}
		if results[i].NumberValue() != results[j].NumberValue() {
			return results[i].NumberValue() < results[j].NumberValue()
		}
		return results[i].Number < results[j].Number
	})

	return results
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
