// Package contest defines the core domain types for live contest judging.
// It has zero external dependencies — everything here is pure Go.
package contest

import "strconv"

const (
	RoleAdmin = "admin"
	RoleJudge = "judge"
)

const (
	KeepStatusKeep      = "keep"
	KeepStatusEliminate = "eliminate"
)

type Contestant struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Name      string `json:"name"`
	Character string `json:"character"`
	ImageURL  string `json:"imageUrl"`
	CreatedAt string `json:"createdAt"`
}

// NumberValue parses the display number for ordering. Non-numeric numbers
// sort as 0.
func (c Contestant) NumberValue() int {
	n, err := strconv.Atoi(c.Number)
	if err != nil {
		return 0
	}
	return n
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// DisplayName is the name judges are shown under in results, falling back to
// the email when no name was set.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// CategoryScores holds one judge's marks for the five fixed categories.
type CategoryScores struct {
	Personality int `json:"personality"`
	Walking     int `json:"walking"`
	Attire      int `json:"attire"`
	Language    int `json:"language"`
	Overall     int `json:"overall"`
}

func (c CategoryScores) Total() int {
	return c.Personality + c.Walking + c.Attire + c.Language + c.Overall
}

// Complete reports whether every category has been scored within 1..max.
func (c CategoryScores) Complete(max int) bool {
	for _, v := range [...]int{c.Personality, c.Walking, c.Attire, c.Language, c.Overall} {
		if v < 1 || v > max {
			return false
		}
	}
	return true
}

// Score is one judge's write-once submission for one contestant.
type Score struct {
	JudgeID      string `json:"judgeId"`
	ContestantID string `json:"contestantId"`
	CategoryScores
	Total       int    `json:"total"`
	KeepStatus  string `json:"keepStatus"`
	SubmittedAt string `json:"submittedAt"`
}
