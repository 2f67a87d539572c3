package models

import (
	"strings"
	"time"
)

// Difficulty labels used by the judge.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// DefaultTag is assigned when a problem carries no topic tag.
const DefaultTag = "Uncategorized"

// QuestionMeta describes a problem as reported by the judge's problem-detail payload.
type QuestionMeta struct {
	Slug        string `json:"slug"`
	ProblemID   string `json:"problemId,omitempty"`
	Title       string `json:"title"`
	Difficulty  string `json:"difficulty"`
	Tag         string `json:"tag"`
	Description string `json:"description,omitempty"`
}

// CodeRecord is the most recent code submitted for a problem, awaiting a verdict.
type CodeRecord struct {
	Code       string    `json:"code"`
	Language   string    `json:"language"`
	ProblemID  string    `json:"problemId"`
	CapturedAt time.Time `json:"capturedAt"`
}

// SolutionRecord is an accepted solution waiting in the pending queue.
type SolutionRecord struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submissionId"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Difficulty   string    `json:"difficulty"`
	Tag          string    `json:"tag"`
	Code         string    `json:"code"`
	Language     string    `json:"language"`
	Runtime      string    `json:"runtime"`
	Memory       string    `json:"memory"`
	Description  string    `json:"description,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// RecentSolve is one entry of the capped recent-solves list.
type RecentSolve struct {
	SubmissionID string    `json:"submissionId"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Difficulty   string    `json:"difficulty"`
	Language     string    `json:"language"`
	Timestamp    time.Time `json:"timestamp"`
}

// DifficultyCounts tallies counted solves per difficulty.
type DifficultyCounts struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Increment bumps the counter matching the difficulty label.
func (c *DifficultyCounts) Increment(difficulty string) {
	switch strings.ToLower(difficulty) {
	case "medium":
		c.Medium++
	case "hard":
		c.Hard++
	default:
		c.Easy++
	}
}

// Total returns the number of counted solves.
func (c DifficultyCounts) Total() int {
	return c.Easy + c.Medium + c.Hard
}

// Stats aggregates solve statistics shown by the UI layer.
type Stats struct {
	Streak        int              `json:"streak"`
	LastSolveDate string           `json:"lastSolveDate,omitempty"`
	Counts        DifficultyCounts `json:"counts"`
	RecentSolves  []RecentSolve    `json:"recentSolves"`
}
