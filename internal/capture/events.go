// Package capture detects accepted submissions on the judge's pages, assembles
// them into solution records and gates them into the pending queue.
package capture

import "github.com/noah-isme/solvesync/internal/models"

// Source identifies which signal produced an acceptance event.
type Source string

const (
	SourceNetwork Source = "network"
	SourceDOM     Source = "dom"
)

// TabContext describes the browser tab an observation came from.
type TabContext struct {
	TabID string
	URL   string
}

// AcceptanceEvent is the normalized "submission accepted" signal.
// Page is only set for DOM-sourced events.
type AcceptanceEvent struct {
	Source       Source
	SubmissionID string
	ProblemID    string
	Tab          TabContext
	Runtime      string
	Memory       string
	ResponseSlug string
	Page         *PageData
}

// Outcome reports what the pipeline did with an observation.
type Outcome string

const (
	OutcomeIgnored    Outcome = "ignored"
	OutcomeDropped    Outcome = "dropped"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeRecorded   Outcome = "recorded"
	OutcomeCounted    Outcome = "counted"
)

// Result is returned for every processed observation.
type Result struct {
	Outcome Outcome
	Reason  string
	Record  *models.SolutionRecord
}
