package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/capture"
	"github.com/noah-isme/solvesync/internal/models"
)

// SolutionEvent is the message published for every recorded solution. Code is omitted.
type SolutionEvent struct {
	Outcome      string    `json:"outcome"`
	ID           string    `json:"id"`
	SubmissionID string    `json:"submissionId,omitempty"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Difficulty   string    `json:"difficulty"`
	Tag          string    `json:"tag"`
	Language     string    `json:"language"`
	Runtime      string    `json:"runtime,omitempty"`
	Memory       string    `json:"memory,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewSolutionEvent builds the published payload for record.
func NewSolutionEvent(record models.SolutionRecord, outcome capture.Outcome) SolutionEvent {
	return SolutionEvent{
		Outcome:      string(outcome),
		ID:           record.ID,
		SubmissionID: record.SubmissionID,
		Slug:         record.Slug,
		Title:        record.Title,
		Difficulty:   record.Difficulty,
		Tag:          record.Tag,
		Language:     record.Language,
		Runtime:      record.Runtime,
		Memory:       record.Memory,
		Timestamp:    record.Timestamp,
	}
}

// NATSPublisher publishes solution events on a NATS subject. A nil connection
// turns it into a no-op.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSPublisher constructs the publisher.
func NewNATSPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "solution_publisher").Logger(),
	}
}

// Publish implements capture.Publisher.
func (p *NATSPublisher) Publish(_ context.Context, record models.SolutionRecord, outcome capture.Outcome) error {
	if p == nil || p.conn == nil || p.subject == "" {
		return nil
	}

	payload, err := json.Marshal(NewSolutionEvent(record, outcome))
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return err
	}
	p.logger.Debug().Str("subject", p.subject).Str("slug", record.Slug).Msg("solution event published")
	return nil
}
