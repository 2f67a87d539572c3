package service

import (
	"context"

	"github.com/noah-isme/solvesync/internal/capture"
	"github.com/noah-isme/solvesync/internal/models"
	"github.com/noah-isme/solvesync/pkg/judge"
)

// QuestionClient fetches problem details from the judge.
type QuestionClient interface {
	Question(ctx context.Context, slug string) (judge.Question, error)
}

// JudgeMetadataFetcher adapts the judge client to capture.MetadataFetcher.
type JudgeMetadataFetcher struct {
	client QuestionClient
}

// NewJudgeMetadataFetcher wraps client.
func NewJudgeMetadataFetcher(client QuestionClient) *JudgeMetadataFetcher {
	return &JudgeMetadataFetcher{client: client}
}

// FetchQuestion implements capture.MetadataFetcher.
func (f *JudgeMetadataFetcher) FetchQuestion(ctx context.Context, slug string) (models.QuestionMeta, error) {
	question, err := f.client.Question(ctx, slug)
	if err != nil {
		return models.QuestionMeta{}, err
	}

	titleSlug := question.TitleSlug
	if titleSlug == "" {
		titleSlug = slug
	}
	return capture.NewQuestionMeta(question.QuestionID, titleSlug, question.Title, question.Difficulty, question.TagNames(), question.Content), nil
}
