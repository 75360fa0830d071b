package store

import (
	"context"

	"callnote.app/server/core/db/sqlc"
	"callnote.app/server/internal/model"
)

type llmEvalStore struct {
	queries *sqlc.Queries
}

func newLLMEvalStore(queries *sqlc.Queries) LLMEvalStore {
	return &llmEvalStore{queries: queries}
}

func (s *llmEvalStore) Create(ctx context.Context, eval *model.LLMEval) (*model.LLMEval, error) {
	row, err := s.queries.InsertLLMEval(ctx, sqlc.InsertLLMEvalParams{
		ID:               eval.ID,
		MeetingID:        eval.MeetingID,
		Stage:            eval.Stage,
		InputText:        eval.InputText,
		OutputJson:       eval.OutputJSON,
		Model:            eval.Model,
		Temperature:      eval.Temperature,
		PromptVersion:    eval.PromptVersion,
		LatencyMs:        intToInt32Ptr(eval.LatencyMs),
		PromptTokens:     intToInt32Ptr(eval.PromptTokens),
		CompletionTokens: intToInt32Ptr(eval.CompletionTokens),
	})
	if err != nil {
		return nil, err
	}
	return toLLMEvalModel(row), nil
}

func toLLMEvalModel(row sqlc.LlmEval) *model.LLMEval {
	return &model.LLMEval{
		ID:               row.ID,
		MeetingID:        row.MeetingID,
		Stage:            row.Stage,
		InputText:        row.InputText,
		OutputJSON:       row.OutputJson,
		Model:            row.Model,
		Temperature:      row.Temperature,
		PromptVersion:    row.PromptVersion,
		LatencyMs:        int32ToIntPtr(row.LatencyMs),
		PromptTokens:     int32ToIntPtr(row.PromptTokens),
		CompletionTokens: int32ToIntPtr(row.CompletionTokens),
		CreatedAt:        row.CreatedAt.Time,
	}
}

func intToInt32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func int32ToIntPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
