package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"callnote.app/server/common/id"
	"callnote.app/server/common/metrics"
	"callnote.app/server/internal/domain"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/store"
)

type ApplyResult struct {
	Meeting    *model.Meeting
	Transition domain.Transition
}

// MeetingStateService applies lifecycle signals to the meeting row of a bot.
type MeetingStateService interface {
	Apply(ctx context.Context, botID string, in domain.SignalInput) (*ApplyResult, error)
	// ApplyInTx applies a signal with stores bound to a caller's transaction.
	ApplyInTx(ctx context.Context, stores StoreProvider, botID string, in domain.SignalInput) (*ApplyResult, error)
}

type meetingStateService struct {
	txRunner TxRunner
	policy   domain.Policy
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewMeetingStateService(txRunner TxRunner, policy domain.Policy, m *metrics.Metrics, logger *slog.Logger) MeetingStateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &meetingStateService{
		txRunner: txRunner,
		policy:   policy,
		metrics:  m,
		logger:   logger,
	}
}

func (s *meetingStateService) Apply(ctx context.Context, botID string, in domain.SignalInput) (*ApplyResult, error) {
	var result *ApplyResult
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		var err error
		result, err = s.ApplyInTx(ctx, stores, botID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *meetingStateService) ApplyInTx(ctx context.Context, stores StoreProvider, botID string, in domain.SignalInput) (*ApplyResult, error) {
	if botID == "" {
		return nil, ErrNoBotID
	}

	meetings := stores.Meetings()
	if err := meetings.Ensure(ctx, id.New(), botID, in.MeetingURL); err != nil {
		return nil, fmt.Errorf("ensuring meeting for bot %s: %w", botID, err)
	}

	current, err := meetings.GetByBotIDForUpdate(ctx, botID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("locking meeting for bot %s: %w", botID, err)
	}

	transition := domain.Plan(current, in, s.policy)
	if transition.IsNoop() {
		s.logger.DebugContext(ctx, "signal changes nothing",
			"signal", in.Signal,
			"status", current.Status)
		return &ApplyResult{Meeting: current, Transition: transition}, nil
	}

	updated, err := meetings.ApplyTransition(ctx, botID, transition)
	if err != nil {
		return nil, fmt.Errorf("applying %s to bot %s: %w", in.Signal, botID, err)
	}

	if transition.Ghost {
		s.metrics.RecordGhost()
		s.logger.InfoContext(ctx, "ghost session marked failed",
			"duration_seconds", *transition.DurationSeconds,
			"threshold_seconds", s.policy.GhostThresholdSeconds)
	}
	if transition.Status != nil {
		s.logger.InfoContext(ctx, "meeting status changed",
			"signal", in.Signal,
			"from", current.Status,
			"to", updated.Status)
	}

	return &ApplyResult{Meeting: updated, Transition: transition}, nil
}
