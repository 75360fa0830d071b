package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"callnote.app/server/common/id"
	"callnote.app/server/common/logger"
	"callnote.app/server/common/metrics"
	"callnote.app/server/internal/intelligence"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/store"
)

// maxEnrichmentRounds bounds re-runs when the transcript changes mid-analysis.
const maxEnrichmentRounds = 3

type EnrichmentResult struct {
	Meeting      *model.Meeting
	Intelligence *model.Intelligence
	Analyzer     string
	Version      int32
	// Skipped is set when the current transcript version is already enriched.
	Skipped bool
}

// EnrichmentService runs the intelligence analyzer over a meeting transcript
// and stores the derived records.
type EnrichmentService interface {
	Enrich(ctx context.Context, botID string) (*EnrichmentResult, error)
	// Reprocess enriches even when the current version is already enriched.
	Reprocess(ctx context.Context, botID string) (*EnrichmentResult, error)
}

type EnrichmentConfig struct {
	Timeout  time.Duration
	ClaimTTL time.Duration
}

type enrichmentService struct {
	cfg      EnrichmentConfig
	meetings store.MeetingStore
	evals    store.LLMEvalStore
	txRunner TxRunner
	analyzer intelligence.Analyzer
	metrics  *metrics.Metrics
	now      func() time.Time
	logger   *slog.Logger
}

func NewEnrichmentService(
	cfg EnrichmentConfig,
	meetings store.MeetingStore,
	evals store.LLMEvalStore,
	txRunner TxRunner,
	analyzer intelligence.Analyzer,
	m *metrics.Metrics,
	logger *slog.Logger,
) EnrichmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &enrichmentService{
		cfg:      cfg,
		meetings: meetings,
		evals:    evals,
		txRunner: txRunner,
		analyzer: analyzer,
		metrics:  m,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *enrichmentService) Enrich(ctx context.Context, botID string) (*EnrichmentResult, error) {
	return s.enrich(ctx, botID, false, 1)
}

func (s *enrichmentService) Reprocess(ctx context.Context, botID string) (*EnrichmentResult, error) {
	return s.enrich(ctx, botID, true, 1)
}

func (s *enrichmentService) enrich(ctx context.Context, botID string, force bool, round int) (*EnrichmentResult, error) {
	if botID == "" {
		return nil, ErrNoBotID
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		BotID:     logger.Ptr(botID),
		Component: "callnote.service.enrichment",
	})

	claimed, meeting, err := s.meetings.ClaimEnrichment(ctx, botID, force, s.now().Add(-s.cfg.ClaimTTL))
	if err != nil {
		return nil, fmt.Errorf("claiming enrichment for bot %s: %w", botID, err)
	}
	if !claimed {
		return s.refused(ctx, botID)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{MeetingID: &meeting.ID})
	version := meeting.TranscriptVersion
	analyzerName := s.analyzer.Name()

	input := intelligence.Input{
		MeetingID:  meeting.ID,
		Transcript: *meeting.TranscriptFull,
	}
	if meeting.DurationSeconds != nil {
		input.DurationSeconds = *meeting.DurationSeconds
	}

	start := time.Now()
	analyzeCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	res, err := s.analyzer.Analyze(analyzeCtx, input)
	cancel()
	if err != nil {
		s.fail(ctx, meeting.ID, analyzerName, start)
		return nil, fmt.Errorf("analyzing meeting %d: %w", meeting.ID, err)
	}

	intel := res.Intelligence
	assignIntelligenceIDs(&intel)

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Intelligence().Replace(ctx, meeting.ID, &intel); err != nil {
			return fmt.Errorf("replacing intelligence: %w", err)
		}
		if err := stores.Meetings().CompleteEnrichment(ctx, meeting.ID, &intel, version); err != nil {
			return fmt.Errorf("completing enrichment: %w", err)
		}
		return nil
	})
	if err != nil {
		s.fail(ctx, meeting.ID, analyzerName, start)
		return nil, err
	}

	elapsed := time.Since(start)
	s.metrics.RecordEnrichment(analyzerName, metrics.OutcomeSuccess, elapsed.Seconds())
	s.recordEval(ctx, res.Eval)

	s.logger.InfoContext(ctx, "meeting enriched",
		"analyzer", analyzerName,
		"transcript_version", version,
		"segments", len(intel.Segments),
		"action_items", len(intel.ActionItems),
		"duration_ms", elapsed.Milliseconds())

	updated, err := s.meetings.GetByID(ctx, meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading meeting %d: %w", meeting.ID, err)
	}

	if updated.TranscriptVersion > version && round < maxEnrichmentRounds {
		s.logger.InfoContext(ctx, "transcript changed during enrichment, running again",
			"enriched_version", version,
			"transcript_version", updated.TranscriptVersion)
		return s.enrich(ctx, botID, false, round+1)
	}

	return &EnrichmentResult{
		Meeting:      updated,
		Intelligence: &intel,
		Analyzer:     analyzerName,
		Version:      version,
	}, nil
}

// refused explains why a claim was not granted.
func (s *enrichmentService) refused(ctx context.Context, botID string) (*EnrichmentResult, error) {
	meeting, err := s.meetings.GetByBotID(ctx, botID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("loading meeting for bot %s: %w", botID, err)
	}

	switch {
	case !meeting.HasTranscript():
		return nil, ErrNoTranscript
	case meeting.EnrichmentState == model.EnrichmentStateRequested:
		s.logger.InfoContext(ctx, "enrichment already in flight")
		return nil, ErrEnrichmentInFlight
	default:
		s.logger.DebugContext(ctx, "transcript already enriched",
			"enriched_version", meeting.EnrichedVersion)
		s.metrics.RecordEnrichment(s.analyzer.Name(), metrics.OutcomeSkipped, 0)
		return &EnrichmentResult{
			Meeting:  meeting,
			Analyzer: s.analyzer.Name(),
			Version:  meeting.EnrichedVersion,
			Skipped:  true,
		}, nil
	}
}

func (s *enrichmentService) fail(ctx context.Context, meetingID int64, analyzerName string, start time.Time) {
	s.metrics.RecordEnrichment(analyzerName, metrics.OutcomeFailure, time.Since(start).Seconds())
	// The run context may already be past its deadline.
	if err := s.meetings.FailEnrichment(context.WithoutCancel(ctx), meetingID); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark enrichment failed", "error", err)
	}
}

func (s *enrichmentService) recordEval(ctx context.Context, eval *model.LLMEval) {
	if eval == nil {
		return
	}
	if eval.Model != nil && eval.PromptTokens != nil && eval.CompletionTokens != nil {
		s.metrics.RecordLLMTokens(*eval.Model, *eval.PromptTokens, *eval.CompletionTokens)
	}
	eval.ID = id.New()
	if _, err := s.evals.Create(ctx, eval); err != nil {
		s.logger.WarnContext(ctx, "failed to record llm eval", "error", err)
	}
}

func assignIntelligenceIDs(intel *model.Intelligence) {
	for i := range intel.Segments {
		intel.Segments[i].ID = id.New()
	}
	for i := range intel.ActionItems {
		intel.ActionItems[i].ID = id.New()
	}
	for i := range intel.SpeakerStats {
		intel.SpeakerStats[i].ID = id.New()
	}
}
