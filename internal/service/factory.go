package service

import (
	"log/slog"

	"callnote.app/server/common/metrics"
	"callnote.app/server/core/config"
	"callnote.app/server/internal/domain"
	"callnote.app/server/internal/intelligence"
	"callnote.app/server/internal/mapper"
	"callnote.app/server/internal/queue"
	"callnote.app/server/internal/store"
)

type Services struct {
	cfg      config.Config
	stores   *store.Stores
	txRunner TxRunner
	producer queue.Producer
	provider RecordingProvider
	analyzer intelligence.Analyzer
	mappers  *mapper.MapperRegistry
	metrics  *metrics.Metrics

	trigger  EnrichmentTrigger
	detached *DetachedTrigger
}

func NewServices(
	cfg config.Config,
	stores *store.Stores,
	txRunner TxRunner,
	producer queue.Producer,
	provider RecordingProvider,
	analyzer intelligence.Analyzer,
	m *metrics.Metrics,
) *Services {
	s := &Services{
		cfg:      cfg,
		stores:   stores,
		txRunner: txRunner,
		producer: producer,
		provider: provider,
		analyzer: analyzer,
		mappers:  mapper.NewMapperRegistry(),
		metrics:  m,
	}

	if cfg.Enrichment.Mode == config.EnrichmentModeInline {
		s.detached = NewDetachedTrigger(s.Enrichment(), cfg.Enrichment.Timeout, slog.Default())
		s.trigger = s.detached
	} else {
		s.trigger = NewQueueTrigger(producer)
	}
	return s
}

// Close waits for in-process enrichments started by the inline trigger.
func (s *Services) Close() {
	if s.detached != nil {
		s.detached.Close()
	}
}

func (s *Services) Policy() domain.Policy {
	return domain.Policy{GhostThresholdSeconds: s.cfg.Lifecycle.GhostThresholdSeconds}
}

func (s *Services) MeetingState() MeetingStateService {
	return NewMeetingStateService(s.txRunner, s.Policy(), s.metrics, slog.Default())
}

func (s *Services) Dispatcher() Dispatcher {
	return NewDispatcher(
		DispatcherConfig{DedupeWindow: s.cfg.Lifecycle.DedupeWindow},
		s.mappers,
		s.txRunner,
		s.MeetingState(),
		s.trigger,
		s.Calendar(),
		s.metrics,
		slog.Default(),
	)
}

func (s *Services) Enrichment() EnrichmentService {
	return NewEnrichmentService(
		EnrichmentConfig{
			Timeout:  s.cfg.Enrichment.Timeout,
			ClaimTTL: s.cfg.Lifecycle.EnrichmentClaimTTL,
		},
		s.stores.Meetings(),
		s.stores.LLMEvals(),
		s.txRunner,
		s.analyzer,
		s.metrics,
		slog.Default(),
	)
}

func (s *Services) Sync() SyncService {
	return NewSyncService(
		s.stores.Meetings(),
		s.txRunner,
		s.MeetingState(),
		s.provider,
		s.trigger,
		s.metrics,
		slog.Default(),
	)
}

func (s *Services) Calendar() CalendarScheduler {
	return NewCalendarScheduler(s.provider, s.producer, s.botDefaults(), slog.Default())
}

func (s *Services) Meetings() MeetingService {
	return NewMeetingService(s.stores.Meetings(), s.stores.Intelligence(), slog.Default())
}

func (s *Services) Bots() BotService {
	return NewBotService(s.stores.Meetings(), s.provider, s.botDefaults(), slog.Default())
}

func (s *Services) botDefaults() BotDefaults {
	return BotDefaults{
		Name:         s.cfg.Recording.BotName,
		EntryMessage: s.cfg.Recording.EntryMessage,
		WebhookURL:   s.cfg.WebhookURL(),
	}
}
