package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"callnote.app/server/common/id"
	"callnote.app/server/common/logger"
	"callnote.app/server/common/metrics"
	"callnote.app/server/internal/domain"
	"callnote.app/server/internal/mapper"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/transcript"
)

// Notification is one provider push as received, before mapping.
type Notification struct {
	ReceivedAt time.Time
	// Provider selects the mapper; empty means MeetingBaas.
	Provider string
	Source   model.NotificationSource
	Kind     string
	Data     json.RawMessage
}

type DispatchResult struct {
	Meeting             *model.Meeting
	NotificationLog     *model.NotificationLog
	Kind                mapper.CanonicalKind
	Ignored             bool
	Duplicate           bool
	CalendarScheduled   bool
	EnrichmentRequested bool
}

// Dispatcher routes provider notifications to the state machine or the calendar scheduler.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) (*DispatchResult, error)
}

type DispatcherConfig struct {
	// DedupeWindow buckets receive times so identical payloads inside one
	// window share a signature. Zero disables bucketing.
	DedupeWindow time.Duration
}

type dispatcher struct {
	cfg       DispatcherConfig
	mappers   *mapper.MapperRegistry
	txRunner  TxRunner
	state     MeetingStateService
	trigger   EnrichmentTrigger
	scheduler CalendarScheduler
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewDispatcher(
	cfg DispatcherConfig,
	mappers *mapper.MapperRegistry,
	txRunner TxRunner,
	state MeetingStateService,
	trigger EnrichmentTrigger,
	scheduler CalendarScheduler,
	m *metrics.Metrics,
	logger *slog.Logger,
) Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &dispatcher{
		cfg:       cfg,
		mappers:   mappers,
		txRunner:  txRunner,
		state:     state,
		trigger:   trigger,
		scheduler: scheduler,
		metrics:   m,
		logger:    logger,
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, n Notification) (*DispatchResult, error) {
	provider := n.Provider
	if provider == "" {
		provider = mapper.ProviderMeetingBaas
	}
	if n.Source == "" {
		n.Source = model.NotificationSourceWebhook
	}
	if n.ReceivedAt.IsZero() {
		n.ReceivedAt = time.Now()
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		NotificationKind: logger.Ptr(n.Kind),
		Component:        "callnote.service.dispatcher",
	})

	m, err := d.mappers.Get(provider)
	if err != nil {
		return nil, err
	}

	kind, err := m.Map(n.Kind)
	if err != nil {
		if errors.Is(err, mapper.ErrUnknownKind) {
			d.logger.InfoContext(ctx, "ignoring unknown notification kind")
			d.metrics.RecordNotification(n.Kind, metrics.OutcomeIgnored)
			return &DispatchResult{Ignored: true}, nil
		}
		return nil, err
	}

	payload, err := m.Decode(n.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}

	if kind == mapper.KindCalendarEvent {
		return d.dispatchCalendar(ctx, kind, payload)
	}

	signal, ok := kind.Signal()
	if !ok {
		d.metrics.RecordNotification(string(kind), metrics.OutcomeIgnored)
		return &DispatchResult{Kind: kind, Ignored: true}, nil
	}
	if payload.BotID == "" {
		return nil, fmt.Errorf("%w: %s without bot_id", ErrMalformedNotification, n.Kind)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{BotID: logger.Ptr(payload.BotID)})

	input, err := signalInput(signal, payload, n.ReceivedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}
	if signal == domain.SignalError && payload.ErrorMessage != "" {
		d.logger.WarnContext(ctx, "bot reported error", "provider_error", payload.ErrorMessage)
	}

	logPayload := n.Data
	if !json.Valid(logPayload) {
		logPayload = json.RawMessage(`{}`)
	}
	entry := &model.NotificationLog{
		ID:        id.New(),
		BotID:     payload.BotID,
		Source:    n.Source,
		Kind:      n.Kind,
		Payload:   logPayload,
		DedupeKey: notificationSignature(n.Source, n.Kind, payload.BotID, n.Data, bucketOf(n.ReceivedAt, d.cfg.DedupeWindow)),
	}

	result := &DispatchResult{Kind: kind}
	err = d.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		logged, created, err := stores.NotificationLogs().CreateOrGet(ctx, entry)
		if err != nil {
			return fmt.Errorf("recording notification: %w", err)
		}
		result.NotificationLog = logged
		if !created {
			result.Duplicate = true
			return nil
		}

		applied, err := d.state.ApplyInTx(ctx, stores, payload.BotID, input)
		if err != nil {
			return err
		}
		result.Meeting = applied.Meeting
		result.EnrichmentRequested = applied.Transition.EnrichmentEligible
		return nil
	})
	if err != nil {
		d.metrics.RecordNotification(string(kind), metrics.OutcomeFailure)
		return nil, err
	}

	if result.Duplicate {
		d.logger.InfoContext(ctx, "duplicate notification skipped", "dedupe_key", entry.DedupeKey)
		d.metrics.RecordNotification(string(kind), metrics.OutcomeDuplicate)
		return result, nil
	}
	d.metrics.RecordNotification(string(kind), metrics.OutcomeProcessed)

	if result.EnrichmentRequested {
		ctx = logger.WithLogFields(ctx, logger.LogFields{MeetingID: &result.Meeting.ID})
		if err := d.trigger.Request(ctx, payload.BotID); err != nil {
			// The backstop picks the meeting up on its next pass.
			d.logger.ErrorContext(ctx, "failed to request enrichment", "error", err)
			result.EnrichmentRequested = false
		}
	}

	return result, nil
}

func (d *dispatcher) dispatchCalendar(ctx context.Context, kind mapper.CanonicalKind, payload mapper.Payload) (*DispatchResult, error) {
	if payload.CalendarID == "" {
		d.logger.InfoContext(ctx, "calendar notification without calendar_id")
		d.metrics.RecordNotification(string(kind), metrics.OutcomeIgnored)
		return &DispatchResult{Kind: kind, Ignored: true}, nil
	}

	if err := d.scheduler.Schedule(ctx, payload.CalendarID, payload.Event); err != nil {
		d.metrics.RecordNotification(string(kind), metrics.OutcomeFailure)
		return nil, fmt.Errorf("scheduling calendar %s: %w", payload.CalendarID, err)
	}

	d.metrics.RecordNotification(string(kind), metrics.OutcomeProcessed)
	return &DispatchResult{Kind: kind, CalendarScheduled: true}, nil
}

// signalInput converts a decoded payload into state machine input.
func signalInput(signal domain.Signal, payload mapper.Payload, at time.Time) (domain.SignalInput, error) {
	segments, hasTranscript, err := transcript.Normalize(payload.Transcript)
	if err != nil {
		return domain.SignalInput{}, err
	}
	return domain.SignalInput{
		At:              at,
		Signal:          signal,
		MeetingURL:      payload.MeetingURL,
		MediaURL:        payload.MediaURL,
		DurationSeconds: payload.DurationSeconds,
		Segments:        segments,
		HasTranscript:   hasTranscript,
	}, nil
}

func bucketOf(at time.Time, window time.Duration) int64 {
	if window <= 0 {
		return 0
	}
	return at.Truncate(window).Unix()
}

// notificationSignature hashes what makes a notification distinct. Payload
// whitespace does not count.
func notificationSignature(source model.NotificationSource, kind, botID string, data json.RawMessage, bucket int64) string {
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		compact.Reset()
		compact.Write(data)
	}

	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(botID))
	h.Write([]byte{0})
	h.Write(compact.Bytes())
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(bucket, 10)))
	return hex.EncodeToString(h.Sum(nil))
}
