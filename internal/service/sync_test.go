package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"callnote.app/server/internal/domain"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/provider/meetingbaas"
	"callnote.app/server/internal/service"
)

var _ = Describe("SyncService", func() {
	var (
		ctx           context.Context
		meetings      *mockMeetingStore
		notifications *mockNotificationLogStore
		provider      *mockProvider
		trigger       *mockTrigger
		svc           service.SyncService
	)

	BeforeEach(func() {
		ctx = context.Background()
		meetings = newMockMeetingStore()
		notifications = newMockNotificationLogStore()
		provider = &mockProvider{configured: true}
		trigger = &mockTrigger{}

		txRunner := txRunnerFor(&mockStoreProvider{
			meetings:      meetings,
			notifications: notifications,
		})
		state := service.NewMeetingStateService(txRunner, domain.DefaultPolicy(), nil, nil)
		svc = service.NewSyncService(meetings, txRunner, state, provider, trigger, nil, nil)

		meetings.put(&model.Meeting{ID: 42, BotID: "bot-1", Status: model.MeetingStatusRecording})
	})

	strPtr := func(s string) *string { return &s }
	f64Ptr := func(f float64) *float64 { return &f }

	It("applies an inline transcript and requests enrichment", func() {
		provider.getBotFn = func(_ context.Context, botID string) (*meetingbaas.Bot, error) {
			Expect(botID).To(Equal("bot-1"))
			return &meetingbaas.Bot{
				BotID:      "bot-1",
				Status:     "completed",
				Video:      strPtr("https://cdn.example.com/v.mp4"),
				Audio:      strPtr("https://cdn.example.com/a.wav"),
				Duration:   f64Ptr(1500),
				Transcript: json.RawMessage(`[{"speaker":"Alex","start":0,"end":2,"text":"Hello team"}]`),
			}, nil
		}

		result, err := svc.Sync(ctx, 42)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.TranscriptSource).To(Equal(service.TranscriptSourceInline))
		Expect(result.Meeting.Status).To(Equal(model.MeetingStatusProcessing))
		Expect(*result.Meeting.TranscriptFull).To(Equal("Alex: Hello team"))
		Expect(*result.Meeting.AudioURL).To(Equal("https://cdn.example.com/v.mp4"))
		Expect(*result.Meeting.DurationSeconds).To(Equal(int32(1500)))
		Expect(result.EnrichmentRequested).To(BeTrue())
		Expect(trigger.requested).To(Equal([]string{"bot-1"}))

		logs := notifications.forBot("bot-1")
		Expect(logs).To(HaveLen(1))
		Expect(logs[0].Source).To(Equal(model.NotificationSourceSync))
	})

	It("downloads the transcript document when none is inline", func() {
		provider.getBotFn = func(context.Context, string) (*meetingbaas.Bot, error) {
			return &meetingbaas.Bot{BotID: "bot-1", Transcription: strPtr("https://files.example.com/t.json")}, nil
		}
		provider.fetchTranscriptFn = func(_ context.Context, url string) (json.RawMessage, error) {
			Expect(url).To(Equal("https://files.example.com/t.json"))
			return json.RawMessage(`{"result":{"utterances":[{"speaker":1,"start":0,"end":1,"text":"Hi"}]}}`), nil
		}

		result, err := svc.SyncByBotID(ctx, "bot-1")

		Expect(err).NotTo(HaveOccurred())
		Expect(result.TranscriptSource).To(Equal(service.TranscriptSourceDocument))
		Expect(*result.Meeting.TranscriptFull).To(Equal("Speaker 1: Hi"))
	})

	It("writes nothing when the transcript download fails", func() {
		provider.getBotFn = func(context.Context, string) (*meetingbaas.Bot, error) {
			return &meetingbaas.Bot{
				BotID:         "bot-1",
				MP4URL:        strPtr("https://cdn.example.com/rec.mp4"),
				Transcription: strPtr("https://files.example.com/t.json"),
			}, nil
		}
		provider.fetchTranscriptFn = func(context.Context, string) (json.RawMessage, error) {
			return nil, &meetingbaas.APIError{Op: "fetch transcript", StatusCode: http.StatusForbidden}
		}

		_, err := svc.SyncByBotID(ctx, "bot-1")

		Expect(err).To(HaveOccurred())
		Expect(meetings.applied).To(BeEmpty())
		Expect(meetings.get("bot-1").AudioURL).To(BeNil())
	})

	It("updates media without a transcript and leaves status alone", func() {
		provider.getBotFn = func(context.Context, string) (*meetingbaas.Bot, error) {
			return &meetingbaas.Bot{BotID: "bot-1", MP4URL: strPtr("https://cdn.example.com/rec.mp4")}, nil
		}

		result, err := svc.SyncByBotID(ctx, "bot-1")

		Expect(err).NotTo(HaveOccurred())
		Expect(result.TranscriptSource).To(Equal(service.TranscriptSourceNone))
		Expect(result.Meeting.Status).To(Equal(model.MeetingStatusRecording))
		Expect(*result.Meeting.AudioURL).To(Equal("https://cdn.example.com/rec.mp4"))
		Expect(trigger.requested).To(BeEmpty())
	})

	It("treats a non-http transcription value as no transcript", func() {
		provider.getBotFn = func(context.Context, string) (*meetingbaas.Bot, error) {
			return &meetingbaas.Bot{
				BotID:         "bot-1",
				MP4URL:        strPtr("https://cdn.example.com/rec.mp4"),
				Duration:      f64Ptr(900),
				Transcription: strPtr("s3://bucket/t.json"),
			}, nil
		}
		provider.fetchTranscriptFn = func(context.Context, string) (json.RawMessage, error) {
			Fail("transcript document should not be fetched")
			return nil, nil
		}

		result, err := svc.SyncByBotID(ctx, "bot-1")

		Expect(err).NotTo(HaveOccurred())
		Expect(result.TranscriptSource).To(Equal(service.TranscriptSourceNone))
		Expect(*result.Meeting.AudioURL).To(Equal("https://cdn.example.com/rec.mp4"))
		Expect(*result.Meeting.DurationSeconds).To(Equal(int32(900)))
		Expect(trigger.requested).To(BeEmpty())
	})

	It("recovers a failed meeting when the provider has a transcript", func() {
		meetings.get("bot-1").Status = model.MeetingStatusFailed
		provider.getBotFn = func(context.Context, string) (*meetingbaas.Bot, error) {
			return &meetingbaas.Bot{BotID: "bot-1", Transcript: json.RawMessage(`[{"speaker":"A","start":0,"text":"late"}]`)}, nil
		}

		result, err := svc.SyncByBotID(ctx, "bot-1")

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Meeting.Status).To(Equal(model.MeetingStatusProcessing))
	})

	It("surfaces provider errors", func() {
		provider.getBotFn = func(context.Context, string) (*meetingbaas.Bot, error) {
			return nil, &meetingbaas.APIError{Op: "get bot", StatusCode: http.StatusBadGateway, Body: "upstream"}
		}

		_, err := svc.SyncByBotID(ctx, "bot-1")

		var apiErr *meetingbaas.APIError
		Expect(errors.As(err, &apiErr)).To(BeTrue())
		Expect(apiErr.StatusCode).To(Equal(http.StatusBadGateway))
	})

	It("returns ErrMeetingNotFound for an unknown meeting", func() {
		_, err := svc.Sync(ctx, 999)
		Expect(err).To(MatchError(service.ErrMeetingNotFound))
	})

	It("returns ErrProviderNotConfigured without an API key", func() {
		provider.configured = false

		_, err := svc.SyncByBotID(ctx, "bot-1")
		Expect(err).To(MatchError(service.ErrProviderNotConfigured))
	})
})
