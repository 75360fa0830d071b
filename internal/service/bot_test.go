package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"callnote.app/server/internal/model"
	"callnote.app/server/internal/provider/meetingbaas"
	"callnote.app/server/internal/service"
)

var _ = Describe("BotService", func() {
	var (
		ctx      context.Context
		meetings *mockMeetingStore
		provider *mockProvider
		svc      service.BotService
	)

	BeforeEach(func() {
		ctx = context.Background()
		meetings = newMockMeetingStore()
		provider = &mockProvider{configured: true}
		svc = service.NewBotService(meetings, provider, service.BotDefaults{
			Name:         "Callnote Notetaker",
			EntryMessage: "Hi!",
			WebhookURL:   "https://callnote.example.com/webhooks/meetingbaas",
		}, nil)
	})

	It("spawns a bot and records a scheduled meeting", func() {
		title := "Design review"

		result, err := svc.Spawn(ctx, service.SpawnBotParams{
			MeetingURL: "https://meet.google.com/abc-defg-hij",
			Title:      &title,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(result.BotID).To(Equal("bot-new"))
		Expect(result.Meeting.Status).To(Equal(model.MeetingStatusScheduled))
		Expect(*result.Meeting.Title).To(Equal("Design review"))

		Expect(provider.createBotRequests).To(HaveLen(1))
		req := provider.createBotRequests[0]
		Expect(req.BotName).To(Equal("Callnote Notetaker"))
		Expect(req.DeduplicationID).To(Equal("https://meet.google.com/abc-defg-hij"))
		Expect(req.RecordingMode).To(Equal("speaker_view"))
		Expect(req.AutomaticLeave).To(Equal(meetingbaas.DefaultAutomaticLeave()))
		Expect(req.TranscriptionEnabled).To(BeTrue())
		Expect(req.WebhookURL).To(Equal("https://callnote.example.com/webhooks/meetingbaas"))
	})

	It("reuses the meeting when the provider returns an existing bot", func() {
		meetings.put(&model.Meeting{ID: 11, BotID: "bot-new", Status: model.MeetingStatusRecording})

		result, err := svc.Spawn(ctx, service.SpawnBotParams{MeetingURL: "https://zoom.us/j/123"})

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Meeting.ID).To(Equal(int64(11)))
		Expect(result.Meeting.Status).To(Equal(model.MeetingStatusRecording))
	})

	It("honours a custom bot name", func() {
		name := "Scribe"
		_, err := svc.Spawn(ctx, service.SpawnBotParams{MeetingURL: "https://zoom.us/j/123", BotName: &name})

		Expect(err).NotTo(HaveOccurred())
		Expect(provider.createBotRequests[0].BotName).To(Equal("Scribe"))
	})

	It("rejects a missing or non-http meeting url", func() {
		_, err := svc.Spawn(ctx, service.SpawnBotParams{})
		Expect(err).To(MatchError(service.ErrInvalidInput))

		_, err = svc.Spawn(ctx, service.SpawnBotParams{MeetingURL: "ftp://example.com/room"})
		Expect(err).To(MatchError(service.ErrInvalidInput))
		Expect(provider.createBotRequests).To(BeEmpty())
	})

	It("requires a configured provider", func() {
		provider.configured = false

		_, err := svc.Spawn(ctx, service.SpawnBotParams{MeetingURL: "https://zoom.us/j/123"})
		Expect(err).To(MatchError(service.ErrProviderNotConfigured))

		_, err = svc.List(ctx)
		Expect(err).To(MatchError(service.ErrProviderNotConfigured))
	})
})
