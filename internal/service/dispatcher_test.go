package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"callnote.app/server/internal/domain"
	"callnote.app/server/internal/mapper"
	"callnote.app/server/internal/model"
	"callnote.app/server/internal/service"
)

var _ = Describe("Dispatcher", func() {
	var (
		ctx           context.Context
		meetings      *mockMeetingStore
		notifications *mockNotificationLogStore
		txRunner      *mockTxRunner
		trigger       *mockTrigger
		scheduler     *mockScheduler
		dispatcher    service.Dispatcher
		receivedAt    time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		meetings = newMockMeetingStore()
		notifications = newMockNotificationLogStore()
		txRunner = txRunnerFor(&mockStoreProvider{
			meetings:      meetings,
			notifications: notifications,
		})
		trigger = &mockTrigger{}
		scheduler = &mockScheduler{}
		receivedAt = time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)

		state := service.NewMeetingStateService(txRunner, domain.DefaultPolicy(), nil, nil)
		dispatcher = service.NewDispatcher(
			service.DispatcherConfig{DedupeWindow: time.Hour},
			mapper.NewMapperRegistry(),
			txRunner,
			state,
			trigger,
			scheduler,
			nil,
			nil,
		)
	})

	notify := func(kind, data string) service.Notification {
		return service.Notification{
			Kind:       kind,
			Data:       json.RawMessage(data),
			ReceivedAt: receivedAt,
		}
	}

	It("ignores unknown kinds without touching storage", func() {
		result, err := dispatcher.Dispatch(ctx, notify("bot.status_change", `{"bot_id":"bot-1"}`))

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ignored).To(BeTrue())
		Expect(txRunner.calls).To(BeZero())
		Expect(meetings.get("bot-1")).To(BeNil())
	})

	It("creates the meeting on first contact and records the start time", func() {
		result, err := dispatcher.Dispatch(ctx, notify("bot.in_call", `{"bot_id":"bot-1"}`))

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Kind).To(Equal(mapper.KindInCall))
		Expect(result.Meeting.Status).To(Equal(model.MeetingStatusRecording))
		Expect(result.Meeting.StartedAt).NotTo(BeNil())
		Expect(*result.Meeting.StartedAt).To(Equal(receivedAt))
		Expect(result.NotificationLog.Source).To(Equal(model.NotificationSourceWebhook))
	})

	It("stores the meeting url from a joining notification", func() {
		_, err := dispatcher.Dispatch(ctx, notify("bot.joining", `{"bot_id":"bot-1","meeting_url":"https://meet.google.com/abc"}`))

		Expect(err).NotTo(HaveOccurred())
		row := meetings.get("bot-1")
		Expect(row.MeetingURL).NotTo(BeNil())
		Expect(*row.MeetingURL).To(Equal("https://meet.google.com/abc"))
		Expect(row.Status).To(Equal(model.MeetingStatusScheduled))
	})

	It("short-circuits a repeated notification", func() {
		n := notify("bot.recording", `{"bot_id":"bot-1"}`)

		first, err := dispatcher.Dispatch(ctx, n)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Duplicate).To(BeFalse())

		second, err := dispatcher.Dispatch(ctx, notify("bot.recording", `{ "bot_id": "bot-1" }`))
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Duplicate).To(BeTrue())
		Expect(second.Meeting).To(BeNil())
		Expect(meetings.applied).To(HaveLen(1))
	})

	It("treats the same payload in a later window as new", func() {
		_, err := dispatcher.Dispatch(ctx, notify("bot.recording", `{"bot_id":"bot-1"}`))
		Expect(err).NotTo(HaveOccurred())

		later := notify("bot.recording", `{"bot_id":"bot-1"}`)
		later.ReceivedAt = receivedAt.Add(2 * time.Hour)
		result, err := dispatcher.Dispatch(ctx, later)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Duplicate).To(BeFalse())
	})

	It("moves a finished session with transcript to processing and requests enrichment", func() {
		data := `{
			"bot_id": "bot-1",
			"mp4_url": "https://cdn.example.com/rec.mp4",
			"duration_seconds": 1800,
			"transcript": [
				{"speaker": "Budi", "start": 0, "end": 1.5, "text": "Good morning"},
				{"speaker": "Budi", "start": 2.0, "end": 3.0, "text": "everyone"},
				{"speaker": "Siti", "start": 4.0, "end": 5.0, "text": "Morning"}
			]
		}`

		result, err := dispatcher.Dispatch(ctx, notify("bot.done", data))

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Meeting.Status).To(Equal(model.MeetingStatusProcessing))
		Expect(result.EnrichmentRequested).To(BeTrue())
		Expect(trigger.requested).To(Equal([]string{"bot-1"}))

		row := meetings.get("bot-1")
		Expect(*row.TranscriptFull).To(Equal("Budi: Good morning everyone\nSiti: Morning"))
		Expect(row.Transcript).To(HaveLen(2))
		Expect(*row.AudioURL).To(Equal("https://cdn.example.com/rec.mp4"))
		Expect(*row.DurationSeconds).To(Equal(int32(1800)))
	})

	It("accepts the wrapped utterances transcript shape", func() {
		data := `{"bot_id":"bot-1","transcript":{"result":{"utterances":[{"speaker":0,"start":0,"end":1,"text":"Hello"}]}}}`

		result, err := dispatcher.Dispatch(ctx, notify("bot.done", data))

		Expect(err).NotTo(HaveOccurred())
		Expect(result.EnrichmentRequested).To(BeTrue())
		Expect(*meetings.get("bot-1").TranscriptFull).To(Equal("Speaker 0: Hello"))
	})

	DescribeTable("marks a ghost session failed without enrichment",
		func(data string) {
			meetings.put(&model.Meeting{ID: 7, BotID: "bot-1", Status: model.MeetingStatusRecording})

			result, err := dispatcher.Dispatch(ctx, notify("bot.done", data))

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Meeting.Status).To(Equal(model.MeetingStatusFailed))
			Expect(result.Meeting.TranscriptFull).To(BeNil())
			Expect(result.EnrichmentRequested).To(BeFalse())
			Expect(trigger.requested).To(BeEmpty())
		},
		Entry("flat segment list", `{"bot_id":"bot-1","duration_seconds":12,"transcript":[{"speaker":"A","start":0,"text":"hi"}]}`),
		Entry("wrapped utterances", `{"bot_id":"bot-1","duration_seconds":12,"transcript":{"result":{"utterances":[{"speaker":0,"start":0,"end":1,"text":"hi"}]}}}`),
		Entry("no transcript", `{"bot_id":"bot-1","duration_seconds":12}`),
		Entry("just under a minute", `{"bot_id":"bot-1","duration":59.6,"transcript":[{"speaker":"A","start":0,"text":"hi"}]}`),
	)

	It("does not treat a full minute as a ghost", func() {
		meetings.put(&model.Meeting{ID: 7, BotID: "bot-1", Status: model.MeetingStatusRecording})

		result, err := dispatcher.Dispatch(ctx, notify("bot.done", `{"bot_id":"bot-1","duration_seconds":60,"transcript":[{"speaker":"A","start":0,"text":"hi"}]}`))

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Meeting.Status).To(Equal(model.MeetingStatusProcessing))
		Expect(result.EnrichmentRequested).To(BeTrue())
	})

	It("never moves status backwards", func() {
		meetings.put(&model.Meeting{ID: 7, BotID: "bot-1", Status: model.MeetingStatusProcessing})

		result, err := dispatcher.Dispatch(ctx, notify("bot.in_call", `{"bot_id":"bot-1"}`))

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Meeting.Status).To(Equal(model.MeetingStatusProcessing))
	})

	It("keeps processing the notification when the trigger fails", func() {
		trigger.err = errors.New("redis down")

		result, err := dispatcher.Dispatch(ctx, notify("bot.done", `{"bot_id":"bot-1","transcript":[{"speaker":"A","start":0,"text":"hi"}]}`))

		Expect(err).NotTo(HaveOccurred())
		Expect(result.EnrichmentRequested).To(BeFalse())
		Expect(result.Meeting.Status).To(Equal(model.MeetingStatusProcessing))
	})

	It("rejects a lifecycle notification without bot_id", func() {
		_, err := dispatcher.Dispatch(ctx, notify("bot.in_call", `{"meeting_url":"https://meet.google.com/abc"}`))

		Expect(err).To(MatchError(service.ErrMalformedNotification))
		Expect(txRunner.calls).To(BeZero())
	})

	It("rejects undecodable data", func() {
		_, err := dispatcher.Dispatch(ctx, notify("bot.in_call", `["not","an","object"]`))

		Expect(err).To(MatchError(service.ErrMalformedNotification))
	})

	It("returns persistence failures", func() {
		notifications.err = errors.New("connection reset")

		_, err := dispatcher.Dispatch(ctx, notify("bot.in_call", `{"bot_id":"bot-1"}`))

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("connection reset"))
		Expect(meetings.get("bot-1")).To(BeNil())
	})

	Describe("calendar notifications", func() {
		It("hands the calendar to the scheduler", func() {
			data := `{"calendar_id":"cal-1","event":{"series_id":"s-1","meeting_url":"https://zoom.us/j/1","title":"Standup"}}`

			result, err := dispatcher.Dispatch(ctx, notify("event.added", data))

			Expect(err).NotTo(HaveOccurred())
			Expect(result.CalendarScheduled).To(BeTrue())
			Expect(scheduler.scheduled).To(Equal([]string{"cal-1"}))
			Expect(scheduler.events[0].SeriesID).To(Equal("s-1"))
			Expect(txRunner.calls).To(BeZero())
		})

		It("ignores a calendar notification without calendar_id", func() {
			result, err := dispatcher.Dispatch(ctx, notify("calendar.sync_events", `{}`))

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Ignored).To(BeTrue())
			Expect(scheduler.scheduled).To(BeEmpty())
		})
	})
})
