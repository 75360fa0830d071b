package mapper_test

import (
	"encoding/json"

	"callnote.app/server/internal/domain"
	"callnote.app/server/internal/mapper"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MeetingBaasMapper", func() {
	var m mapper.EventMapper

	BeforeEach(func() {
		m = mapper.NewMeetingBaasMapper()
	})

	DescribeTable("Map",
		func(kind string, want mapper.CanonicalKind) {
			got, err := m.Map(kind)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("bot.joining", "bot.joining", mapper.KindJoinAnnounced),
		Entry("joining alias", "joining", mapper.KindJoinAnnounced),
		Entry("bot.in_waiting_room", "bot.in_waiting_room", mapper.KindWaitingRoom),
		Entry("waiting alias", "waiting", mapper.KindWaitingRoom),
		Entry("bot.in_call", "bot.in_call", mapper.KindInCall),
		Entry("bot.recording", "bot.recording", mapper.KindRecordingConfirmed),
		Entry("bot.done", "bot.done", mapper.KindSessionDone),
		Entry("bot.history_available", "bot.history_available", mapper.KindSessionDone),
		Entry("bot.error", "bot.error", mapper.KindError),
		Entry("calendar.sync_events", "calendar.sync_events", mapper.KindCalendarEvent),
		Entry("event.added", "event.added", mapper.KindCalendarEvent),
		Entry("event.updated", "event.updated", mapper.KindCalendarEvent),
	)

	It("rejects unknown kinds with ErrUnknownKind", func() {
		_, err := m.Map("bot.teleported")
		Expect(err).To(MatchError(mapper.ErrUnknownKind))
	})

	Describe("Signal", func() {
		It("maps lifecycle kinds to signals", func() {
			signal, ok := mapper.KindSessionDone.Signal()
			Expect(ok).To(BeTrue())
			Expect(signal).To(Equal(domain.SignalSessionDone))
		})

		It("has no signal for calendar kinds", func() {
			_, ok := mapper.KindCalendarEvent.Signal()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Decode", func() {
		It("reads a done payload", func() {
			p, err := m.Decode(json.RawMessage(`{
				"bot_id": "bot-1",
				"meeting_url": "https://meet.google.com/abc",
				"mp4_url": "https://s3/rec.mp4",
				"audio": "https://s3/rec.wav",
				"duration_seconds": 1800.4,
				"transcript": [{"speaker":"A","start":0,"words":[{"word":"hi"}]}]
			}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(p.BotID).To(Equal("bot-1"))
			Expect(p.MeetingURL).To(HaveValue(Equal("https://meet.google.com/abc")))
			Expect(p.MediaURL).To(HaveValue(Equal("https://s3/rec.mp4")))
			Expect(p.DurationSeconds).To(HaveValue(Equal(int32(1800))))
			Expect(string(p.Transcript)).To(ContainSubstring(`"speaker":"A"`))
		})

		It("falls back to video then audio and to duration", func() {
			p, err := m.Decode(json.RawMessage(`{"bot_id":"b","mp4_url":"","audio":"https://a","duration":42}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(p.MediaURL).To(HaveValue(Equal("https://a")))
			Expect(p.DurationSeconds).To(HaveValue(Equal(int32(42))))
		})

		It("truncates fractional durations", func() {
			p, err := m.Decode(json.RawMessage(`{"bot_id":"b","duration_seconds":59.6}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(p.DurationSeconds).To(HaveValue(Equal(int32(59))))
		})

		It("leaves absent fields nil", func() {
			p, err := m.Decode(json.RawMessage(`{"bot_id":"b"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(p.MeetingURL).To(BeNil())
			Expect(p.MediaURL).To(BeNil())
			Expect(p.DurationSeconds).To(BeNil())
			Expect(p.Transcript).To(BeEmpty())
		})

		It("reads calendar events", func() {
			p, err := m.Decode(json.RawMessage(`{"calendar_id":"cal-1","event":{"series_id":"s1","meeting_url":"https://zoom.us/j/1","title":"Standup"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(p.CalendarID).To(Equal("cal-1"))
			Expect(p.Event).NotTo(BeNil())
			Expect(p.Event.SeriesID).To(Equal("s1"))
		})

		It("treats a missing data object as empty", func() {
			p, err := m.Decode(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.BotID).To(BeEmpty())
		})

		It("fails on malformed data", func() {
			_, err := m.Decode(json.RawMessage(`{"bot_id": 12`))
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("MapperRegistry", func() {
	It("serves the meetingbaas mapper", func() {
		r := mapper.NewMapperRegistry()
		got, err := r.Get(mapper.ProviderMeetingBaas)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeAssignableToTypeOf(&mapper.MeetingBaasMapper{}))
	})

	It("errors for unsupported providers", func() {
		_, err := mapper.NewMapperRegistry().Get("recall")
		Expect(err).To(MatchError(ContainSubstring("supported: meetingbaas")))
	})
})
