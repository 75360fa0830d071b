package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"callnote.app/server/common/llm"
	"callnote.app/server/internal/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeLLM struct {
	calls   int
	errs    []error
	content string
	last    llm.Request
}

func (f *fakeLLM) Chat(_ context.Context, req llm.Request, result any) (*llm.Response, error) {
	f.calls++
	f.last = req
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	if err := json.Unmarshal([]byte(f.content), result); err != nil {
		return nil, err
	}
	return &llm.Response{PromptTokens: 120, CompletionTokens: 80}, nil
}

func (f *fakeLLM) Model() string { return "gpt-4o" }

const sampleResponse = `{
	"summary": "  Weekly sync on the launch.  ",
	"language_stats": {"en_percent": 70, "id_percent": 130},
	"segments": [
		{"topic": "Intro", "start_sec": -5, "end_sec": 60, "type": "discussion"},
		{"topic": "Launch", "start_sec": 60, "end_sec": 30, "type": "Decision"},
		{"topic": "Misc", "start_sec": 90, "end_sec": 120, "type": "banter"}
	],
	"action_items": [
		{"task": "Ship it", "assignee": "Rizky", "priority": "High", "timestamp": "01:45"},
		{"task": "Follow up", "assignee": "", "priority": "urgent", "timestamp": ""},
		{"task": "  ", "assignee": "x", "priority": "Low", "timestamp": ""}
	],
	"speaker_stats": [
		{"speaker": "Speaker 1", "talk_time_percent": 60, "contributions": 4},
		{"speaker": "", "talk_time_percent": 40, "contributions": 1}
	]
}`

var _ = Describe("LLMAnalyzer", func() {
	var (
		fake     *fakeLLM
		analyzer *LLMAnalyzer
		slept    []time.Duration
	)

	BeforeEach(func() {
		fake = &fakeLLM{content: sampleResponse}
		slept = nil
		analyzer = NewLLMAnalyzer(fake, 0)
		analyzer.wait = func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}
	})

	It("requests the meeting_intelligence schema at temperature 0.3", func() {
		_, err := analyzer.Analyze(context.Background(), Input{MeetingID: 1, Transcript: "A: hi", DurationSeconds: 600})
		Expect(err).NotTo(HaveOccurred())
		Expect(fake.last.SchemaName).To(Equal("meeting_intelligence"))
		Expect(fake.last.Temperature).To(HaveValue(Equal(0.3)))
		Expect(fake.last.UserPrompt).To(HaveSuffix("A: hi"))
	})

	It("normalizes the model output", func() {
		res, err := analyzer.Analyze(context.Background(), Input{MeetingID: 1, Transcript: "A: hi", DurationSeconds: 600})
		Expect(err).NotTo(HaveOccurred())

		intel := res.Intelligence
		Expect(intel.Summary).To(Equal("Weekly sync on the launch."))
		Expect(intel.LanguageStats).To(Equal(model.LanguageStats{EN: 70, ID: 100}))

		Expect(intel.Segments).To(HaveLen(3))
		Expect(intel.Segments[0].StartTime).To(Equal(int32(0)))
		Expect(intel.Segments[1].Type).To(Equal(model.SegmentTypeDecision))
		Expect(intel.Segments[1].EndTime).To(Equal(int32(60)))
		Expect(intel.Segments[2].Type).To(Equal(model.SegmentTypeDiscussion))

		Expect(intel.ActionItems).To(HaveLen(2))
		Expect(intel.ActionItems[0].Assignee).To(HaveValue(Equal("Rizky")))
		Expect(intel.ActionItems[1].Assignee).To(BeNil())
		Expect(intel.ActionItems[1].Priority).To(Equal(model.PriorityMedium))
		Expect(intel.ActionItems[1].TimestampRef).To(BeNil())

		Expect(intel.SpeakerStats).To(HaveLen(1))
		Expect(intel.SpeakerStats[0].TalkTimeSeconds).To(Equal(int32(360)))
		Expect(intel.SpeakerStats[0].SpeakerName).To(HaveValue(Equal("Speaker 1")))
	})

	It("returns an eval record with token usage", func() {
		res, err := analyzer.Analyze(context.Background(), Input{MeetingID: 9, Transcript: "A: hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Eval).NotTo(BeNil())
		Expect(res.Eval.MeetingID).To(HaveValue(Equal(int64(9))))
		Expect(res.Eval.Stage).To(Equal(model.LLMEvalStageMeetingIntelligence))
		Expect(res.Eval.Model).To(HaveValue(Equal("gpt-4o")))
		Expect(res.Eval.PromptTokens).To(HaveValue(Equal(120)))
	})

	It("retries transient failures with backoff", func() {
		fake.errs = []error{errors.New("connection reset"), errors.New("connection reset")}
		_, err := analyzer.Analyze(context.Background(), Input{MeetingID: 1, Transcript: "A: hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(fake.calls).To(Equal(3))
		Expect(slept).To(Equal([]time.Duration{time.Second, 2 * time.Second}))
	})

	It("gives up after three attempts", func() {
		fake.errs = []error{errors.New("a"), errors.New("b"), errors.New("c")}
		_, err := analyzer.Analyze(context.Background(), Input{MeetingID: 1, Transcript: "A: hi"})
		Expect(err).To(MatchError(ContainSubstring("after 3 attempts")))
		Expect(slept).To(HaveLen(2))
	})

	It("stops backing off when the context is cancelled", func() {
		analyzer.wait = waitContext
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fake.errs = []error{errors.New("connection reset"), errors.New("connection reset")}

		_, err := analyzer.Analyze(ctx, Input{MeetingID: 1, Transcript: "A: hi"})

		Expect(err).To(MatchError(context.Canceled))
		Expect(fake.calls).To(Equal(1))
	})

	It("does not retry undecodable output", func() {
		fake.errs = []error{&llm.DecodeError{Content: "nope", Err: errors.New("bad json")}}
		_, err := analyzer.Analyze(context.Background(), Input{MeetingID: 1, Transcript: "A: hi"})
		Expect(err).To(HaveOccurred())
		Expect(fake.calls).To(Equal(1))
	})

	It("refuses an empty transcript", func() {
		_, err := analyzer.Analyze(context.Background(), Input{MeetingID: 1, Transcript: "   "})
		Expect(err).To(MatchError(ContainSubstring("empty transcript")))
		Expect(fake.calls).To(Equal(0))
	})
})
