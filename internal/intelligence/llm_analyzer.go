package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"callnote.app/server/common/llm"
	"callnote.app/server/internal/model"
)

const (
	LLMAnalyzerName = "llm"

	analyzerPromptVersion = "v1"
	analyzerTemperature   = 0.3
	analyzerMaxAttempts   = 3
	defaultMaxTokens      = 4096
)

type IntelligenceResponse struct {
	Summary       string                `json:"summary" jsonschema_description:"Executive summary of the meeting in English"`
	LanguageStats LanguageStatsResponse `json:"language_stats"`
	Segments      []SegmentResponse     `json:"segments" jsonschema_description:"3-5 chapters covering the meeting in order"`
	ActionItems   []ActionItemResponse  `json:"action_items"`
	SpeakerStats  []SpeakerStatResponse `json:"speaker_stats"`
}

type LanguageStatsResponse struct {
	ENPercent float64 `json:"en_percent" jsonschema_description:"Share of English speech, 0-100"`
	IDPercent float64 `json:"id_percent" jsonschema_description:"Share of Indonesian speech, 0-100"`
}

type SegmentResponse struct {
	Topic    string `json:"topic"`
	StartSec int    `json:"start_sec"`
	EndSec   int    `json:"end_sec"`
	Type     string `json:"type" jsonschema:"enum=discussion,enum=decision,enum=issue,enum=question"`
}

type ActionItemResponse struct {
	Task      string `json:"task"`
	Assignee  string `json:"assignee" jsonschema_description:"Person responsible, empty when unknown"`
	Priority  string `json:"priority" jsonschema:"enum=High,enum=Medium,enum=Low"`
	Timestamp string `json:"timestamp" jsonschema_description:"mm:ss where the task was raised"`
}

type SpeakerStatResponse struct {
	Speaker         string  `json:"speaker"`
	TalkTimePercent float64 `json:"talk_time_percent"`
	Contributions   int     `json:"contributions"`
}

var intelligenceSchema = llm.GenerateSchema[IntelligenceResponse]()

// LLMAnalyzer asks the configured model for structured meeting intelligence.
type LLMAnalyzer struct {
	llm       llm.Client
	maxTokens int
	wait      func(context.Context, time.Duration) error
}

// NewLLMAnalyzer builds an analyzer; maxTokens <= 0 uses the default budget.
func NewLLMAnalyzer(client llm.Client, maxTokens int) *LLMAnalyzer {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &LLMAnalyzer{llm: client, maxTokens: maxTokens, wait: waitContext}
}

func (a *LLMAnalyzer) Name() string {
	return LLMAnalyzerName
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.Transcript) == "" {
		return nil, fmt.Errorf("analyze meeting %d: empty transcript", in.MeetingID)
	}

	prompt := "Analyze this transcript:\n\n" + in.Transcript

	var response IntelligenceResponse
	var llmResp *llm.Response
	var err error
	start := time.Now()

	for attempt := 0; attempt < analyzerMaxAttempts; attempt++ {
		llmResp, err = a.llm.Chat(ctx, llm.Request{
			SystemPrompt: analyzerSystemPrompt,
			UserPrompt:   prompt,
			SchemaName:   model.LLMEvalStageMeetingIntelligence,
			Schema:       intelligenceSchema,
			MaxTokens:    a.maxTokens,
			Temperature:  llm.Temp(analyzerTemperature),
		}, &response)
		if err == nil {
			break
		}
		if !llm.IsRetryable(ctx, err) {
			return nil, fmt.Errorf("analyze meeting %d: %w", in.MeetingID, err)
		}
		if attempt == analyzerMaxAttempts-1 {
			break
		}
		slog.WarnContext(ctx, "meeting analysis retry",
			"attempt", attempt+1,
			"error", err)
		if werr := a.wait(ctx, time.Duration(1<<attempt)*time.Second); werr != nil {
			return nil, fmt.Errorf("analyze meeting %d: %w", in.MeetingID, werr)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("analyze meeting %d after %d attempts: %w", in.MeetingID, analyzerMaxAttempts, err)
	}

	latency := time.Since(start)
	intel := toIntelligence(response, in.Duration())

	slog.InfoContext(ctx, "meeting analyzed",
		"segments", len(intel.Segments),
		"action_items", len(intel.ActionItems),
		"speakers", len(intel.SpeakerStats),
		"latency_ms", latency.Milliseconds())

	return &Result{
		Intelligence: intel,
		Eval:         a.eval(ctx, in, prompt, response, latency, llmResp),
	}, nil
}

// waitContext sleeps for d or until ctx is done.
func waitContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (a *LLMAnalyzer) eval(ctx context.Context, in Input, prompt string, response IntelligenceResponse, latency time.Duration, llmResp *llm.Response) *model.LLMEval {
	outputJSON, err := json.Marshal(response)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal intelligence response for eval", "error", err)
		return nil
	}

	modelName := a.llm.Model()
	temperature := analyzerTemperature
	version := analyzerPromptVersion
	latencyMs := int(latency.Milliseconds())
	meetingID := in.MeetingID

	eval := &model.LLMEval{
		MeetingID:     &meetingID,
		Stage:         model.LLMEvalStageMeetingIntelligence,
		InputText:     prompt,
		OutputJSON:    outputJSON,
		Model:         &modelName,
		Temperature:   &temperature,
		PromptVersion: &version,
		LatencyMs:     &latencyMs,
	}
	if llmResp != nil {
		eval.PromptTokens = &llmResp.PromptTokens
		eval.CompletionTokens = &llmResp.CompletionTokens
	}
	return eval
}

// toIntelligence normalizes model output: unknown enum values fall back to
// discussion/Medium, timings are clamped into the meeting.
func toIntelligence(r IntelligenceResponse, duration int32) model.Intelligence {
	intel := model.Intelligence{
		Summary: strings.TrimSpace(r.Summary),
		LanguageStats: model.LanguageStats{
			EN: clampPct(r.LanguageStats.ENPercent),
			ID: clampPct(r.LanguageStats.IDPercent),
		},
		Segments:     make([]model.MeetingSegment, 0, len(r.Segments)),
		ActionItems:  make([]model.ActionItem, 0, len(r.ActionItems)),
		SpeakerStats: make([]model.SpeakerStat, 0, len(r.SpeakerStats)),
	}

	for _, s := range r.Segments {
		kind := model.SegmentType(strings.ToLower(s.Type))
		if !kind.IsValid() {
			kind = model.SegmentTypeDiscussion
		}
		startSec := max(int32(s.StartSec), 0)
		endSec := max(int32(s.EndSec), startSec)
		intel.Segments = append(intel.Segments, model.MeetingSegment{
			Topic:     s.Topic,
			Type:      kind,
			StartTime: startSec,
			EndTime:   endSec,
		})
	}

	for _, item := range r.ActionItems {
		if strings.TrimSpace(item.Task) == "" {
			continue
		}
		priority := model.Priority(item.Priority)
		if !priority.IsValid() {
			priority = model.PriorityMedium
		}
		intel.ActionItems = append(intel.ActionItems, model.ActionItem{
			Task:         item.Task,
			Assignee:     optional(item.Assignee),
			Priority:     priority,
			TimestampRef: optional(item.Timestamp),
		})
	}

	for _, s := range r.SpeakerStats {
		if s.Speaker == "" {
			continue
		}
		pct := clampPct(s.TalkTimePercent)
		name := s.Speaker
		intel.SpeakerStats = append(intel.SpeakerStats, model.SpeakerStat{
			SpeakerLabel:    s.Speaker,
			SpeakerName:     &name,
			TalkTimeSeconds: TalkTimeSeconds(pct, duration),
			ContributionPct: pct,
		})
	}

	return intel
}

func clampPct(v float64) float64 {
	return min(max(v, 0), 100)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

const analyzerSystemPrompt = `You are a Secretary for an Indonesian B2B tech company. Analyze this mixed-language transcript.

**Rules:**
1. **Language:** Output the summary in **English**, but preserve specific Indonesian cultural nuances if untranslatable.
2. **Action Items:** Extract tasks aggressively. Assign a priority (High/Medium/Low).
3. **Context Cleanup:** The transcript may have phonetic errors (e.g., 'Saas' heard as 'Sast'). Use your knowledge of B2B SaaS terms to correct these in the summary.
4. **Indonesian Slang:** Interpret Indonesian corporate slang (Cuan, Blocker, Follow-up) in a professional business context.
5. **Speaker Analysis:** Calculate approximate talk time percentage for each speaker.
6. **Timeline:** Divide the meeting into 3-5 distinct chapters (topics), with start and end in seconds from the beginning of the meeting.

Only return valid JSON matching the schema. No markdown, no explanations.`
