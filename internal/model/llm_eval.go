package model

import "time"

// LLMEval captures one model call for offline quality review.
type LLMEval struct {
	CreatedAt        time.Time `json:"created_at"`
	MeetingID        *int64    `json:"meeting_id,omitempty"`
	Temperature      *float64  `json:"temperature,omitempty"`
	Model            *string   `json:"model,omitempty"`
	PromptVersion    *string   `json:"prompt_version,omitempty"`
	LatencyMs        *int      `json:"latency_ms,omitempty"`
	PromptTokens     *int      `json:"prompt_tokens,omitempty"`
	CompletionTokens *int      `json:"completion_tokens,omitempty"`
	Stage            string    `json:"stage"`
	InputText        string    `json:"input_text"`
	OutputJSON       []byte    `json:"output_json"`
	ID               int64     `json:"id"`
}

const LLMEvalStageMeetingIntelligence = "meeting_intelligence"
