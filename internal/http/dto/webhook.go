package dto

import "encoding/json"

// MeetingBaasWebhookRequest is the provider envelope. Older deliveries name
// the kind "event", newer ones "kind".
type MeetingBaasWebhookRequest struct {
	Event string          `json:"event"`
	Kind  string          `json:"kind"`
	Data  json.RawMessage `json:"data"`
}

func (r MeetingBaasWebhookRequest) EventKind() string {
	if r.Event != "" {
		return r.Event
	}
	return r.Kind
}

type WebhookResponse struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
	Ignored   bool `json:"ignored,omitempty"`
}
