package model

import (
	"encoding/json"
	"time"
)

type NotificationSource string

const (
	NotificationSourceWebhook NotificationSource = "webhook"
	NotificationSourceSync    NotificationSource = "sync"
)

// NotificationLog records a processed provider notification by signature.
type NotificationLog struct {
	CreatedAt time.Time          `json:"created_at"`
	Payload   json.RawMessage    `json:"payload"`
	BotID     string             `json:"bot_id"`
	Source    NotificationSource `json:"source"`
	Kind      string             `json:"kind"`
	DedupeKey string             `json:"dedupe_key"`
	ID        int64              `json:"id"`
}
