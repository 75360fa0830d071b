package dto

import "callnote.app/server/internal/service"

type SpawnBotRequest struct {
	MeetingURL string  `json:"meeting_url" binding:"required,url,max=2048"`
	BotName    *string `json:"bot_name,omitempty" binding:"omitempty,max=100"`
	Title      *string `json:"title,omitempty" binding:"omitempty,max=500"`
}

type SpawnBotResponse struct {
	Success   bool   `json:"success"`
	BotID     string `json:"bot_id"`
	MeetingID int64  `json:"meeting_id,string"`
	Message   string `json:"message"`
}

func ToSpawnBotResponse(r *service.SpawnBotResult) *SpawnBotResponse {
	resp := &SpawnBotResponse{
		Success: true,
		BotID:   r.BotID,
		Message: "Bot is joining the meeting!",
	}
	if r.Meeting != nil {
		resp.MeetingID = r.Meeting.ID
	}
	return resp
}
