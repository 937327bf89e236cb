package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type ChatMessageResponse struct {
	Id            uuid.UUID `json:"id"`
	Content       string    `json:"content"`
	IsUserMessage bool      `json:"is_user_message"`
	CreatedAt     time.Time `json:"created_at"`
}

type ChatTurnResponse struct {
	UserMessage      ChatMessageResponse `json:"user_message"`
	AiResponse       ChatMessageResponse `json:"ai_response"`
	CreditsRemaining int                 `json:"credits_remaining"`
}
