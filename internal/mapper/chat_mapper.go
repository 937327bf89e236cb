package mapper

import (
	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToEntity(c *model.ChatMessage) *entity.ChatMessage {
	if c == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:            c.Id,
		PdfId:         c.PdfId,
		UserId:        c.UserId,
		Content:       c.Content,
		IsUserMessage: c.IsUserMessage,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *ChatMapper) ToModel(c *entity.ChatMessage) *model.ChatMessage {
	if c == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:            c.Id,
		PdfId:         c.PdfId,
		UserId:        c.UserId,
		Content:       c.Content,
		IsUserMessage: c.IsUserMessage,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *ChatMapper) ToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, c := range msgs {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
