package mapper

import (
	"github.com/code-gritt/maiden/internal/entity"
	"github.com/code-gritt/maiden/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                s.Id,
		UserId:            s.UserId,
		Plan:              s.Plan,
		Credits:           s.Credits,
		ExternalBillingId: s.ExternalBillingId,
		Status:            entity.SubscriptionStatus(s.Status),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                s.Id,
		UserId:            s.UserId,
		Plan:              s.Plan,
		Credits:           s.Credits,
		ExternalBillingId: s.ExternalBillingId,
		Status:            string(s.Status),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}
