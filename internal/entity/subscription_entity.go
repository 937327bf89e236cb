package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending  SubscriptionStatus = "pending"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusFailed   SubscriptionStatus = "failed"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

type Subscription struct {
	Id                uuid.UUID
	UserId            uuid.UUID
	Plan              string
	Credits           int // credit allotment granted on activation
	ExternalBillingId *string
	Status            SubscriptionStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (s *Subscription) Active() bool {
	return s.Status == SubscriptionStatusActive
}

// SubscriptionPlan is a fixed catalog entry; plans live in code, not the DB.
type SubscriptionPlan struct {
	Name    string
	Price   int64 // gross amount in the store currency's smallest sensible unit
	Credits int
}

// PaymentNotification is an audit record of a billing webhook delivery.
type PaymentNotification struct {
	Id                uuid.UUID
	SubscriptionId    uuid.UUID
	TransactionStatus string
	Payload           []byte // raw provider payload, stored as JSON
	CreatedAt         time.Time
}
