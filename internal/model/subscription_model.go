package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Subscription struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId            uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Plan              string    `gorm:"type:varchar(100);not null"`
	Credits           int       `gorm:"not null;default:0"`
	ExternalBillingId *string   `gorm:"type:varchar(100);uniqueIndex"`
	Status            string    `gorm:"type:varchar(50);not null;default:'pending'"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// PaymentNotification records every billing webhook delivery for audit,
// including the raw provider payload.
type PaymentNotification struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	TransactionStatus string         `gorm:"type:varchar(50);not null"`
	Payload           datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
}

func (PaymentNotification) TableName() string {
	return "payment_notifications"
}
