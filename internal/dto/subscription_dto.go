package dto

import (
	"github.com/google/uuid"
)

type UpgradeRequest struct {
	Plan string `json:"plan" validate:"required,oneof=pro"`
}

type UpgradeResponse struct {
	SubscriptionId uuid.UUID `json:"subscription_id"`
	OrderId        string    `json:"order_id"`
	PaymentToken   string    `json:"payment_token"`
	RedirectURL    string    `json:"redirect_url"`
}

type SubscriptionStatusResponse struct {
	Plan    string `json:"plan"`
	Status  string `json:"status"`
	Credits int    `json:"credits"`
}

// PaymentNotificationRequest mirrors the fields of the payment gateway's
// webhook callback that we act on. The raw body is stored alongside.
type PaymentNotificationRequest struct {
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}
