package model

import "time"

// PurchaseID uniquely identifies a purchase record
type PurchaseID string

// PurchaseStatus is the lifecycle state of a purchase
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseRefunded  PurchaseStatus = "refunded"
	PurchaseFailed    PurchaseStatus = "failed"
)

// FreePaymentRef marks purchases that required no payment
const FreePaymentRef = "free"

// Purchase records one buyer acquiring one game.
// At most one completed purchase may exist per (user, game) pair.
type Purchase struct {
	ID     PurchaseID `json:"id"`
	UserID UserID     `json:"user_id"`
	GameID GameID     `json:"game_id"`
	// Amount is the final price paid, after any discount live at purchase time
	Amount     int            `json:"amount"`
	Currency   string         `json:"currency"`
	PaymentRef string         `json:"payment_ref"`
	Status     PurchaseStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}
