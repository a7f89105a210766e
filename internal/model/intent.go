package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContactIntent is the in-progress state of a contact request before dispatch
type ContactIntent struct {
	ListingID         uuid.UUID `json:"listing_id"`
	RequestedQuantity int       `json:"requested_quantity"`
	Message           string    `json:"message,omitempty"`
}

// QuantityInput is the raw quantity typed by a customer. It accepts a JSON
// number or string so that malformed input reaches the clamping rule intact.
type QuantityInput string

// UnmarshalJSON implements json.Unmarshaler
func (q *QuantityInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = QuantityInput(s)
		return nil
	}
	*q = QuantityInput(data)
	return nil
}

// ContactRequest is the body of every contact endpoint
type ContactRequest struct {
	Quantity QuantityInput `json:"quantity"`
	Message  string        `json:"message"`
}

// ActionKind names an outbound contact channel
type ActionKind string

const (
	ActionDial    ActionKind = "dial"
	ActionEmail   ActionKind = "email"
	ActionMessage ActionKind = "message"
)

// Action is a hand-off to the operating environment (a tel: or mailto: link)
type Action struct {
	Kind   ActionKind `json:"kind"`
	Target string     `json:"target,omitempty"`
	URI    string     `json:"uri"`
}

// EmailDraft is a composed inquiry ready to be opened in a mail client
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Total   string `json:"total"`
	URI     string `json:"uri"`
}

// OutcomeStatus is the result reported to the customer after a contact action
type OutcomeStatus string

const (
	OutcomeDispatched  OutcomeStatus = "dispatched"
	OutcomeUnavailable OutcomeStatus = "unavailable"
	OutcomeSent        OutcomeStatus = "sent"
	OutcomeFailed      OutcomeStatus = "failed"
)

// Outcome is what a contact endpoint returns
type Outcome struct {
	Status       OutcomeStatus `json:"status"`
	Notification string        `json:"notification"`
	Action       *Action       `json:"action,omitempty"`
	Email        *EmailDraft   `json:"email,omitempty"`
	MessageID    *uuid.UUID    `json:"message_id,omitempty"`
	Intent       ContactIntent `json:"intent"`
	Closed       bool          `json:"closed"`
}

// Message is a platform message from a customer to the seller of a listing
type Message struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ListingID uuid.UUID       `json:"listing_id" db:"listing_id"`
	SellerID  uuid.UUID       `json:"seller_id" db:"farmer_id"`
	SenderID  uuid.UUID       `json:"sender_id" db:"sender_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Body      string          `json:"body" db:"body"`
	Total     decimal.Decimal `json:"total" db:"total"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ContactEvent records a dispatched contact action
type ContactEvent struct {
	ListingID uuid.UUID  `db:"listing_id"`
	SellerID  uuid.UUID  `db:"farmer_id"`
	CallerID  *uuid.UUID `db:"caller_id"`
	Channel   ActionKind `db:"channel"`
	Quantity  int        `db:"quantity"`
}

// ContactStat counts contact actions for one listing and channel
type ContactStat struct {
	ListingID uuid.UUID  `json:"listing_id" db:"listing_id"`
	Channel   ActionKind `json:"channel" db:"channel"`
	Count     int        `json:"count" db:"count"`
}
