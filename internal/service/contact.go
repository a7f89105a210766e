package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"farmmarket/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NormalizeQuantity turns raw customer input into a requested quantity in
// [1, available]. Non-numeric or empty input counts as 1; a fractional number
// is truncated. When nothing is available the lower bound wins.
func NormalizeQuantity(raw model.QuantityInput, available int) int {
	qty := parseQuantity(strings.TrimSpace(string(raw)))
	if qty > available {
		qty = available
	}
	if qty < 1 {
		qty = 1
	}
	return qty
}

func parseQuantity(s string) int {
	if s == "" {
		return 1
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		if f > math.MaxInt32 {
			return math.MaxInt32
		}
		if f < 0 {
			return 0
		}
		return int(f)
	}
	return 1
}

// TotalPrice is quantity times unit price, unrounded
func TotalPrice(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// FormatTotal renders a total with two fraction digits for display
func FormatTotal(price decimal.Decimal, quantity int) string {
	return TotalPrice(price, quantity).StringFixed(2)
}

// FormatPrice renders a unit price with at least two fraction digits,
// keeping any extra precision the seller entered
func FormatPrice(price decimal.Decimal) string {
	if price.Equal(price.Round(2)) {
		return price.StringFixed(2)
	}
	return price.String()
}

// ResolvePhoneAction returns a dial action for the listing's seller, or
// ErrPhoneUnavailable when no phone is on file
func ResolvePhoneAction(listing model.Listing) (model.Action, error) {
	phone := strings.TrimSpace(listing.Seller.PhoneOrEmpty())
	if phone == "" {
		return model.Action{}, ErrPhoneUnavailable
	}
	return model.Action{
		Kind:   model.ActionDial,
		Target: phone,
		URI:    "tel:" + phone,
	}, nil
}

// ComposeEmail builds the inquiry email for an intent. It never fails.
func ComposeEmail(listing model.Listing, intent model.ContactIntent) model.EmailDraft {
	subject := fmt.Sprintf("Inquiry about %s", listing.Name)
	total := FormatTotal(listing.Price, intent.RequestedQuantity)

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", listing.Seller.DisplayName)
	fmt.Fprintf(&body, "I'm interested in purchasing %d %s of your %s at $%s per %s (total $%s).\n\n",
		intent.RequestedQuantity, listing.Unit, listing.Name, FormatPrice(listing.Price), listing.Unit, total)
	if intent.Message != "" {
		body.WriteString(intent.Message)
		body.WriteString("\n\n")
	}
	body.WriteString("Thank you!")

	return model.EmailDraft{
		Subject: subject,
		Body:    body.String(),
		Total:   total,
		URI:     "mailto:?subject=" + encodeMailtoComponent(subject) + "&body=" + encodeMailtoComponent(body.String()),
	}
}

// encodeMailtoComponent percent-encodes s for a mailto header value. Spaces
// become %20 rather than '+', which mail clients would show literally.
func encodeMailtoComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Messenger delivers platform messages to sellers
type Messenger interface {
	Deliver(ctx context.Context, msg *model.Message, listing model.Listing) error
}

// ContactRouter decides which channel a contact action goes through
type ContactRouter struct {
	messenger Messenger
	events    ContactEventLog
	logger    *zap.Logger
	now       func() time.Time
}

// NewContactRouter creates a new contact router
func NewContactRouter(messenger Messenger, logger *zap.Logger) *ContactRouter {
	return &ContactRouter{
		messenger: messenger,
		logger:    logger,
		now:       time.Now,
	}
}

// WithEventLog makes the router record every dispatched action
func (r *ContactRouter) WithEventLog(events ContactEventLog) *ContactRouter {
	r.events = events
	return r
}

// record logs a dispatched action. Failures only produce a warning.
func (r *ContactRouter) record(ctx context.Context, caller model.Caller, listing model.Listing, kind model.ActionKind, quantity int) {
	if r.events == nil {
		return
	}
	event := &model.ContactEvent{
		ListingID: listing.ID,
		SellerID:  listing.SellerID,
		Channel:   kind,
		Quantity:  quantity,
	}
	if caller.IsAuthenticated() {
		id := caller.UserID
		event.CallerID = &id
	}
	if err := r.events.LogContact(ctx, event); err != nil {
		r.logger.Warn("failed to record contact event",
			zap.String("listing_id", listing.ID.String()),
			zap.String("channel", string(kind)),
			zap.Error(err))
	}
}

// SendPlatformMessage hands the intent to the messenger and reports what it said
func (r *ContactRouter) SendPlatformMessage(ctx context.Context, caller model.Caller, listing model.Listing, intent model.ContactIntent) (model.Outcome, error) {
	if !caller.IsAuthenticated() {
		return failedOutcome(intent, "Sign in to message the seller"), ErrForbidden
	}
	if caller.UserID == listing.SellerID {
		return failedOutcome(intent, "You cannot message yourself"), ErrForbidden
	}

	msg := &model.Message{
		ID:        uuid.New(),
		ListingID: listing.ID,
		SellerID:  listing.SellerID,
		SenderID:  caller.UserID,
		Quantity:  intent.RequestedQuantity,
		Body:      intent.Message,
		Total:     TotalPrice(listing.Price, intent.RequestedQuantity),
		CreatedAt: r.now().UTC(),
	}

	if err := r.messenger.Deliver(ctx, msg, listing); err != nil {
		r.logger.Error("platform message failed",
			zap.String("listing_id", listing.ID.String()),
			zap.String("sender_id", caller.UserID.String()),
			zap.Error(err))
		if errors.Is(err, ErrUpstream) {
			return failedOutcome(intent, "Failed to send message"), err
		}
		return failedOutcome(intent, "Failed to send message"), upstream("deliver message", err)
	}

	r.logger.Info("platform message sent",
		zap.String("message_id", msg.ID.String()),
		zap.String("listing_id", listing.ID.String()))
	r.record(ctx, caller, listing, model.ActionMessage, intent.RequestedQuantity)

	return model.Outcome{
		Status:       model.OutcomeSent,
		Notification: "Message sent to farmer!",
		MessageID:    &msg.ID,
		Intent:       intent,
		Closed:       true,
	}, nil
}

func failedOutcome(intent model.ContactIntent, notification string) model.Outcome {
	return model.Outcome{
		Status:       model.OutcomeFailed,
		Notification: notification,
		Intent:       intent,
	}
}
