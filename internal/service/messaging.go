package service

import (
	"context"
	"fmt"
	"strings"

	"farmmarket/internal/model"

	"go.uber.org/zap"
)

// PlatformMessenger stores messages in the seller's inbox and, when a
// notifier is configured and the seller has a non-blank phone, texts the seller.
// A failed text does not fail the delivery.
type PlatformMessenger struct {
	store    MessageRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewPlatformMessenger creates a messenger; notifier may be nil
func NewPlatformMessenger(store MessageRepository, notifier Notifier, logger *zap.Logger) *PlatformMessenger {
	return &PlatformMessenger{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Deliver implements Messenger
func (m *PlatformMessenger) Deliver(ctx context.Context, msg *model.Message, listing model.Listing) error {
	if err := m.store.InsertMessage(ctx, msg); err != nil {
		return upstream("store message", err)
	}

	phone := strings.TrimSpace(listing.Seller.PhoneOrEmpty())
	if m.notifier == nil || phone == "" {
		return nil
	}

	text := fmt.Sprintf("New inquiry about %s: %d %s (total $%s). Open your inbox to reply.",
		listing.Name, msg.Quantity, listing.Unit, msg.Total.StringFixed(2))
	if err := m.notifier.Notify(ctx, phone, text); err != nil {
		m.logger.Warn("seller notification failed",
			zap.String("message_id", msg.ID.String()),
			zap.String("seller_id", msg.SellerID.String()),
			zap.Error(err))
	}
	return nil
}
