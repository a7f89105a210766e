package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"farmmarket/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		name      string
		raw       model.QuantityInput
		available int
		want      int
	}{
		{"within range", "3", 5, 3},
		{"above available", "9", 5, 5},
		{"zero", "0", 5, 1},
		{"negative", "-3", 5, 1},
		{"not a number", "abc", 5, 1},
		{"empty", "", 5, 1},
		{"whitespace", "  4 ", 5, 4},
		{"fraction truncates", "2.7", 5, 2},
		{"huge float", "1e300", 5, 5},
		{"nothing available", "3", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuantity(tt.raw, tt.available))
		})
	}
}

func TestFormatTotal(t *testing.T) {
	assert.Equal(t, "7.50", FormatTotal(decimal.RequireFromString("2.50"), 3))
	assert.Equal(t, "1.00", FormatTotal(decimal.RequireFromString("0.333"), 3))
	assert.Equal(t, "0.00", FormatTotal(decimal.Zero, 4))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "2.50", FormatPrice(decimal.RequireFromString("2.5")))
	assert.Equal(t, "0.333", FormatPrice(decimal.RequireFromString("0.333")))
	assert.Equal(t, "4.00", FormatPrice(decimal.NewFromInt(4)))
}

func TestTotalPrice_KeepsPrecision(t *testing.T) {
	price := decimal.RequireFromString("0.333")
	total := TotalPrice(price, 3)

	assert.True(t, total.Equal(decimal.RequireFromString("0.999")))
	assert.Equal(t, "0.333", price.String())
}

func TestResolvePhoneAction(t *testing.T) {
	listing := newListing("Kale", model.CategoryVegetables, nil)

	t.Run("no phone", func(t *testing.T) {
		_, err := ResolvePhoneAction(listing)
		assert.ErrorIs(t, err, ErrPhoneUnavailable)
	})

	t.Run("blank phone", func(t *testing.T) {
		l := listing
		l.Seller.Phone = strPtr("   ")
		_, err := ResolvePhoneAction(l)
		assert.ErrorIs(t, err, ErrPhoneUnavailable)
	})

	t.Run("phone on file", func(t *testing.T) {
		l := listing
		l.Seller.Phone = strPtr(" +1 555 0100 ")
		action, err := ResolvePhoneAction(l)
		require.NoError(t, err)
		assert.Equal(t, model.ActionDial, action.Kind)
		assert.Equal(t, "+1 555 0100", action.Target)
		assert.Equal(t, "tel:+1 555 0100", action.URI)
	})
}

func TestComposeEmail(t *testing.T) {
	listing := newListing("Heirloom Tomatoes", model.CategoryVegetables, nil)
	listing.Seller.DisplayName = "Sunny Farm"
	intent := model.ContactIntent{
		ListingID:         listing.ID,
		RequestedQuantity: 3,
		Message:           "Can I pick up Saturday?\nThanks & regards",
	}

	draft := ComposeEmail(listing, intent)

	assert.Equal(t, "Inquiry about Heirloom Tomatoes", draft.Subject)
	assert.Equal(t, "7.50", draft.Total)
	assert.Equal(t,
		"Hello Sunny Farm,\n\n"+
			"I'm interested in purchasing 3 lb of your Heirloom Tomatoes at $2.50 per lb (total $7.50).\n\n"+
			"Can I pick up Saturday?\nThanks & regards\n\n"+
			"Thank you!",
		draft.Body)

	require.True(t, strings.HasPrefix(draft.URI, "mailto:?subject="))
	assert.NotContains(t, draft.URI, "\n")
	assert.NotContains(t, draft.URI, " ")
	assert.NotContains(t, draft.URI, "+")
	assert.Contains(t, draft.URI, "Inquiry%20about%20Heirloom%20Tomatoes")
	assert.Contains(t, draft.URI, "%0A")
	assert.Contains(t, draft.URI, "%26")

	// the URI round-trips to the original subject and body
	parsed, err := url.Parse(draft.URI)
	require.NoError(t, err)
	q, err := url.ParseQuery(parsed.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, draft.Subject, q.Get("subject"))
	assert.Equal(t, draft.Body, q.Get("body"))
}

func TestComposeEmail_NoMessage(t *testing.T) {
	listing := newListing("Kale", model.CategoryVegetables, nil)
	draft := ComposeEmail(listing, model.ContactIntent{RequestedQuantity: 1})

	assert.True(t, strings.HasSuffix(draft.Body, "(total $2.50).\n\nThank you!"))
}

func TestSendPlatformMessage(t *testing.T) {
	listing := newListing("Kale", model.CategoryVegetables, nil)
	customer := model.Caller{UserID: uuid.New(), Role: model.RoleCustomer}
	intent := model.ContactIntent{ListingID: listing.ID, RequestedQuantity: 2, Message: "hi"}

	t.Run("delivered", func(t *testing.T) {
		messenger := &fakeMessenger{}
		router := NewContactRouter(messenger, zap.NewNop())

		outcome, err := router.SendPlatformMessage(context.Background(), customer, listing, intent)
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeSent, outcome.Status)
		assert.Equal(t, "Message sent to farmer!", outcome.Notification)
		assert.True(t, outcome.Closed)
		require.NotNil(t, outcome.MessageID)

		require.Len(t, messenger.delivered, 1)
		msg := messenger.delivered[0]
		assert.Equal(t, *outcome.MessageID, msg.ID)
		assert.Equal(t, listing.SellerID, msg.SellerID)
		assert.Equal(t, customer.UserID, msg.SenderID)
		assert.Equal(t, 2, msg.Quantity)
		assert.Equal(t, "hi", msg.Body)
		assert.Equal(t, "5.00", msg.Total.StringFixed(2))
	})

	t.Run("anonymous sender", func(t *testing.T) {
		messenger := &fakeMessenger{}
		router := NewContactRouter(messenger, zap.NewNop())

		outcome, err := router.SendPlatformMessage(context.Background(), model.Anonymous, listing, intent)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, model.OutcomeFailed, outcome.Status)
		assert.Empty(t, messenger.delivered)
	})

	t.Run("seller messaging own listing", func(t *testing.T) {
		router := NewContactRouter(&fakeMessenger{}, zap.NewNop())
		seller := model.Caller{UserID: listing.SellerID, Role: model.RoleFarmer}

		_, err := router.SendPlatformMessage(context.Background(), seller, listing, intent)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("delivery failure", func(t *testing.T) {
		router := NewContactRouter(&fakeMessenger{err: errBoom}, zap.NewNop())

		outcome, err := router.SendPlatformMessage(context.Background(), customer, listing, intent)
		assert.ErrorIs(t, err, ErrUpstream)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, model.OutcomeFailed, outcome.Status)
		assert.Equal(t, "Failed to send message", outcome.Notification)
		assert.False(t, outcome.Closed)
		assert.Equal(t, intent, outcome.Intent)
	})
}
