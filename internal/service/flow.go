package service

import (
	"context"
	"errors"

	"farmmarket/internal/model"
)

// FlowState is the state of a contact flow for one listing
type FlowState int

const (
	FlowClosed FlowState = iota
	FlowOpen
	FlowDispatched
)

func (s FlowState) String() string {
	switch s {
	case FlowOpen:
		return "open"
	case FlowDispatched:
		return "dispatched"
	default:
		return "closed"
	}
}

// ContactFlow owns the transient intent while a customer is contacting the
// seller of one listing. Phone and email hand-offs leave it usable; a sent
// platform message or Cancel closes it.
type ContactFlow struct {
	router  *ContactRouter
	listing model.Listing
	intent  model.ContactIntent
	state   FlowState
}

// Open starts a contact flow with quantity 1 and an empty message
func (r *ContactRouter) Open(listing model.Listing) *ContactFlow {
	return &ContactFlow{
		router:  r,
		listing: listing,
		intent: model.ContactIntent{
			ListingID:         listing.ID,
			RequestedQuantity: 1,
		},
		state: FlowOpen,
	}
}

// State returns the current flow state
func (f *ContactFlow) State() FlowState {
	return f.state
}

// Intent returns a copy of the current intent
func (f *ContactFlow) Intent() model.ContactIntent {
	return f.intent
}

// Total returns the display total for the current intent
func (f *ContactFlow) Total() string {
	return FormatTotal(f.listing.Price, f.intent.RequestedQuantity)
}

// SetQuantity applies the clamping rule to raw input
func (f *ContactFlow) SetQuantity(raw model.QuantityInput) error {
	if f.state == FlowClosed {
		return ErrFlowClosed
	}
	f.intent.RequestedQuantity = NormalizeQuantity(raw, f.listing.QuantityAvailable)
	return nil
}

// SetMessage replaces the free-text message
func (f *ContactFlow) SetMessage(message string) error {
	if f.state == FlowClosed {
		return ErrFlowClosed
	}
	f.intent.Message = message
	return nil
}

// Call hands a dial action to the caller. An unavailable phone is reported
// without changing state.
func (f *ContactFlow) Call(ctx context.Context, caller model.Caller) (model.Outcome, error) {
	if f.state == FlowClosed {
		return model.Outcome{}, ErrFlowClosed
	}

	action, err := ResolvePhoneAction(f.listing)
	if err != nil {
		return model.Outcome{
			Status:       model.OutcomeUnavailable,
			Notification: "Phone number not available",
			Intent:       f.intent,
		}, err
	}

	f.state = FlowDispatched
	f.router.record(ctx, caller, f.listing, model.ActionDial, f.intent.RequestedQuantity)
	return model.Outcome{
		Status:       model.OutcomeDispatched,
		Notification: "Opening phone dialer",
		Action:       &action,
		Intent:       f.intent,
	}, nil
}

// Email hands a mailto action to the caller
func (f *ContactFlow) Email(ctx context.Context, caller model.Caller) (model.Outcome, error) {
	if f.state == FlowClosed {
		return model.Outcome{}, ErrFlowClosed
	}

	draft := ComposeEmail(f.listing, f.intent)
	f.state = FlowDispatched
	f.router.record(ctx, caller, f.listing, model.ActionEmail, f.intent.RequestedQuantity)
	return model.Outcome{
		Status:       model.OutcomeDispatched,
		Notification: "Opening email client",
		Action:       &model.Action{Kind: model.ActionEmail, URI: draft.URI},
		Email:        &draft,
		Intent:       f.intent,
	}, nil
}

// SendMessage delivers the intent as a platform message. Success closes the
// flow; failure leaves it as it was so the customer can retry.
func (f *ContactFlow) SendMessage(ctx context.Context, caller model.Caller) (model.Outcome, error) {
	if f.state == FlowClosed {
		return model.Outcome{}, ErrFlowClosed
	}

	outcome, err := f.router.SendPlatformMessage(ctx, caller, f.listing, f.intent)
	if err != nil {
		return outcome, err
	}
	f.close()
	return outcome, nil
}

// Cancel closes the flow and discards the intent
func (f *ContactFlow) Cancel() {
	f.close()
}

func (f *ContactFlow) close() {
	f.state = FlowClosed
	f.intent = model.ContactIntent{}
}

// IsUserFacing reports whether err should be shown to the customer as an
// outcome rather than treated as a fault
func IsUserFacing(err error) bool {
	return errors.Is(err, ErrPhoneUnavailable)
}
