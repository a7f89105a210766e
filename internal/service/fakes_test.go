package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"farmmarket/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errBoom = errors.New("boom")

func strPtr(s string) *string {
	return &s
}

func newListing(name string, category model.Category, location *string) model.Listing {
	return model.Listing{
		ID:                uuid.New(),
		SellerID:          uuid.New(),
		Name:              name,
		Category:          category,
		Price:             decimal.RequireFromString("2.50"),
		Unit:              model.UnitPound,
		QuantityAvailable: 5,
		Active:            true,
		Seller: model.Seller{
			ProfileID:   uuid.New(),
			DisplayName: "Green Acres",
			Location:    location,
		},
	}
}

// fakeStore is an in-memory stand-in for the PostgreSQL repository
type fakeStore struct {
	mu       sync.Mutex
	listings []model.Listing
	profiles map[uuid.UUID]*model.Profile
	messages []model.Message
	events   []model.ContactEvent
	err      error
}

func newFakeStore(listings ...model.Listing) *fakeStore {
	return &fakeStore{
		listings: listings,
		profiles: make(map[uuid.UUID]*model.Profile),
	}
}

func (f *fakeStore) ListActiveListings(ctx context.Context) ([]model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Listing
	for _, l := range f.listings {
		if l.Active {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSellerListings(ctx context.Context, sellerID uuid.UUID, activeOnly bool) ([]model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Listing
	for _, l := range f.listings {
		if l.SellerID == sellerID && (!activeOnly || l.Active) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) GetListing(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, l := range f.listings {
		if l.ID == listingID {
			copied := l
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateListing(ctx context.Context, listing *model.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.listings = append([]model.Listing{*listing}, f.listings...)
	return nil
}

func (f *fakeStore) UpdateListing(ctx context.Context, listing *model.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, l := range f.listings {
		if l.ID == listing.ID && l.SellerID == listing.SellerID {
			f.listings[i] = *listing
			return nil
		}
	}
	return nil
}

func (f *fakeStore) DeleteListing(ctx context.Context, listingID, sellerID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for i, l := range f.listings {
		if l.ID == listingID && l.SellerID == sellerID {
			f.listings = append(f.listings[:i], f.listings[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) SetListingImage(ctx context.Context, listingID, sellerID uuid.UUID, imageURL string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.listings {
		if l.ID == listingID && l.SellerID == sellerID {
			f.listings[i].ImageURL = &imageURL
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetProfile(ctx context.Context, profileID uuid.UUID) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[profileID], nil
}

func (f *fakeStore) ToggleAvailability(ctx context.Context, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, p := range f.profiles {
		if p.UserID == userID {
			p.IsAvailable = !p.IsAvailable
			return p.IsAvailable, nil
		}
	}
	return false, errors.New("profile not found")
}

func (f *fakeStore) InsertMessage(ctx context.Context, msg *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeStore) ListMessagesForSeller(ctx context.Context, sellerID uuid.UUID) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Message
	for _, m := range f.messages {
		if m.SellerID == sellerID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) LogContact(ctx context.Context, event *model.ContactEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeStore) ContactStats(ctx context.Context, sellerID uuid.UUID) ([]model.ContactStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var stats []model.ContactStat
	for _, e := range f.events {
		if e.SellerID != sellerID {
			continue
		}
		found := false
		for i := range stats {
			if stats[i].ListingID == e.ListingID && stats[i].Channel == e.Channel {
				stats[i].Count++
				found = true
			}
		}
		if !found {
			stats = append(stats, model.ContactStat{ListingID: e.ListingID, Channel: e.Channel, Count: 1})
		}
	}
	return stats, nil
}

// fakeNotifier records texts
type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	phone []string
	err   error
}

func (n *fakeNotifier) Notify(ctx context.Context, phone, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.phone = append(n.phone, phone)
	n.sent = append(n.sent, text)
	return nil
}

// fakeImages records uploaded objects
type fakeImages struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (i *fakeImages) PutImage(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	i.keys = append(i.keys, key)
	i.bodies = append(i.bodies, buf.Bytes())
	return "https://cdn.example.com/" + key, nil
}

// fakeMessenger lets flow tests force delivery outcomes
type fakeMessenger struct {
	delivered []model.Message
	err       error
}

func (m *fakeMessenger) Deliver(ctx context.Context, msg *model.Message, listing model.Listing) error {
	if m.err != nil {
		return m.err
	}
	m.delivered = append(m.delivered, *msg)
	return nil
}
