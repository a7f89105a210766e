package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"farmmarket/internal/model"
	"farmmarket/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

var errBoom = errors.New("boom")

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore backs every repository port with slices
type memStore struct {
	mu          sync.Mutex
	listings    []model.Listing
	profiles    []model.Profile
	messages    []model.Message
	events      []model.ContactEvent
	similar     []model.SimilarListing
	badListings map[uuid.UUID]bool
	messageErr  error
}

func (m *memStore) ListActiveListings(ctx context.Context) ([]model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Listing
	for _, l := range m.listings {
		if l.Active {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) ListSellerListings(ctx context.Context, sellerID uuid.UUID, activeOnly bool) ([]model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Listing
	for _, l := range m.listings {
		if l.SellerID == sellerID && (!activeOnly || l.Active) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) GetListing(ctx context.Context, listingID uuid.UUID) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listings {
		if l.ID == listingID {
			copied := l
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateListing(ctx context.Context, listing *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings = append(m.listings, *listing)
	return nil
}

func (m *memStore) UpdateListing(ctx context.Context, listing *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.listings {
		if m.listings[i].ID == listing.ID {
			m.listings[i] = *listing
		}
	}
	return nil
}

func (m *memStore) DeleteListing(ctx context.Context, listingID, sellerID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.listings {
		if l.ID == listingID && l.SellerID == sellerID {
			m.listings = append(m.listings[:i], m.listings[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SetListingImage(ctx context.Context, listingID, sellerID uuid.UUID, imageURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.listings {
		if l.ID == listingID && l.SellerID == sellerID {
			m.listings[i].ImageURL = &imageURL
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) GetProfile(ctx context.Context, profileID uuid.UUID) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.ID == profileID {
			copied := p
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) ToggleAvailability(ctx context.Context, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.profiles {
		if m.profiles[i].UserID == userID {
			m.profiles[i].IsAvailable = !m.profiles[i].IsAvailable
			return m.profiles[i].IsAvailable, nil
		}
	}
	return false, errors.New("profile not found")
}

func (m *memStore) InsertMessage(ctx context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messageErr != nil {
		return m.messageErr
	}
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memStore) ListMessagesForSeller(ctx context.Context, sellerID uuid.UUID) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Message
	for _, msg := range m.messages {
		if msg.SellerID == sellerID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memStore) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	var errs []string
	success := 0
	for _, item := range items {
		if m.badListings[item.ListingID] {
			errs = append(errs, "listing "+item.ListingID.String()+": not found")
			continue
		}
		success++
	}
	return success, errs
}

func (m *memStore) SimilarListings(ctx context.Context, listingID uuid.UUID, limit int) ([]model.SimilarListing, error) {
	if limit < len(m.similar) {
		return m.similar[:limit], nil
	}
	return m.similar, nil
}

func (m *memStore) LogContact(ctx context.Context, event *model.ContactEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

func (m *memStore) ContactStats(ctx context.Context, sellerID uuid.UUID) ([]model.ContactStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[model.ContactStat]int)
	var order []model.ContactStat
	for _, e := range m.events {
		if e.SellerID != sellerID {
			continue
		}
		key := model.ContactStat{ListingID: e.ListingID, Channel: e.Channel}
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}
	stats := make([]model.ContactStat, 0, len(order))
	for _, key := range order {
		key.Count = counts[key]
		stats = append(stats, key)
	}
	return stats, nil
}

// fakeImages answers uploads with a CDN-style URL
type fakeImages struct {
	keys []string
}

func (f *fakeImages) PutImage(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type testEnv struct {
	store  *memStore
	images *fakeImages
	router *gin.Engine
	seller model.Profile
}

func strPtr(s string) *string {
	return &s
}

// newTestEnv wires the real services and router over memStore
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	farmer := model.Profile{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Role:        model.RoleFarmer,
		FullName:    "Green Acres",
		Phone:       strPtr("555-0100"),
		Location:    strPtr("Springfield"),
		IsAvailable: true,
	}
	store := &memStore{
		profiles:    []model.Profile{farmer},
		badListings: make(map[uuid.UUID]bool),
	}
	images := &fakeImages{}

	taxonomy := model.DefaultTaxonomy()
	catalog := service.NewCatalogService(store, store, logger)
	similar := service.NewSimilarService(store, 3, logger)
	contact := service.NewContactRouter(service.NewPlatformMessenger(store, nil, logger), logger).WithEventLog(store)
	sellers := service.NewSellerService(store, store, store, images, taxonomy, logger).WithContactEvents(store)

	router := NewRouter(Handlers{
		Catalog:   NewCatalogHandler(catalog, similar, taxonomy, 6, 24),
		Contact:   NewContactHandler(catalog, contact),
		Seller:    NewSellerHandler(sellers, 1<<20),
		Embedding: NewEmbeddingHandler(similar),
		Auth:      NewAuthenticator(testSecret, logger),
	}, RouterConfig{
		AllowedOrigins: "*",
		AllowedMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowedHeaders: "Authorization,Content-Type",
		Build:          BuildInfo{Version: "test"},
	}, logger)

	return &testEnv{store: store, images: images, router: router, seller: farmer}
}

// addListing stores an active listing owned by the env's farmer
func (e *testEnv) addListing(name string, category model.Category, phone *string) model.Listing {
	listing := model.Listing{
		ID:                uuid.New(),
		SellerID:          e.seller.UserID,
		Name:              name,
		Category:          category,
		Price:             decimal.RequireFromString("2.50"),
		Unit:              model.UnitPound,
		QuantityAvailable: 5,
		Active:            true,
		CreatedAt:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Seller: model.Seller{
			ProfileID:   e.seller.ID,
			DisplayName: e.seller.FullName,
			Location:    e.seller.Location,
			Phone:       phone,
			Available:   true,
		},
	}
	e.store.mu.Lock()
	e.store.listings = append(e.store.listings, listing)
	e.store.mu.Unlock()
	return listing
}

func signToken(t *testing.T, userID uuid.UUID, role model.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      userID.String(),
		"app_role": string(role),
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// do sends a request with an optional JSON body and bearer token
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
