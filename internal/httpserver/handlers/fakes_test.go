package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bundlepitch/internal/billing"
	"github.com/MrSnakeDoc/bundlepitch/internal/copygen"
	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
	"github.com/MrSnakeDoc/bundlepitch/internal/scheduler"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// countingGenerator wraps the real generator and counts calls.
type countingGenerator struct {
	*copygen.Generator
	calls int
}

func (g *countingGenerator) Generate(name string, tone domain.Tone, items []domain.BundleItem) domain.GeneratedCopy {
	g.calls++
	return g.Generator.Generate(name, tone, items)
}

type fakeHistory struct {
	mu       sync.Mutex
	saved    []domain.HistoryRecord
	list     []domain.HistoryRecord
	count    int
	saveErr  error
	listErr  error
	countErr error
	gotLimit int
}

func (f *fakeHistory) Save(_ context.Context, rec *domain.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, *rec)
	return nil
}

func (f *fakeHistory) List(_ context.Context, _ string, limit int) ([]domain.HistoryRecord, error) {
	f.gotLimit = limit
	return f.list, f.listErr
}

func (f *fakeHistory) Count(context.Context, string) (int, error) { return f.count, f.countErr }
func (f *fakeHistory) Ping(context.Context) error                  { return nil }

// tallyHistory counts what was actually saved. Count is slow so that
// unserialised callers would all read the same value.
type tallyHistory struct {
	mu    sync.Mutex
	saved int
}

func (h *tallyHistory) Save(context.Context, *domain.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.saved++
	return nil
}

func (h *tallyHistory) List(context.Context, string, int) ([]domain.HistoryRecord, error) {
	return nil, nil
}

func (h *tallyHistory) Count(context.Context, string) (int, error) {
	h.mu.Lock()
	n := h.saved
	h.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	return n, nil
}

func (h *tallyHistory) Ping(context.Context) error { return nil }

type fakeCheckout struct {
	gotUser string
	err     error
}

func (f *fakeCheckout) CreateCheckoutSession(_ context.Context, userID string) (*billing.CheckoutSession, error) {
	f.gotUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return &billing.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/pay/cs_1"}, nil
}

type fakeWebhook struct {
	event *billing.Event
	err   error
}

func (f *fakeWebhook) Parse(_ []byte, sig string) (*billing.Event, error) {
	if sig == "" {
		return nil, billing.ErrInvalidSignature
	}
	return f.event, f.err
}

type fakeMarker struct {
	users []string
	err   error
}

func (f *fakeMarker) MarkSubscribed(_ context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.users = append(f.users, userID)
	return nil
}

// fakeClaims mimics SETNX semantics in memory.
type fakeClaims struct {
	claimed  map[string]bool
	released []string
	err      error
}

func (f *fakeClaims) Claim(_ context.Context, id string, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.claimed == nil {
		f.claimed = map[string]bool{}
	}
	if f.claimed[id] {
		return false, nil
	}
	f.claimed[id] = true
	return true, nil
}

func (f *fakeClaims) Release(_ context.Context, id string) error {
	delete(f.claimed, id)
	f.released = append(f.released, id)
	return nil
}

type fakeAuth struct {
	gotEmail    string
	gotRedirect string
	sendErr     error
	refreshErr  error
}

func (f *fakeAuth) SendMagicLink(_ context.Context, email, redirectTo string) error {
	f.gotEmail, f.gotRedirect = email, redirectTo
	return f.sendErr
}

func (f *fakeAuth) Refresh(_ context.Context, token string) (*domain.AuthTokens, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &domain.AuthTokens{AccessToken: "new-" + token, RefreshToken: "r2", TokenType: "bearer", ExpiresIn: 3600}, nil
}

type fakeHealth struct {
	ready  bool
	status []scheduler.Status
}

func (f fakeHealth) Ready() bool                  { return f.ready }
func (f fakeHealth) Snapshot() []scheduler.Status { return f.status }

var errBoom = errors.New("boom")

func testDeps() (deps.Deps, *countingGenerator, *fakeHistory) {
	gen := &countingGenerator{Generator: copygen.New()}
	hist := &fakeHistory{}
	return deps.Deps{
		Logger:          logger.NewNop(),
		StartTime:       fixedNow.Add(-time.Minute),
		TimeNow:         func() time.Time { return fixedNow },
		NewID:           func() string { return "rec-fixed" },
		FrontendURL:     "https://app.example.com",
		HistoryBackend:  "redis",
		HistoryLimit:    10,
		WebhookDedupTTL: time.Hour,
		Generator:       gen,
		History:         hist,
	}, gen, hist
}

func withSession(r *http.Request, userID string, subscribed bool) *http.Request {
	return r.WithContext(domain.WithSession(r.Context(), &domain.Session{UserID: userID, Subscribed: subscribed}))
}

func do(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func post(path, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}
