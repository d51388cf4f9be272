package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/bundlepitch/internal/billing"
	"github.com/MrSnakeDoc/bundlepitch/internal/copygen"
	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
	"github.com/MrSnakeDoc/bundlepitch/internal/scheduler"
)

// CopyGenerator produces marketing copy (copygen.Generator).
type CopyGenerator interface {
	Generate(bundleName string, tone domain.Tone, items []domain.BundleItem) domain.GeneratedCopy
	Label(tone domain.Tone) string
	Tones() []copygen.ToneOption
}

// HistoryStore persists generated copy per user.
type HistoryStore interface {
	Save(ctx context.Context, rec *domain.HistoryRecord) error
	List(ctx context.Context, userID string, limit int) ([]domain.HistoryRecord, error)
	Count(ctx context.Context, userID string) (int, error)
	Ping(ctx context.Context) error
}

// SessionVerifier turns a bearer token into a session (auth.Verifier).
type SessionVerifier interface {
	Verify(token string) (*domain.Session, error)
}

// AuthClient forwards end-user auth calls to the identity provider.
type AuthClient interface {
	SendMagicLink(ctx context.Context, email, redirectTo string) error
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthTokens, error)
}

// CheckoutCreator opens hosted checkout sessions (billing.Checkout).
type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, userID string) (*billing.CheckoutSession, error)
}

// WebhookParser verifies and decodes processor webhooks (billing.Webhook).
type WebhookParser interface {
	Parse(payload []byte, sigHeader string) (*billing.Event, error)
}

// SubscriptionMarker flags a user as subscribed in the identity store.
type SubscriptionMarker interface {
	MarkSubscribed(ctx context.Context, userID string) error
}

// EventClaimer de-duplicates webhook deliveries.
type EventClaimer interface {
	Claim(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, eventID string) error
}

// RateLimiter counts hits in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, subject string, limit int, window time.Duration) (bool, time.Duration, error)
}

// HealthReporter exposes cached dependency probes (scheduler.HealthMonitor).
type HealthReporter interface {
	Ready() bool
	Snapshot() []scheduler.Status
}

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	NewID          func() string    // record ids, defaults to uuid.NewString
	AllowedHosts   []string         // Host headers allowed to access the server
	AllowedCIDRS   []string         // IPs allowed to access healthz/readyz/infra
	AllowedOrigins []string         // CORS origins
	TrustProxy     bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	FrontendURL    string           // base for redirects handed to Stripe and the identity provider
	HistoryBackend string           // reported by /infra

	HistoryLimit    int           // default page size of /api/copy-history
	FreeLimit       int           // free generations per user, 0 = unlimited
	RateLimit       int           // generations per RateWindow
	RateWindow      time.Duration // fixed rate window
	WebhookDedupTTL time.Duration // how long processed event ids are remembered

	Generator     CopyGenerator
	History       HistoryStore
	Sessions      SessionVerifier
	Auth          AuthClient
	Checkout      CheckoutCreator
	Webhooks      WebhookParser
	Subscriptions SubscriptionMarker
	Events        EventClaimer
	Limiter       RateLimiter
	Health        HealthReporter
}

// Now returns the current time using TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
