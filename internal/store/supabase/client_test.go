package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

const (
	serviceKey = "service-role-key"
	anonKey    = "anon-key"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		URL:        srv.URL + "/",
		ServiceKey: serviceKey,
		AnonKey:    anonKey,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{URL: "not a url", ServiceKey: "k"})
	require.Error(t, err)

	_, err = New(Config{URL: "https://x.supabase.co"})
	require.Error(t, err)

	c, err := New(Config{URL: "https://x.supabase.co/", ServiceKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "https://x.supabase.co", c.base)
	assert.Equal(t, "k", c.anonKey, "anon key defaults to the service key")
	assert.Equal(t, "copy_history", c.table)
}

func TestSave(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/copy_history", r.URL.Path)
		assert.Equal(t, serviceKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+serviceKey, r.Header.Get("Authorization"))
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	rec := &domain.HistoryRecord{
		ID:         "rec-1",
		UserID:     "user-1",
		BundleName: "Gift Set",
		Tone:       domain.ToneLuxury,
		ToneLabel:  "Luxury & Elegant",
		Copy:       domain.GeneratedCopy{Title: "T", Pitch: "P", Bullets: []string{"a"}, Instagram: "I"},
		CreatedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Save(context.Background(), rec))

	assert.Equal(t, "rec-1", got["id"])
	assert.Equal(t, "user-1", got["user_id"])
	assert.Equal(t, "luxury", got["tone"])
	assert.Equal(t, "Luxury & Elegant", got["tone_label"])
	assert.Equal(t, "2024-03-01T10:00:00Z", got["created_at"])
	copyObj, ok := got["copy"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "T", copyObj["title"])
}

func TestList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.user-1", q.Get("user_id"))
		assert.Equal(t, "created_at.desc", q.Get("order"))
		assert.Equal(t, "5", q.Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":"b","user_id":"user-1","bundle_name":"Two","tone":"warm","tone_label":"Warm & Friendly",
			 "copy":{"title":"t2","pitch":"p","bullets":null,"instagram":"i"},"created_at":"2024-03-02T00:00:00Z"},
			{"id":"a","user_id":"user-1","bundle_name":"One","tone":"casual","tone_label":"Casual & Relaxed",
			 "copy":{"title":"t1","pitch":"p","bullets":["x"],"instagram":"i"},"created_at":"2024-03-01T00:00:00Z"}
		]`)
	})

	recs, err := c.List(context.Background(), "user-1", 5)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID)
	assert.Equal(t, domain.ToneCasual, recs[1].Tone)
	assert.NotNil(t, recs[0].Copy.Bullets, "null bullets become an empty list")
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), recs[0].CreatedAt)
}

func TestCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		assert.Equal(t, "eq.user-9", r.URL.Query().Get("user_id"))
		w.Header().Set("Content-Range", "0-6/7")
	})

	n, err := c.Count(context.Background(), "user-9")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0-9/42", 42, false},
		{"*/0", 0, false},
		{"0-0/*", 0, true},
		{"", 0, true},
		{"0-1/abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseContentRange(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestMarkSubscribed(t *testing.T) {
	var body map[string]map[string]bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/auth/v1/admin/users/user-42", r.URL.Path)
		assert.Equal(t, serviceKey, r.Header.Get("apikey"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"id":"user-42"}`)
	})

	require.NoError(t, c.MarkSubscribed(context.Background(), "user-42"))
	assert.True(t, body["user_metadata"]["is_subscribed"])

	require.Error(t, c.MarkSubscribed(context.Background(), ""))
}

func TestMarkSubscribed_Errors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":404,"error_code":"user_not_found","msg":"User not found"}`)
	})

	err := c.MarkSubscribed(context.Background(), "ghost")
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "user_not_found", apiErr.Code)
	assert.Equal(t, "User not found", apiErr.Message)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestUnauthorizedMapping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid API key"}`)
	})

	_, err := c.List(context.Background(), "u", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestSendMagicLink(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/otp", r.URL.Path)
		assert.Equal(t, "https://app.example.com/app", r.URL.Query().Get("redirect_to"))
		assert.Equal(t, anonKey, r.Header.Get("apikey"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{}`)
	})

	require.NoError(t, c.SendMagicLink(context.Background(), "seller@example.com", "https://app.example.com/app"))
	assert.Equal(t, "seller@example.com", body["email"])
	assert.Equal(t, true, body["create_user"])
}

func TestRefresh(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["refresh_token"] != "good" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid Refresh Token"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"at","refresh_token":"rt2","token_type":"bearer","expires_in":3600,"expires_at":1700000000}`)
	})

	tokens, err := c.Refresh(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, domain.AuthTokens{
		AccessToken:  "at",
		RefreshToken: "rt2",
		TokenType:    "bearer",
		ExpiresIn:    3600,
		ExpiresAt:    1700000000,
	}, *tokens)

	_, err = c.Refresh(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Contains(t, err.Error(), "Invalid Refresh Token")

	_, err = c.Refresh(context.Background(), "")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestPing(t *testing.T) {
	var down atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	require.NoError(t, c.Ping(context.Background()))
	down.Store(true)
	require.Error(t, c.Ping(context.Background()))
}
