package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

// historyRow is the copy_history table layout.
type historyRow struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	BundleName string               `json:"bundle_name"`
	Tone       string               `json:"tone"`
	ToneLabel  string               `json:"tone_label"`
	Copy       domain.GeneratedCopy `json:"copy"`
	CreatedAt  time.Time            `json:"created_at"`
}

func (r historyRow) record() domain.HistoryRecord {
	if r.Copy.Bullets == nil {
		r.Copy.Bullets = []string{}
	}
	return domain.HistoryRecord{
		ID:         r.ID,
		UserID:     r.UserID,
		BundleName: r.BundleName,
		Tone:       domain.Tone(r.Tone),
		ToneLabel:  r.ToneLabel,
		Copy:       r.Copy,
		CreatedAt:  r.CreatedAt,
	}
}

func (c *Client) tablePath() string {
	return "/rest/v1/" + url.PathEscape(c.table)
}

// Save inserts rec into the history table.
func (c *Client) Save(ctx context.Context, rec *domain.HistoryRecord) error {
	row := historyRow{
		ID:         rec.ID,
		UserID:     rec.UserID,
		BundleName: rec.BundleName,
		Tone:       string(rec.Tone),
		ToneLabel:  rec.ToneLabel,
		Copy:       rec.Copy,
		CreatedAt:  rec.CreatedAt.UTC(),
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.tablePath(), nil, c.serviceKey, row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	if _, err := c.do(req, nil); err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}

// List returns up to limit records of userID, newest first.
func (c *Client) List(ctx context.Context, userID string, limit int) ([]domain.HistoryRecord, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+userID)
	q.Set("order", "created_at.desc")
	q.Set("limit", strconv.Itoa(limit))

	req, err := c.newRequest(ctx, http.MethodGet, c.tablePath(), q, c.serviceKey, nil)
	if err != nil {
		return nil, err
	}

	var rows []historyRow
	if _, err := c.do(req, &rows); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	out := make([]domain.HistoryRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

// Count returns the number of records stored for userID.
func (c *Client) Count(ctx context.Context, userID string) (int, error) {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("user_id", "eq."+userID)

	req, err := c.newRequest(ctx, http.MethodHead, c.tablePath(), q, c.serviceKey, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.do(req, nil)
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return parseContentRange(resp.Header.Get("Content-Range"))
}

// Ping checks that the history table is reachable.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")

	req, err := c.newRequest(ctx, http.MethodHead, c.tablePath(), q, c.serviceKey, nil)
	if err != nil {
		return err
	}
	if _, err := c.do(req, nil); err != nil {
		return fmt.Errorf("ping supabase: %w", err)
	}
	return nil
}

// parseContentRange extracts the total from "0-9/42" or "*/0".
func parseContentRange(v string) (int, error) {
	i := strings.LastIndexByte(v, '/')
	if i < 0 {
		return 0, fmt.Errorf("invalid content range %q", v)
	}
	total := v[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("content range %q carries no total", v)
	}
	n, err := strconv.Atoi(total)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid content range %q", v)
	}
	return n, nil
}
