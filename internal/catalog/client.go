// Package catalog is the read-only client for the venue-booking backend.
// Reads are bounded by an explicit timeout and degrade to empty results on
// timeout, non-2xx responses or malformed bodies: a failed fetch must never
// take the listing path down with it.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/venuebook/bookgo/internal/domain"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// ListParams filter the regular-programs listing.
type ListParams struct {
	BookingType string
	IncludePast bool
	Page        int
	PageSize    int
}

type listResponse struct {
	Items []domain.ProgramRecord `json:"items"`
}

// ListPrograms fetches program records. Any failure degrades to an empty
// slice after a warn log; callers render what they get.
func (c *Client) ListPrograms(ctx context.Context, params ListParams) []domain.ProgramRecord {
	const op = "catalog.ListPrograms"

	q := url.Values{}
	q.Set("booking_type", params.BookingType)
	q.Set("include_past", strconv.FormatBool(params.IncludePast))
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(params.PageSize))
	}

	var out listResponse
	if err := c.getJSON(ctx, "/bookings/regular-programs?"+q.Encode(), &out); err != nil {
		c.logger.Warn("program listing degraded to empty", "op", op, "error", err)
		return nil
	}

	return out.Items
}

// LiveSoldCounts fetches the authoritative sold-count override map for live
// shows. Failures degrade to an empty map, leaving regex-derived counts in
// effect.
func (c *Client) LiveSoldCounts(ctx context.Context) map[string]int64 {
	const op = "catalog.LiveSoldCounts"

	out := make(map[string]int64)
	if err := c.getJSON(ctx, "/program_participants/counts/live", &out); err != nil {
		c.logger.Warn("live sold counts degraded to empty", "op", op, "error", err)
		return map[string]int64{}
	}

	return out
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
