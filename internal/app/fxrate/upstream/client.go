// Package upstream talks to the one-frame-style quote provider: a single
// batch GET carrying one `pair` query parameter per tracked ordered pair,
// retried with exponential backoff.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"fxrateproxy/internal/app/fxrate/entity"
	"fxrateproxy/pkg/logger"
)

// ErrLookupFailed wraps the detail of an upstream fetch that never succeeded
// after exhausting retries.
var ErrLookupFailed = errors.New("upstream: lookup failed")

const baseBackoff = 100 * time.Millisecond

// Config mirrors the ambient options in SPEC_FULL.md §6.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
}

// Client is the Upstream Client of spec.md §4.A. Stateless with respect to
// its caller: safe to share read-only across goroutines.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// quoteRecord is the upstream's wire shape; only Price is consumed.
type quoteRecord struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Bid       string `json:"bid"`
	Ask       string `json:"ask"`
	Price     string `json:"price"`
	Timestamp string `json:"time_stamp"`
}

// FetchAll performs one batch fetch of every tracked ordered pair, retrying
// on any transport error, non-2xx status, or decode failure. The delay
// between attempts doubles starting at 100ms and is interruptible via ctx.
func (c *Client) FetchAll(ctx context.Context) ([]entity.Rate, error) {
	var lastErr error

	attempts := c.cfg.MaxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := baseBackoff * time.Duration(1<<uint(attempt-1))
			logger.Warn().
				Int("attempt", attempt+1).
				Dur("delay", delay).
				Err(lastErr).
				Msg("upstream fetch retrying")

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrLookupFailed, ctx.Err())
			case <-time.After(delay):
			}
		}

		rates, err := c.fetchOnce(ctx)
		if err == nil {
			return rates, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrLookupFailed, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) ([]entity.Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.URL.RawQuery = pairQuery().Encode()
	req.Header.Set("token", c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var records []quoteRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return toRates(records), nil
}

// pairQuery builds the 72 `pair=<FromTo>` query parameters for the tracked set.
func pairQuery() url.Values {
	v := url.Values{}
	for _, from := range entity.TrackedCurrencies {
		for _, to := range entity.TrackedCurrencies {
			if from == to {
				continue
			}
			v.Add("pair", string(from)+string(to))
		}
	}
	return v
}

// toRates validates and maps surviving records. Rows with a currency outside
// the whitelist are dropped silently per spec.md §4.A; rows with an
// unparseable price are dropped with a warning log.
func toRates(records []quoteRecord) []entity.Rate {
	rates := make([]entity.Rate, 0, len(records))
	for _, r := range records {
		from, to := entity.Currency(r.From), entity.Currency(r.To)
		if !from.IsValid() || !to.IsValid() {
			continue
		}

		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			logger.Warn().Str("from", r.From).Str("to", r.To).Str("price", r.Price).
				Msg("upstream record has unparseable price, dropping")
			continue
		}

		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			// Timestamp parse failure substitutes local time rather than
			// dropping the record; see SPEC_FULL.md §9 design note.
			ts = time.Now()
		}

		rates = append(rates, entity.Rate{
			Pair:      entity.Pair{From: from, To: to},
			Price:     price,
			Timestamp: ts,
		})
	}
	return rates
}
