package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"comhere/internal"
	"comhere/internal/config"
	"comhere/internal/domain"
	"comhere/internal/util"
)

// Client talks to the live parts catalog API. Every failure surfaces as an
// error; the pipeline decides whether to degrade to static-only matching.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.PartsTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.PartsRateLimitRPS),
	}
}

// FetchRecords retrieves the domain's part category for the configured region
// and converts each entry to a ReferenceRecord, applying the domain's
// exclusion filter.
func (c *Client) FetchRecords(ctx context.Context, d domain.Domain) ([]internal.ReferenceRecord, error) {
	body, err := c.fetchJSON(ctx, "parts/"+d.LiveCategory, map[string]string{"region": c.cfg.PartsAPIRegion})
	if err != nil {
		return nil, err
	}

	var payload map[string][]map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	out := make([]internal.ReferenceRecord, 0, len(payload[d.LiveCategory]))
	for _, raw := range payload[d.LiveCategory] {
		rec, ok := toLiveRecord(raw, d)
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	baseURL := strings.TrimRight(c.cfg.PartsAPIBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("parts api status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("parts api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var apiResp apiResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, err
		}
		if !apiResp.Success {
			return nil, fmt.Errorf("parts api unsuccessful: %s", string(apiResp.Errors))
		}
		return apiResp.Data, nil
	}

	if lastErr == nil {
		lastErr = errors.New("parts api request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// toLiveRecord converts one live API entry. GPU entries are keyed by chipset
// with the VRAM token split off; CPU entries combine brand and model and carry
// derived fields (thread count from cores and the SMT flag, clocks converted
// from raw cycle counts to GHz, price from a [currency, amount] pair).
func toLiveRecord(raw map[string]any, d domain.Domain) (internal.ReferenceRecord, bool) {
	if d.SplitVariants {
		chipset := strings.TrimSpace(stringOf(raw["chipset"]))
		if chipset == "" || d.Excluded(chipset) {
			return internal.ReferenceRecord{}, false
		}
		key := d.CanonicalKey(chipset)
		return internal.ReferenceRecord{Source: internal.SourceLive, Name: chipset, Key: key}, true
	}

	brand := strings.TrimSpace(stringOf(raw["brand"]))
	model := strings.TrimSpace(stringOf(raw["model"]))
	if brand == "" || model == "" {
		return internal.ReferenceRecord{}, false
	}
	name := brand + " " + model
	if d.Excluded(name) {
		return internal.ReferenceRecord{}, false
	}

	rec := internal.ReferenceRecord{
		Source:   internal.SourceLive,
		Name:     name,
		Key:      d.Rules.Apply(name),
		Cores:    toIntPtr(raw["cores"]),
		TDPWatt:  toIntPtr(raw["tdp"]),
		Graphics: toStringPtr(raw["integrated_graphics"]),
	}

	smt, hasSMT := raw["multithreading"].(bool)
	if hasSMT {
		rec.SMT = &smt
	}
	if rec.Cores != nil {
		threads := *rec.Cores
		if smt {
			threads *= 2
		}
		rec.Threads = &threads
	}

	rec.BaseClockGHz = clockGHz(raw["base_clock"])
	rec.BoostClockGHz = clockGHz(raw["boost_clock"])
	rec.PriceUSD = priceOf(raw["price"])

	return rec, true
}

// clockGHz converts a {"cycles": n} payload to GHz rounded to two decimals.
func clockGHz(v any) *float64 {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	cycles := toFloatPtr(m["cycles"])
	if cycles == nil {
		return nil
	}
	ghz := math.Round(*cycles/1e9*100) / 100
	return &ghz
}

// priceOf reads a [currency, amount] pair.
func priceOf(v any) *float64 {
	pair, ok := v.([]any)
	if !ok || len(pair) < 2 {
		return nil
	}
	return toFloatPtr(pair[1])
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func toStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return util.StringPtr(s)
}

func toIntPtr(v any) *int {
	switch t := v.(type) {
	case int:
		return util.IntPtr(t)
	case int64:
		return util.IntPtr(int(t))
	case float64:
		return util.IntPtr(int(t))
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return util.IntPtr(int(i))
		}
	}
	return nil
}

func toFloatPtr(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return util.FloatPtr(t)
	case int:
		return util.FloatPtr(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return util.FloatPtr(f)
		}
	}
	return nil
}
