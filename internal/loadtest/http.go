package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/okian/rigcheck/internal/domain/model"
)

// client wraps http.Client with the run's base URL and admin token.
type client struct {
	http    *http.Client
	baseURL string
	token   string
}

func newClient(cfg Config) *client {
	return &client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AdminToken,
	}
}

func (c *client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) (int, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}

func (c *client) getJSON(ctx context.Context, path string, admin bool, out any) error {
	var headers map[string]string
	if admin {
		headers = map[string]string{"Authorization": "Bearer " + c.token}
	}
	code, err := c.do(ctx, http.MethodGet, path, nil, headers, out)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, code)
	}
	return nil
}

func (c *client) health(ctx context.Context) error {
	code, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if code != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, code)
	}
	return nil
}

func (c *client) catalog(ctx context.Context) (catalogView, error) {
	var games struct {
		Games []model.Game `json:"games"`
	}
	if err := c.getJSON(ctx, "/games", false, &games); err != nil {
		return catalogView{}, err
	}
	var comps struct {
		Components []model.Component `json:"components"`
	}
	if err := c.getJSON(ctx, "/components", false, &comps); err != nil {
		return catalogView{}, err
	}

	view := catalogView{parts: make(map[model.ComponentType][]string, len(model.ComponentTypes))}
	for _, g := range games.Games {
		view.games = append(view.games, g.Title)
	}
	for _, comp := range comps.Components {
		view.parts[comp.Type] = append(view.parts[comp.Type], comp.Name)
	}
	if len(view.games) == 0 || len(view.parts[model.CPU]) == 0 || len(view.parts[model.GPU]) == 0 {
		return catalogView{}, fmt.Errorf("catalog has no games or parts to draw from")
	}
	return view, nil
}

func (c *client) stats(ctx context.Context) (adminStats, error) {
	var st adminStats
	err := c.getJSON(ctx, "/admin/stats", true, &st)
	return st, err
}

// sendResult is the outcome of every submission of one request id.
type sendResult struct {
	sent, succeeded, failed int
	// recorded holds the request ids with at least one 200, mapped to the game.
	recorded map[string]string
}

// send posts checks from a pool of workers.
func (c *client) send(ctx context.Context, checks []Check, workers int) sendResult {
	jobs := make(chan Check, workers*2)
	var (
		mu  sync.Mutex
		res = sendResult{recorded: make(map[string]string, len(checks))}
		wg  sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chk := range jobs {
				code, err := c.do(ctx, http.MethodPost, "/compatibility", chk,
					map[string]string{"X-Request-ID": chk.RequestID}, nil)
				mu.Lock()
				res.sent++
				if err == nil && code == http.StatusOK {
					res.succeeded++
					res.recorded[chk.RequestID] = chk.Game
				} else {
					res.failed++
				}
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, chk := range checks {
			select {
			case <-ctx.Done():
				return
			case jobs <- chk:
			}
		}
	}()
	wg.Wait()
	return res
}

// waitRecorded polls /admin/stats until total_checks reaches want or settle
// elapses, returning the last stats seen.
func (c *client) waitRecorded(ctx context.Context, want int, settle time.Duration) (adminStats, error) {
	deadline := time.Now().Add(settle)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		st, err := c.stats(ctx)
		if err != nil {
			return st, err
		}
		if (st.TotalChecks >= want && st.QueueLength == 0) || time.Now().After(deadline) {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-tick.C:
		}
	}
}
