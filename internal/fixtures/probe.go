package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/okian/recupero/pkg/logger"
)

type analysisRequest struct {
	Student string `json:"student"`
}

type analysisResponse struct {
	State string `json:"state"`
}

// checkHealth fails unless GET /healthz answers 200.
func checkHealth(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// probe analyzes each query through the JSON API with cfg.Workers workers
// and tallies the resulting states.
func probe(ctx context.Context, cfg *Config, queries []string, stats *Stats) error {
	client := &http.Client{Timeout: cfg.Timeout}
	if err := checkHealth(ctx, client, cfg.BaseURL); err != nil {
		return err
	}

	url := cfg.BaseURL + "/api/v1/analyses"
	work := make(chan string, cfg.Workers*2)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	stats.States = make(map[string]int)

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range work {
				state, err := analyzeOne(ctx, client, url, q)

				mu.Lock()
				stats.Probed++
				if err != nil {
					stats.Failed++
				} else {
					stats.States[state]++
				}
				mu.Unlock()

				if err != nil {
					logger.Get().Warn(ctx, "probe failed", logger.Error(err))
				} else if cfg.Verbose {
					logger.Get().Info(ctx, "probe finished",
						logger.Int("query_len", len(q)),
						logger.String("state", state))
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, q := range queries {
			select {
			case <-ctx.Done():
				return
			case work <- q:
			}
		}
	}()

	wg.Wait()
	return ctx.Err()
}

func analyzeOne(ctx context.Context, client *http.Client, url, query string) (string, error) {
	body, err := json.Marshal(analysisRequest{Student: query})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var out analysisResponse
	if err := json.Unmarshal(raw, &out); err != nil || out.State == "" {
		return "", fmt.Errorf("unexpected response (status %d)", resp.StatusCode)
	}
	return out.State, nil
}
