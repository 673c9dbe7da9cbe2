package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"msver/internal/structures"
)

// PageFetcherInterface is the outbound HTTP surface of both harvesters.
type PageFetcherInterface interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

type HttpProvider struct {
	client    *http.Client
	userAgent string
	logger    Logger
}

// NewHttpProvider builds the shared HTTP client. The client-level
// timeout bounds a stalled harvester run; a timeout surfaces as a run
// failure, not a crash.
func NewHttpProvider(conf *structures.Config, logger Logger) PageFetcherInterface {
	return &HttpProvider{
		client: &http.Client{
			Timeout: conf.HTTPClient.Timeout,
		},
		userAgent: conf.HTTPClient.UserAgent,
		logger:    logger,
	}
}

func (h *HttpProvider) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: read body: %w", url, err)
	}

	h.logger.Debugf(TypeHarvest, "Fetched %s (%d bytes)", url, len(body))
	return string(body), nil
}
