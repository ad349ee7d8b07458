package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"starwarsproxy/src/domain"
	"time"
)

const (
	// DefaultTimeout é o timeout de cada chamada upstream.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize é o maior corpo aceito (10MB).
	MaxResponseSize = 10 * 1024 * 1024
)

// StatusError representa uma resposta não-2xx do upstream.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return domain.ErrUpstream
}

// HasStatus informa se err é um StatusError com o código dado.
func HasStatus(err error, statusCode int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == statusCode
}

// Client embrulha o http.Client com timeout, limite de tamanho e log.
type Client struct {
	client *http.Client
	logger *slog.Logger
}

func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logger,
	}
}

// GetJSON faz um GET e decodifica o corpo em out. Falhas de rede, timeout e
// status não-2xx são devolvidos embrulhando domain.ErrUpstream.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("httpclient.GetJSON - failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Upstream request failed", "method", req.Method, "url", url, "error", err)
		return fmt.Errorf("httpclient.GetJSON - %s: %w: %w", url, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Upstream request", "method", req.Method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drena o corpo para reaproveitar a conexão.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))
		return &StatusError{Method: req.Method, URL: url, StatusCode: resp.StatusCode}
	}

	if resp.ContentLength > MaxResponseSize {
		return fmt.Errorf("httpclient.GetJSON - response too large: %d bytes: %w", resp.ContentLength, domain.ErrUpstream)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return fmt.Errorf("httpclient.GetJSON - failed to read body from %s: %w: %w", url, domain.ErrUpstream, err)
	}
	if len(body) > MaxResponseSize {
		return fmt.Errorf("httpclient.GetJSON - response body too large from %s: %w", url, domain.ErrUpstream)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient.GetJSON - failed to decode body from %s: %w: %w", url, domain.ErrUpstream, err)
	}

	return nil
}
