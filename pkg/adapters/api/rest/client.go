// Package rest implementa los puertos del backend de documentos sobre su API REST (prefijo /api/).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	apiPrefix      = "/api/"
	defaultTimeout = 30 * time.Second
)

// Client habla con el backend. Es seguro para uso concurrente.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics
	logger     zerolog.Logger

	mu        sync.RWMutex
	authToken string
}

// Option configura el cliente.
type Option func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration
	token      string
	rps        float64
	burst      int
	registerer prometheus.Registerer
	logger     zerolog.Logger
}

func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) { cfg.httpClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

func WithAuthToken(token string) Option {
	return func(cfg *clientConfig) { cfg.token = token }
}

// WithRateLimit limita las peticiones salientes; rps <= 0 desactiva el límite.
func WithRateLimit(rps float64, burst int) Option {
	return func(cfg *clientConfig) {
		cfg.rps = rps
		cfg.burst = burst
	}
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(cfg *clientConfig) { cfg.registerer = reg }
}

func WithLogger(l zerolog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = l }
}

// NewClient crea un cliente para baseURL (por ejemplo "http://localhost:8000", sin /api).
func NewClient(baseURL string, opts ...Option) *Client {
	cfg := clientConfig{
		timeout: defaultTimeout,
		rps:     10,
		burst:   20,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: cfg.timeout}
	}

	limit := rate.Inf
	if cfg.rps > 0 {
		limit = rate.Limit(cfg.rps)
	}
	burst := cfg.burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cfg.httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		metrics:    newMetrics(cfg.registerer),
		logger:     cfg.logger.With().Str("component", "rest").Logger(),
		authToken:  cfg.token,
	}
}

// SetAuthToken fija el token que se envía en Authorization.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

// AuthToken devuelve el token actual.
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// doRequest envía la petición. route es la ruta sin ids y se usa como etiqueta de métricas.
func (c *Client) doRequest(ctx context.Context, method, route, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.AuthToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	c.metrics.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())

	if err != nil {
		c.metrics.requests.WithLabelValues(method, route, "error").Inc()
		c.logger.Error().Err(err).Str("request_id", requestID).Str("method", method).Str("path", path).Msg("request failed")
		return nil, fmt.Errorf("failed to send %s %s: %w", method, path, err)
	}

	c.metrics.requests.WithLabelValues(method, route, strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("request completed")
	return resp, nil
}

// decodeResponse decodifica el JSON de la respuesta en target y cierra el cuerpo.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{
		Method:     resp.Request.Method,
		Path:       resp.Request.URL.Path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func (c *Client) call(ctx context.Context, method, route, path string, body, target any) error {
	resp, err := c.doRequest(ctx, method, route, path, body)
	if err != nil {
		return err
	}
	return decodeResponse(resp, target)
}
