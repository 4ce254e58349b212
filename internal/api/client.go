package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultTimeout 单次请求的总时限，不重试
const DefaultTimeout = 10 * time.Second

const maxBody = 4 << 20

var backendReqTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "console_backend_requests_total", Help: "Count of requests sent to the clinic backend"},
	[]string{"op", "status"},
)

func init() { prometheus.MustRegister(backendReqTotal) }

// TokenSource 提供当前会话的 bearer token，空串表示未登录
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type StaticToken string

func (t StaticToken) Token() string { return string(t) }

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Logger     *zap.Logger
	HTTPClient *http.Client
}

type Client struct {
	base    string
	timeout time.Duration
	hc      *http.Client
	log     *zap.Logger
	tokens  TokenSource
}

func New(opt Options) *Client {
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	hc := opt.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Client{
		base:    strings.TrimRight(opt.BaseURL, "/"),
		timeout: opt.Timeout,
		hc:      hc,
		log:     opt.Logger,
	}
}

// WithSession 返回绑定到某个会话 token 的副本
func (c *Client) WithSession(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return strings.TrimSpace(c.tokens.Token())
}

// do 发请求；out 为 nil 或响应体为空时不解码
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api %s: encode: %w", op, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("api %s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		backendReqTotal.WithLabelValues(op, "network").Inc()
		c.log.Debug("backend request failed", zap.String("op", op), zap.String("method", method),
			zap.String("path", path), zap.Duration("latency", time.Since(start)), zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		backendReqTotal.WithLabelValues(op, "network").Inc()
		return &NetworkError{Op: op, Err: err}
	}
	backendReqTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug("backend",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api %s: decode: %w", op, err)
	}
	return nil
}
