package xtransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/propagation"

	"github.com/omeyang/xsplit/pkg/experiment/xevent"
	"github.com/omeyang/xsplit/pkg/resilience/xretry"
)

// DefaultHTTPTimeout 默认 HTTP 客户端超时
const DefaultHTTPTimeout = 10 * time.Second

// maxErrorBody 错误信息中保留的响应体长度上限
const maxErrorBody = 512

// Batch HTTP 请求体
type Batch struct {
	Events []xevent.Event `json:"events"`
}

// HTTPOption HTTP 传输配置
type HTTPOption func(*HTTP)

// WithHTTPClient 设置 HTTP 客户端，nil 忽略
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithHeader 为每个请求附加请求头
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) {
		h.header.Set(key, value)
	}
}

// WithPropagator 设置追踪上下文传播器，默认 W3C traceparent。nil 关闭传播。
func WithPropagator(p propagation.TextMapPropagator) HTTPOption {
	return func(h *HTTP) {
		h.propagator = p
	}
}

// HTTP 向收集服务 POST JSON 批次
type HTTP struct {
	endpoint   string
	client     *http.Client
	header     http.Header
	propagator propagation.TextMapPropagator
}

// NewHTTP 创建 HTTP 传输
func NewHTTP(endpoint string, opts ...HTTPOption) (*HTTP, error) {
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	h := &HTTP{
		endpoint:   endpoint,
		client:     &http.Client{Timeout: DefaultHTTPTimeout},
		header:     make(http.Header),
		propagator: propagation.TraceContext{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Send 发送一批事件
func (h *HTTP) Send(ctx context.Context, events []xevent.Event) error {
	if len(events) == 0 {
		return nil
	}
	body, err := json.Marshal(Batch{Events: events})
	if err != nil {
		return xretry.NewPermanentError(fmt.Errorf("xtransport: encode batch: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return xretry.NewPermanentError(fmt.Errorf("xtransport: build request: %w", err))
	}
	for k, vs := range h.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	if h.propagator != nil {
		h.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("xtransport: post batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(msg))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusRequestTimeout && resp.StatusCode != http.StatusTooManyRequests {
		return xretry.NewPermanentError(statusErr)
	}
	return statusErr
}
