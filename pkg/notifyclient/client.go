// Package notifyclient posts toasts to a running dashboard.
package notifyclient

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/betbot/gobet-dashboard/internal/notify"
)

type Client struct {
	client *resty.Client
}

// Option 客户端选项
type Option func(*resty.Client)

// WithTimeout 设置单次请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetry 设置重试次数和初始等待时间
func WithRetry(count int, wait time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).SetRetryWaitTime(wait)
	}
}

func New(host string, opts ...Option) *Client {
	host = strings.TrimSuffix(host, "/")

	client := resty.New().
		SetBaseURL(host).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "gobet-dashboard-notify").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			// 429 限流和 5xx 才重试
			return resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500
		})
	for _, opt := range opts {
		opt(client)
	}
	return &Client{client: client}
}

// Request is one toast to publish.
type Request struct {
	Level    notify.Level
	Title    string
	Message  string
	Duration time.Duration // 0 uses the server default
}

type createBody struct {
	Level    notify.Level `json:"level,omitempty"`
	Title    string       `json:"title"`
	Message  string       `json:"message,omitempty"`
	Duration string       `json:"duration,omitempty"`
}

type apiError struct {
	Error string `json:"error"`
}

// Send publishes a toast and returns it as stored by the server.
func (c *Client) Send(ctx context.Context, req Request) (notify.Toast, error) {
	body := createBody{Level: req.Level, Title: req.Title, Message: req.Message}
	if req.Duration > 0 {
		body.Duration = req.Duration.String()
	}

	var out notify.Toast
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/notifications")
	if err != nil {
		return notify.Toast{}, errors.Wrap(err, "post notification")
	}
	if resp.IsError() {
		return notify.Toast{}, statusError(resp, apiErr)
	}
	return out, nil
}

// Recent returns up to limit toasts, newest first.
func (c *Client) Recent(ctx context.Context, limit int) ([]notify.Toast, error) {
	var out []notify.Toast
	var apiErr apiError
	r := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr)
	if limit > 0 {
		r.SetQueryParam("limit", strconv.Itoa(limit))
	}
	resp, err := r.Get("/api/notifications")
	if err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	if resp.IsError() {
		return nil, statusError(resp, apiErr)
	}
	return out, nil
}

func statusError(resp *resty.Response, apiErr apiError) error {
	if apiErr.Error != "" {
		return errors.Errorf("dashboard returned %d: %s", resp.StatusCode(), apiErr.Error)
	}
	return errors.Errorf("dashboard returned %d", resp.StatusCode())
}
