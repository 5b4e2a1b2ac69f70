package slack

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"slackpost/pkg/logx"
)

// DefaultAPIBase is the Slack Web API root. Operations are appended to it.
const DefaultAPIBase = "https://slack.com/api/"

const defaultTimeout = 30 * time.Second

// responseBodyLimit caps how much of a reply we read. Slack replies are
// small; anything larger is not a Slack API answer.
const responseBodyLimit = 1 << 20

// ClientConfig is the immutable construction-time configuration of a Client.
type ClientConfig struct {
	// BaseURL defaults to DefaultAPIBase. Must end with "/".
	BaseURL string
	// Token is the OAuth access token, sent as a bearer credential. It is
	// never logged and never part of any error string.
	Token string

	Timeout            time.Duration
	InsecureSkipVerify bool

	// HTTPClient overrides the built transport entirely when set.
	HTTPClient *http.Client

	Logger logx.Logger
}

// Client performs single authenticated calls against the Slack Web API.
// It holds no state between calls.
type Client struct {
	base  string
	token string
	hc    *http.Client
	log   logx.Logger
}

func NewClient(cfg ClientConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultAPIBase
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		tr := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.InsecureSkipVerify {
			tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		hc = &http.Client{Timeout: timeout, Transport: tr}
	}

	return &Client{base: base, token: cfg.Token, hc: hc, log: cfg.Logger}
}

// TransportError is an HTTP-level failure: the request never completed
// (Status 0, Err set) or Slack answered with a non-200 status.
type TransportError struct {
	Endpoint string
	Payload  string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	detail := fmt.Sprintf("status %d", e.Status)
	if e.Err != nil {
		detail = e.Err.Error()
	}
	return fmt.Sprintf("failed to send %s to %s: %s", e.Payload, e.Endpoint, detail)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a remote rejection: status 200 but the reply's ok field is not
// true. The full parsed reply is kept for diagnosis.
type APIError struct {
	Payload  string
	Response *Response
}

func (e *APIError) Error() string {
	reply, _ := json.Marshal(e.Response.Raw)
	return fmt.Sprintf("slack rejected request: payload: %s, reply: %s", e.Payload, reply)
}

// Call issues exactly one POST of payload to the operation's endpoint and
// classifies the result. No retries, no caching. Cancellation comes from ctx;
// the overall deadline from the HTTP client's timeout.
func (c *Client) Call(ctx context.Context, op Operation, payload map[string]any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	endpoint := c.base + string(op)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	c.log.Debug("posting to slack",
		logx.String("endpoint", endpoint),
		logx.String("method", string(op)),
		logx.Int("payload_bytes", len(body)))

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Payload: string(body), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Endpoint: endpoint, Payload: string(body), Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", endpoint, err)
	}
	parsed, err := parseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse response from %s: %w", endpoint, err)
	}

	if !parsed.OK {
		return nil, &APIError{Payload: string(body), Response: parsed}
	}

	c.log.Debug("slack accepted message",
		logx.String("channel", parsed.Channel),
		logx.String("ts", parsed.TS))
	return parsed, nil
}

func parseResponse(raw []byte) (*Response, error) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}

	r := &Response{Raw: body}
	// Only a JSON boolean true acknowledges the request.
	if ok, isBool := body["ok"].(bool); isBool {
		r.OK = ok
	}
	r.Error, _ = body["error"].(string)
	r.Warning, _ = body["warning"].(string)
	r.Channel, _ = body["channel"].(string)
	r.TS, _ = body["ts"].(string)
	return r, nil
}
