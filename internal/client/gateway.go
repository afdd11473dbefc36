package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultTimeout = 15 * time.Second

// Response is a successful envelope, fields still encoded.
type Response map[string]json.RawMessage

// Decode unmarshals one result field into v.
func (r Response) Decode(key string, v any) error {
	raw, ok := r[key]
	if !ok {
		return fmt.Errorf("%w: field %q missing", ErrMalformedResponse, key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrMalformedResponse, key, err)
	}
	return nil
}

func (r Response) String(key string) string {
	var s string
	_ = json.Unmarshal(r[key], &s)
	return s
}

func (r Response) Bool(key string) bool {
	var b bool
	_ = json.Unmarshal(r[key], &b)
	return b
}

// Gateway posts {"action", "data"} to one endpoint (the edge proxy or the
// backend itself) and turns every non-success outcome into an *Error.
type Gateway struct {
	endpoint string
	http     *http.Client
}

func NewGateway(endpoint string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{endpoint: endpoint, http: &http.Client{Timeout: timeout}}
}

func (g *Gateway) Request(ctx context.Context, action string, payload any) (Response, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(map[string]any{"action": action, "data": payload})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: TransportFailure, Action: action, Message: "connection error: " + err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: TransportFailure, Action: action, Status: resp.StatusCode, Message: "connection error: " + err.Error(), Err: err}
	}

	var fields Response
	jsonErr := json.Unmarshal(text, &fields)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if s := fields.String("error"); jsonErr == nil && s != "" {
			msg = s
		}
		if resp.StatusCode == http.StatusBadGateway {
			msg = "connection error: " + msg
		}
		return nil, &Error{Kind: TransportFailure, Action: action, Status: resp.StatusCode, Message: msg}
	}
	if jsonErr != nil || fields == nil {
		return nil, &Error{Kind: MalformedResponse, Action: action, Status: resp.StatusCode, Message: "response is not JSON", Err: jsonErr}
	}
	if msg := fields.String("error"); msg != "" || !fields.Bool("success") {
		if msg == "" {
			msg = "request failed"
		}
		return nil, &Error{Kind: Remote, Action: action, Status: resp.StatusCode, Message: msg}
	}
	return fields, nil
}
