package solver

import (
	"beat-planning-service/internal/platform/obs"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type errNonJSON struct {
	status int
	body   []byte
}

func (e *errNonJSON) Error() string {
	return fmt.Sprintf("non-JSON response (status %d)", e.status)
}

// A multipart body that can be replayed against several endpoints.
type payload struct {
	contentType string
	body        []byte
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	url string,
	token string,
	p *payload,
) (*http.Request, error) {
	var body io.Reader
	if p != nil {
		body = bytes.NewReader(p.body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Bypass-Tunnel-Reminder", "1")
	req.Header.Set("ngrok-skip-browser-warning", "1")

	if p != nil {
		req.Header.Set("Content-Type", p.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do sends req and decodes the response into the error taxonomy: transport
// failures wrap ErrNetwork, bodies that are not JSON yield *errNonJSON and
// JSON error bodies yield *APIError.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	if !gjson.ValidBytes(b) {
		return nil, &errNonJSON{status: resp.StatusCode, body: b}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(b, resp.StatusCode),
		}
	}

	return json.RawMessage(b), nil
}

// doWithFallback tries each endpoint in order. Only network failures and
// non-JSON bodies move on to the next endpoint; a JSON answer, error or
// not, is final.
func (c *Client) doWithFallback(
	ctx context.Context,
	endpoints []string,
	makeReq func(url string) (*http.Request, error),
) (json.RawMessage, error) {
	var lastErr error

	for i, url := range endpoints {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq(url)
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		out, err := c.do(req)
		if err == nil {
			return out, nil
		}
		lastErr = err

		var nj *errNonJSON
		fallback := errors.Is(err, ErrNetwork) || errors.As(err, &nj)
		if !fallback {
			return nil, err
		}

		if i < len(endpoints)-1 {
			obs.L().Warn("solver endpoint failed, trying fallback",
				zap.String("req_id", obs.RequestID(ctx)),
				zap.String("endpoint", url),
				zap.String("next", endpoints[i+1]),
				zap.Error(err),
			)
		}
	}

	var nj *errNonJSON
	if errors.As(lastErr, &nj) {
		return nil, &APIError{
			Status:         http.StatusBadGateway,
			Message:        "Upstream returned non-JSON",
			Snippet:        snippet(nj.body),
			UpstreamStatus: nj.status,
		}
	}
	return nil, lastErr
}

// errorMessage picks detail, message or error from a JSON error body.
func errorMessage(body []byte, status int) string {
	doc := gjson.ParseBytes(body)
	for _, k := range []string{"detail", "message", "error"} {
		if v := doc.Get(k); v.Exists() && v.Type != gjson.Null {
			if s := v.String(); s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("Solver error (%d)", status)
}
