package proxy

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aquafund-backend/internal/application/backend"
	"aquafund-backend/internal/middleware"
	"aquafund-backend/internal/pkg/apperr"
	"aquafund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Body is a decoded JSON request body. Numbers stay json.Number.
type Body map[string]interface{}

// String returns the field as text: strings as-is, numbers and bools formatted, anything else "".
func (b Body) String(key string) string {
	switch v := b[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// Has reports whether key is present and not null.
func (b Body) Has(key string) bool {
	v, ok := b[key]
	return ok && v != nil
}

// Validator checks a request body before anything is forwarded.
type Validator func(b Body, now time.Time) error

// Route describes one forwarded call. Path may contain :name segments filled from the
// inbound route params.
type Route struct {
	Method       string
	Path         string
	Validate     Validator
	Normalize    backend.Endpoint
	ForwardQuery bool
}

// Proxy forwards inbound requests to the backend. Auth-required routes are gated by
// middleware.RequireAuthorization before they reach Forward.
type Proxy struct {
	Backend *backend.Client
	Now     func() time.Time
}

func (p *Proxy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Forward runs r for c: config check, body validation, backend call, then per-endpoint
// normalization of the success body. The backend status is passed through.
func (p *Proxy) Forward(c *fiber.Ctx, r Route) error {
	if !p.Backend.Configured() {
		return response.FromError(c, apperr.ErrBackendURLNotSet)
	}

	payload, err := p.payload(c, r)
	if err != nil {
		return response.FromError(c, err)
	}

	req := backend.Request{
		Method:        r.Method,
		Path:          expand(r.Path, c),
		Body:          payload,
		Authorization: middleware.Authorization(c),
	}
	if r.ForwardQuery {
		if q, err := url.ParseQuery(string(c.Request().URI().QueryString())); err == nil && len(q) > 0 {
			req.Query = q
		}
	}

	resp, err := p.Backend.Do(c.UserContext(), req)
	if err != nil {
		log.Warn().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("method", req.Method).Str("path", req.Path).
			Int("status", apperr.Status(err)).Msg("proxy: backend call failed")
		return response.FromError(c, err)
	}

	body := resp.Body
	if r.Normalize != "" {
		body = backend.Normalize(r.Normalize, resp.Body)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return c.SendStatus(resp.Status)
	}
	return response.Raw(c, resp.Status, body)
}

// payload returns the body to forward. With a validator the body must be a JSON object.
func (p *Proxy) payload(c *fiber.Ctx, r Route) ([]byte, error) {
	raw := bytes.TrimSpace(c.Body())
	if r.Validate == nil {
		if len(raw) == 0 {
			return nil, nil
		}
		return raw, nil
	}

	b := Body{}
	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&b); err != nil {
			return nil, &apperr.ValidationError{Message: "Invalid JSON body"}
		}
		if b == nil {
			b = Body{}
		}
	}
	if err := r.Validate(b, p.now()); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// expand fills :name segments of path from c's route params, escaped.
func expand(path string, c *fiber.Ctx) string {
	if !strings.Contains(path, ":") {
		return path
	}
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = url.PathEscape(c.Params(part[1:]))
		}
	}
	return strings.Join(parts, "/")
}
