package redcap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/bft-labs/redcap/pkg/log"
)

// Sender posts requests to one REDCap project. It holds no mutable state
// and is safe for concurrent use.
type Sender struct {
	cfg    Config
	client HTTPClient
	logger log.Logger
}

// Option configures optional behavior of a Sender.
type Option func(*Sender)

// WithHTTPClient sets the client used to deliver requests.
// If not provided, an *http.Client with cfg.HTTPTimeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(s *Sender) {
		s.client = client
	}
}

// WithLogger sets the logger that receives the response diagnostics.
// If not provided, nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(s *Sender) {
		s.logger = logger
	}
}

// NewSender creates a Sender for cfg. cfg is checked on every Send, not here.
func NewSender(cfg Config, opts ...Option) *Sender {
	s := &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.HTTPTimeout},
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send posts content with params and returns the decoded JSON body.
// Objects decode to map[string]interface{}, arrays to []interface{}.
func (s *Sender) Send(ctx context.Context, content string, params map[string]string) (interface{}, error) {
	var out interface{}
	if err := s.SendInto(ctx, content, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendInto is like Send but decodes the JSON body into v.
func (s *Sender) SendInto(ctx context.Context, content string, params map[string]string, v interface{}) error {
	body, err := s.post(ctx, content, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{Body: body, Err: err}
	}
	return nil
}

// post performs the request and returns the body of a 2xx response.
func (s *Sender) post(ctx context.Context, content string, params map[string]string) ([]byte, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	form := BuildForm(content, s.cfg.APIToken, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	s.logger.Debug("redcap response",
		log.String("content", content),
		log.Int("status", resp.StatusCode),
		log.String("body", compactBody(body)),
	)

	if resp.StatusCode/100 != 2 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}
	}
	return body, nil
}

// compactBody re-serializes a JSON body on one line. Non-JSON bodies are
// logged as they are.
func compactBody(body []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return string(body)
	}
	return buf.String()
}
