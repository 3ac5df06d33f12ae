package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rwortham/instinct/internal/domain"
)

// dispatchEvent is the JSON payload an HTTPSink POSTs for one Monitor
// callback.
type dispatchEvent struct {
	Type       string `json:"type"`
	ElementID  uint16 `json:"element_id,omitempty"`
	Kind       string `json:"kind,omitempty"`
	SenseID    uint16 `json:"sense_id,omitempty"`
	SenseValue int32  `json:"sense_value,omitempty"`
}

// HTTPSinkConfig configures an HTTPSink.
type HTTPSinkConfig struct {
	CallbackURL string
	Timeout     time.Duration
	Headers     map[string]string
	Client      *http.Client
}

// HTTPSink POSTs a JSON payload to an external URL for every Monitor
// callback, letting a host forward dispatch events to something outside
// the process without the engine depending on that system directly.
type HTTPSink struct {
	callbackURL string
	client      *http.Client
	headers     map[string]string
	timeout     time.Duration

	mu      sync.RWMutex
	enabled bool
}

func NewHTTPSink(cfg HTTPSinkConfig) (*HTTPSink, error) {
	if cfg.CallbackURL == "" {
		return nil, fmt.Errorf("callback URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	headers := make(map[string]string)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}
	return &HTTPSink{
		callbackURL: cfg.CallbackURL,
		client:      client,
		headers:     headers,
		timeout:     timeout,
		enabled:     true,
	}, nil
}

func (s *HTTPSink) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

func (s *HTTPSink) send(ev dispatchEvent) error {
	s.mu.RLock()
	enabled := s.enabled
	s.mu.RUnlock()
	if !enabled {
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal dispatch event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build callback request: %w", err)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send callback request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned non-success status: %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPSink) emit(eventType string, node domain.Node) {
	_ = s.send(dispatchEvent{
		Type:      eventType,
		ElementID: uint16(node.ID()),
		Kind:      node.Kind().String(),
	})
}

func (s *HTTPSink) OnExecuted(node domain.Node)   { s.emit("node.executed", node) }
func (s *HTTPSink) OnSuccess(node domain.Node)    { s.emit("node.success", node) }
func (s *HTTPSink) OnInProgress(node domain.Node) { s.emit("node.inprogress", node) }
func (s *HTTPSink) OnFail(node domain.Node)       { s.emit("node.fail", node) }
func (s *HTTPSink) OnError(node domain.Node)      { s.emit("node.error", node) }

func (s *HTTPSink) OnSense(releaser domain.Releaser, senseValue int32) {
	_ = s.send(dispatchEvent{
		Type:       "sense.read",
		SenseID:    uint16(releaser.SenseID),
		SenseValue: senseValue,
	})
}

var _ domain.Monitor = (*HTTPSink)(nil)
