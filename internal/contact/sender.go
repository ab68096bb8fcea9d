package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/smtp"
	"strconv"
	"sync"
	"time"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// Sender delivers a message to the site owner.
type Sender interface {
	Send(ctx context.Context, m Message) error
	// Name identifies the transport in logs and metrics.
	Name() string
}

// SMTPConfig is the connection data for SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers through an SMTP relay with PLAIN auth when credentials are set.
type SMTPSender struct {
	cfg      SMTPConfig
	sendMail sendMailFunc
}

// NewSMTPSender returns a sender using net/smtp.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail}
}

func (s *SMTPSender) Name() string { return "smtp" }

// Send hands the message to the relay. net/smtp has no context support, so
// ctx is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	if err := s.sendMail(addr, auth, s.cfg.From, []string{s.cfg.To}, m.RFC822(s.cfg.From, s.cfg.To)); err != nil {
		return ferrors.NetworkError("failed to send contact mail").
			WithCause(err).
			WithContext("transport", s.Name()).
			Retryable().
			Build()
	}
	return nil
}

// WorkerSender posts the submission as JSON to an HTTP mail worker.
type WorkerSender struct {
	URL    string
	Token  string
	Client *http.Client
}

// NewWorkerSender returns a sender with a 10s HTTP timeout.
func NewWorkerSender(url, token string) *WorkerSender {
	return &WorkerSender{URL: url, Token: token, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (w *WorkerSender) Name() string { return "worker" }

func (w *WorkerSender) Send(ctx context.Context, m Message) error {
	body, err := json.Marshal(m.Request)
	if err != nil {
		return ferrors.InternalError("failed to encode contact request").WithCause(err).Build()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return ferrors.ConfigError("invalid worker url").WithCause(err).Build()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Message-ID", m.ID)
	if w.Token != "" {
		req.Header.Set("Authorization", "Bearer "+w.Token)
	}
	resp, err := w.Client.Do(req)
	if err != nil {
		return ferrors.NetworkError("mail worker unreachable").
			WithCause(err).
			WithContext("transport", w.Name()).
			Retryable().
			Build()
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ferrors.NetworkError(fmt.Sprintf("mail worker returned %d", resp.StatusCode)).
			WithContext("transport", w.Name()).
			WithContext("status", resp.StatusCode).
			Build()
	}
	return nil
}

// MemorySender keeps messages in memory. It backs tests and local previews.
type MemorySender struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (s *MemorySender) Name() string { return "memory" }

func (s *MemorySender) Send(_ context.Context, m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sent = append(s.sent, m)
	return nil
}

// Sent returns a copy of the delivered messages.
func (s *MemorySender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
