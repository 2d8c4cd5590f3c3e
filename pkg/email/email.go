package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

const heloName = "localhost"

// ErrNotConfigured is returned when host or credentials are missing.
var ErrNotConfigured = errors.New("email service is not configured")

// Transport delivers composed messages. Implementations must be safe for concurrent use.
type Transport interface {
	// Send delivers one message to msg.To.
	Send(ctx context.Context, msg Message) error
	// Verify connects and authenticates without sending anything.
	Verify(ctx context.Context) error
	// IsConfigured reports whether host and credentials are present.
	IsConfigured() bool
}

// SMTPConfig holds the relay settings read at startup.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	Secure    bool // implicit TLS; otherwise STARTTLS when the server offers it
	Timeout   time.Duration
}

// SMTPTransport sends mail through an SMTP relay. It opens one connection per
// operation and keeps no state between calls.
type SMTPTransport struct {
	cfg       SMTPConfig
	tlsConfig *tls.Config
}

// NewSMTPTransport creates the shared SMTP transport.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.Username
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPTransport{
		cfg: cfg,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
	}
}

// IsConfigured checks if the email service has valid SMTP configuration
func (t *SMTPTransport) IsConfigured() bool {
	return t.cfg.Host != "" && t.cfg.Username != "" && t.cfg.Password != ""
}

// From returns the envelope and header sender address.
func (t *SMTPTransport) From() string {
	return t.cfg.FromEmail
}

// Timeout bounds a single relay round trip, after defaults are applied.
func (t *SMTPTransport) Timeout() time.Duration {
	return t.cfg.Timeout
}

// Verify performs the handshake a send would perform, then quits.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	if !t.IsConfigured() {
		return ErrNotConfigured
	}
	c, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}
	return nil
}

// Send delivers msg through the relay.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if !t.IsConfigured() {
		return ErrNotConfigured
	}
	if msg.To == "" {
		return errors.New("email: message has no recipient")
	}

	raw, err := msg.Compose(t.cfg.FromEmail, time.Now())
	if err != nil {
		return fmt.Errorf("failed to compose email: %w", err)
	}

	c, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Mail(t.cfg.FromEmail); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if err := c.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}
	return nil
}

// connect dials the relay, upgrades to TLS where possible and authenticates.
func (t *SMTPTransport) connect(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))

	var conn net.Conn
	var err error
	if t.cfg.Secure {
		d := &tls.Dialer{NetDialer: &net.Dialer{Timeout: t.cfg.Timeout}, Config: t.tlsConfig}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		d := &net.Dialer{Timeout: t.cfg.Timeout}
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	_ = conn.SetDeadline(time.Now().Add(t.cfg.Timeout))

	c, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}
	if err := c.Hello(heloName); err != nil {
		c.Close()
		return nil, fmt.Errorf("smtp EHLO: %w", err)
	}

	if !t.cfg.Secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(t.tlsConfig); err != nil {
				c.Close()
				return nil, fmt.Errorf("smtp STARTTLS: %w", err)
			}
		}
	}

	if ok, _ := c.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)
		if err := c.Auth(auth); err != nil {
			c.Close()
			return nil, fmt.Errorf("smtp auth: %w", err)
		}
	}

	return c, nil
}
