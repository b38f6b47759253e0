package smtp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/magabrotheeeer/car-rental/internal/config"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
)

// ErrNoRecipient возвращается, если адрес получателя пустой.
var ErrNoRecipient = errors.New("smtp: empty recipient")

// Message одно письмо в кодировке UTF-8.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Transport держит настройки SMTP-сервера и открывает сессии через STARTTLS.
type Transport struct {
	host string
	port string
	user string
	pass string
	log  *slog.Logger
}

type clientWrapper struct {
	*smtp.Client
}

// NewTransport создает транспорт из секции smtp конфига.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		log:  log,
	}
}

// From адрес отправителя.
func (t *Transport) From() string {
	return t.user
}

// Dial подключается к серверу, включает TLS и проходит PLAIN-аутентификацию.
func (t *Transport) Dial() (Client, error) {
	const op = "smtp.Dial"
	log := t.log.With(slog.String("op", op))

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(t.host, t.port), 10*time.Second)
	if err != nil {
		log.Error("failed to dial SMTP server", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		return nil, fmt.Errorf("%s: server does not support STARTTLS", op)
	}
	if err = client.StartTLS(&tls.Config{ServerName: t.host, MinVersion: tls.VersionTLS12}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: start tls: %w", op, err)
	}
	if t.user != "" {
		if err = client.Auth(smtp.PlainAuth("", t.user, t.pass, t.host)); err != nil {
			_ = client.Close()
			log.Error("smtp auth failed", sl.Err(err))
			return nil, fmt.Errorf("%s: auth: %w", op, err)
		}
	}

	return clientWrapper{client}, nil
}

// Send открывает сессию через dialer и отправляет одно письмо.
func Send(d Dialer, from string, msg Message) error {
	const op = "smtp.Send"

	if strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}

	client, err := d.Dial()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("%s: mail from: %w", op, err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("%s: rcpt: %w", op, err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err := io.WriteString(w, Compose(from, msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: close data: %w", op, err)
	}
	return client.Quit()
}

// Compose собирает RFC 5322 письмо с заголовками.
func Compose(from string, msg Message) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return b.String()
}
