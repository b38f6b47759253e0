// Package smtp отправляет письма клиентам сервиса проката через SMTP с STARTTLS.
package smtp

import "io"

// Client подмножество *smtp.Client, нужное для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer открывает аутентифицированную SMTP-сессию.
type Dialer interface {
	Dial() (Client, error)
}
