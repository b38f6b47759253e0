package smtp

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufCloser struct {
	*bytes.Buffer
	closed bool
}

func (b *bufCloser) Close() error {
	b.closed = true
	return nil
}

type fakeClient struct {
	from, to string
	data     *bufCloser
	quit     bool
	rcptErr  error
}

func (f *fakeClient) Mail(from string) error { f.from = from; return nil }
func (f *fakeClient) Rcpt(to string) error   { f.to = to; return f.rcptErr }
func (f *fakeClient) Data() (io.WriteCloser, error) {
	f.data = &bufCloser{Buffer: &bytes.Buffer{}}
	return f.data, nil
}
func (f *fakeClient) Quit() error  { f.quit = true; return nil }
func (f *fakeClient) Close() error { return nil }

type fakeDialer struct {
	client *fakeClient
	err    error
}

func (d fakeDialer) Dial() (Client, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.client, nil
}

func TestSend_Success(t *testing.T) {
	c := &fakeClient{}
	err := Send(fakeDialer{client: c}, "noreply@rent.uz", Message{
		To:      "client@rent.uz",
		Subject: "Booking confirmed",
		Body:    "Your booking is confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, "noreply@rent.uz", c.from)
	assert.Equal(t, "client@rent.uz", c.to)
	assert.True(t, c.quit)
	assert.True(t, c.data.closed)
	assert.Contains(t, c.data.String(), "Subject: Booking confirmed\r\n")
	assert.Contains(t, c.data.String(), "\r\n\r\nYour booking is confirmed")
}

func TestSend_EmptyRecipient(t *testing.T) {
	err := Send(fakeDialer{client: &fakeClient{}}, "noreply@rent.uz", Message{To: " "})
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestSend_DialError(t *testing.T) {
	dialErr := errors.New("connection refused")
	err := Send(fakeDialer{err: dialErr}, "noreply@rent.uz", Message{To: "a@b.c"})
	assert.ErrorIs(t, err, dialErr)
}

func TestSend_RcptError(t *testing.T) {
	rcptErr := errors.New("550 mailbox unavailable")
	c := &fakeClient{rcptErr: rcptErr}
	err := Send(fakeDialer{client: c}, "noreply@rent.uz", Message{To: "a@b.c"})
	assert.ErrorIs(t, err, rcptErr)
	assert.False(t, c.quit)
}
