package feed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultMinBackoff = time.Second
	DefaultMaxBackoff = 60 * time.Second
)

// WebSocket reads messages from a relay, reconnecting with exponential
// backoff. The relay sends a full snapshot on every new connection.
type WebSocket struct {
	URL        string
	Dialer     *websocket.Dialer
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

func (w *WebSocket) Run(ctx context.Context, emit func(Message)) error {
	dialer := w.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	minB, maxB := w.MinBackoff, w.MaxBackoff
	if minB <= 0 {
		minB = DefaultMinBackoff
	}
	if maxB < minB {
		maxB = max(minB, DefaultMaxBackoff)
	}

	backoff := minB
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Printf("connecting to %s", w.URL)
		c, _, err := dialer.DialContext(ctx, w.URL, nil)
		if err != nil {
			log.Printf("dial error: %v. retrying in %v", err, backoff)
			emit(Message{Err: fmt.Errorf("dial %s: %w", w.URL, err)})
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, maxB)
			continue
		}
		backoff = minB

		err = readLoop(ctx, c, emit)
		c.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("read error: %v. reconnecting", err)
		emit(Message{Err: fmt.Errorf("connection lost: %w", err)})
	}
}

func readLoop(ctx context.Context, c *websocket.Conn, emit func(Message)) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := Decode(data)
		if err != nil {
			emit(Message{Err: err})
			continue
		}
		emit(msg)
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
