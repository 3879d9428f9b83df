package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jainsamta1990/TradingPro/internal/model"
	"github.com/jainsamta1990/TradingPro/internal/ringbuf"
)

const (
	streamReadTimeout = 60 * time.Second
	maxBackoff        = 30 * time.Second
)

// wireTick is the stream's JSON tick frame.
type wireTick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Qty    float64 `json:"qty"`
	TS     int64   `json:"ts"` // epoch millis; 0 means arrival time
}

// Stream maintains a WebSocket connection to a tick feed and pushes
// normalized ticks into an SPSC ring buffer for the chart controller to
// drain between frames. Reconnects with exponential backoff.
type Stream struct {
	url  string
	ring *ringbuf.Ring

	// Optional metrics hooks
	OnTick      func()
	OnReconnect func()
	OnConnected func(bool)
	OnOverflow  func()
}

// NewStream creates a tick stream reader writing into ring.
func NewStream(url string, ring *ringbuf.Ring) *Stream {
	return &Stream{url: url, ring: ring}
}

// Run connects and reads ticks until ctx is cancelled. Each dropped
// connection triggers a reconnect with exponential backoff.
func (s *Stream) Run(ctx context.Context) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		err := s.readLoop(ctx)
		if ctx.Err() != nil {
			return
		}
		if s.OnConnected != nil {
			s.OnConnected(false)
		}
		if s.OnReconnect != nil {
			s.OnReconnect()
		}
		slog.Warn("tick stream disconnected", "err", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// readLoop dials once and reads until the connection dies.
func (s *Stream) readLoop(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, s.url, nil)
	cancel()
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close()

	slog.Info("tick stream connected", "url", s.url)
	if s.OnConnected != nil {
		s.OnConnected(true)
	}

	// Close the socket when ctx dies so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var wt wireTick
		if err := json.Unmarshal(msg, &wt); err != nil {
			slog.Debug("tick stream decode failed", "err", err)
			continue
		}
		if wt.Symbol == "" || wt.Price <= 0 {
			continue
		}

		ts := time.Now().UTC()
		if wt.TS > 0 {
			ts = time.UnixMilli(wt.TS).UTC()
		}
		ok := s.ring.Push(model.Tick{
			Symbol: strings.ToUpper(wt.Symbol),
			Price:  wt.Price,
			Qty:    wt.Qty,
			TS:     ts,
		})
		if !ok && s.OnOverflow != nil {
			s.OnOverflow()
		}
		if s.OnTick != nil {
			s.OnTick()
		}
	}
}
