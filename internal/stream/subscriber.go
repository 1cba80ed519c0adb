package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"meterwatch/internal/metrics"
	"meterwatch/internal/models"
	"meterwatch/internal/state"
)

const maxFrameSize = 1024 * 1024

// MessageHandler receives decoded data frames.
type MessageHandler func(msg models.PushMessage)

// StatusHandler receives channel status transitions.
type StatusHandler func(status state.Status)

// Subscriber consumes the push channel for one meter. It never reconnects:
// once the channel closes it stays closed until the owner builds a new
// subscriber.
type Subscriber struct {
	url       string
	logger    *zap.Logger
	onMessage MessageHandler
	onStatus  StatusHandler
}

// NewSubscriber builds a subscriber for a fully-formed channel URL.
func NewSubscriber(url string, onMessage MessageHandler, onStatus StatusHandler, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		url:       url,
		logger:    logger,
		onMessage: onMessage,
		onStatus:  onStatus,
	}
}

// Run dials the channel and reads until it closes or ctx is cancelled.
// Handshake frames and undecodable frames are discarded; everything else is
// handed to the message handler.
func (s *Subscriber) Run(ctx context.Context) {
	s.onStatus(state.StatusConnecting)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if ctx.Err() == nil {
			s.logger.Warn("push channel dial failed", zap.String("url", s.url), zap.Error(err))
		}
		s.onStatus(state.StatusClosed)
		return
	}
	s.onStatus(state.StatusConnected)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Unblocks the read below. Close errors are irrelevant here.
			_ = conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	conn.SetReadLimit(maxFrameSize)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Info("push channel closed", zap.String("url", s.url), zap.Error(err))
			}
			s.onStatus(state.StatusClosed)
			return
		}

		var msg models.PushMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Debug("discarding malformed push frame", zap.Error(err))
			metrics.PushDiscarded.Inc()
			continue
		}
		if msg.IsHandshake() {
			s.logger.Debug("push channel handshake acknowledged", zap.String("meter_code", msg.MeterCode))
			metrics.PushDiscarded.Inc()
			continue
		}
		s.onMessage(msg)
	}
}
