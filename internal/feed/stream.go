package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/logging"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const defaultReconnectDelay = 3 * time.Second

// Stream follows the live order feed over a websocket and reconnects after
// the connection drops, until its context is done.
type Stream struct {
	url            string
	dialer         *websocket.Dialer
	reconnectDelay time.Duration
	log            logrus.FieldLogger
}

func NewStream(url string, logger logrus.FieldLogger) *Stream {
	return &Stream{
		url:            url,
		dialer:         websocket.DefaultDialer,
		reconnectDelay: defaultReconnectDelay,
		log:            logging.Component(logger, "feed"),
	}
}

func (s *Stream) WithReconnectDelay(delay time.Duration) *Stream {
	s.reconnectDelay = delay
	return s
}

func (s *Stream) Run(ctx context.Context, handle func(domain.Feed)) error {
	for {
		err := s.consume(ctx, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.WithError(err).WithField("retry_in", s.reconnectDelay).Warn("feed connection lost")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.reconnectDelay):
		}
	}
}

func (s *Stream) consume(ctx context.Context, handle func(domain.Feed)) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial feed: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	s.log.WithField("url", s.url).Info("feed connected")
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		if success := gjson.GetBytes(message, "success"); success.Exists() && !success.Bool() {
			s.log.WithField("message", gjson.GetBytes(message, "message").String()).Warn("feed rejected update")
			continue
		}
		var update domain.Feed
		if err := json.Unmarshal(message, &update); err != nil {
			s.log.WithError(err).Warn("failed to decode feed update")
			continue
		}
		handle(update)
	}
}
