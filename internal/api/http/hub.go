package httpapi

import (
	"net/http"
	"sync"
	"time"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/logging"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 5 * time.Second

// FeedHub pushes the public feed to websocket subscribers: the current feed
// on connect, then again after every new order.
type FeedHub struct {
	backend  *Backend
	upgrader websocket.Upgrader
	log      logrus.FieldLogger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewFeedHub(backend *Backend, logger logrus.FieldLogger) *FeedHub {
	return &FeedHub{
		backend: backend,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:     logging.Component(logger, "feed-hub"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (h *FeedHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	err = writeFeed(conn, h.backend.Feed())
	if err == nil {
		h.clients[conn] = struct{}{}
	}
	h.mu.Unlock()
	if err != nil {
		conn.Close()
		return
	}
	h.log.WithField("remote", r.RemoteAddr).Debug("feed subscriber connected")

	// Subscribers never send anything; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *FeedHub) Broadcast(feed domain.Feed) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := writeFeed(conn, feed); err != nil {
			h.log.WithError(err).Debug("dropping feed subscriber")
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

func (h *FeedHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func writeFeed(conn *websocket.Conn, feed domain.Feed) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(feedResponse(feed))
}
