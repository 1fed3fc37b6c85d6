package notify

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/betbot/gobet-dashboard/internal/metrics"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 50 * time.Second

	// replayLimit caps the history sent to a freshly connected surface.
	replayLimit = 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS upgrades the request and streams toasts as JSON text frames. The
// stored history is replayed oldest first before live toasts.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已经写过错误响应
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	metrics.StreamClients.Add(1)
	defer metrics.StreamClients.Add(-1)

	log := h.log.WithField("remote", r.RemoteAddr)

	// subscribe before reading history so nothing published in between is
	// lost; the client drops toasts it has already shown by id
	sub := h.Subscribe()
	defer sub.Close()

	history, err := h.Recent(r.Context(), replayLimit)
	if err != nil {
		log.WithError(err).Warn("load toast history failed")
	}
	for i := len(history) - 1; i >= 0; i-- {
		if err := writeToast(conn, history[i]); err != nil {
			return
		}
	}

	// 读循环：只处理 pong / close，客户端不会主动发数据
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case t, ok := <-sub.C():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if err := writeToast(conn, t); err != nil {
				log.WithFields(logrus.Fields{"toast": t.ID}).WithError(err).Debug("write toast failed")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeToast(conn *websocket.Conn, t Toast) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(t)
}
