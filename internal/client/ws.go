package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

// WSConn is the gorilla-backed client end of the channel.
type WSConn struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// Dial connects to the station's /api/ws endpoint. serverURL is the
// plain HTTP base address; the scheme is rewritten for the socket.
func Dial(ctx context.Context, serverURL string) (*WSConn, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/ws"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	log.Info().Str("module", "client").Str("url", u.String()).Msg("connected")
	return &WSConn{conn: conn}, nil
}

func (w *WSConn) Emit(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("connection closed")
	}
	if err := w.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return w.conn.WriteJSON(v)
}

// ReadLoop feeds inbound frames to the controller until the connection
// dies. There is no reconnect: a dropped channel means this session is
// over and a new one must reconcile from scratch.
func (w *WSConn) ReadLoop(ctx context.Context, ctrl *Controller) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			_, data, err := w.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "client").Msg("read loop ended")
				return err
			}
			ctrl.HandleFrame(data)
		}
	}
}

func (w *WSConn) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	_ = w.conn.Close()
}
