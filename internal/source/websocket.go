package source

import (
	"bytes"
	"context"
	"io"

	"github.com/gorilla/websocket"
)

// wsReader presents a websocket connection as a byte stream. Each message
// carries one or more telemetry lines; a missing trailing newline is added
// so message boundaries are line boundaries.
type wsReader struct {
	conn *websocket.Conn
	buf  *bytes.Reader
}

func openWebsocket(ctx context.Context, url string) (io.ReadCloser, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &wsReader{conn: conn, buf: bytes.NewReader(nil)}, nil
}

func (r *wsReader) Read(p []byte) (int, error) {
	for r.buf.Len() == 0 {
		_, msg, err := r.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if len(msg) == 0 {
			continue
		}
		if msg[len(msg)-1] != '\n' {
			msg = append(msg, '\n')
		}
		r.buf.Reset(msg)
	}
	return r.buf.Read(p)
}

func (r *wsReader) Close() error {
	return r.conn.Close()
}
