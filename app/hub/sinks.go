package hub

import (
	"errors"

	"github.com/shashiranjanraj/vastra/pkg/sse"
	"github.com/shashiranjanraj/vastra/pkg/ws"
)

// ErrSinkClosed means the client went away.
var ErrSinkClosed = errors.New("hub: sink closed")

// SSESink adapts an SSE stream to the Sink interface.
type SSESink struct {
	stream *sse.Stream
}

func NewSSESink(stream *sse.Stream) *SSESink {
	return &SSESink{stream: stream}
}

func (s *SSESink) Send(event string, data interface{}) error {
	if s.stream.IsClosed() {
		return ErrSinkClosed
	}
	if err := s.stream.Send(event, data); err != nil {
		return err
	}
	// The stream swallows transport errors; a closed connection shows up
	// on the next IsClosed check.
	if s.stream.IsClosed() {
		return ErrSinkClosed
	}
	return nil
}

// WSSink adapts a WebSocket connection to the Sink interface. Events are
// framed as {"type": ..., "data": ...} JSON messages.
type WSSink struct {
	conn *ws.Conn
}

func NewWSSink(conn *ws.Conn) *WSSink {
	return &WSSink{conn: conn}
}

type wsFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (s *WSSink) Send(event string, data interface{}) error {
	select {
	case <-s.conn.Closed():
		return ErrSinkClosed
	default:
	}
	return s.conn.SendJSON(wsFrame{Type: event, Data: data})
}
