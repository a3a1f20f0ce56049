package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/dkuiper/taskboard/internal/event"
)

// Subscription is a live WebSocket feed of board events.
type Subscription struct {
	conn   *websocket.Conn
	events chan event.Event
}

// Subscribe connects to the server's /ws endpoint and starts delivering
// events on the returned subscription. The feed has no backlog: the caller
// must fetch current state over REST after subscribing.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws"

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}

	sub := &Subscription{
		conn:   conn,
		events: make(chan event.Event, 32),
	}
	go sub.readLoop(ctx)
	return sub, nil
}

// Events delivers broadcasts until the connection drops or the subscribe
// context ends; the channel is then closed.
func (s *Subscription) Events() <-chan event.Event {
	return s.events
}

// Send pushes an informational event to the server, which re-broadcasts it
// to all viewers.
func (s *Subscription) Send(ctx context.Context, ev event.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return s.conn.Write(ctx, websocket.MessageText, data)
}

func (s *Subscription) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Subscription) readLoop(ctx context.Context) {
	defer close(s.events)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}
		var ev event.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		select {
		case s.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
