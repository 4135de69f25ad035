package websocket

import (
	"encoding/json"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
)

func dialWS(t *testing.T, url string) *gws.Conn {
	t.Helper()
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	return conn
}

func closeConnections(conns map[string]*gws.Conn) {
	for _, c := range conns {
		_ = c.Close()
	}
}

func sendJSON(t *testing.T, conn *gws.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("writing json: %v", err)
	}
}

// readUntilType reads messages off conn until one with the given "type"
// field arrives, or the deadline elapses.
func readUntilType(t *testing.T, conn *gws.Conn, msgType string, timeout time.Duration) map[string]any {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			t.Fatalf("timed out waiting for message type %q", msgType)
		}
		if err := conn.SetReadDeadline(time.Now().Add(remaining)); err != nil {
			t.Fatalf("setting read deadline: %v", err)
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("reading message while waiting for %q: %v", msgType, err)
		}
		var env map[string]any
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshaling message: %v", err)
		}
		if asString(env["type"]) == msgType {
			return env
		}
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
