package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nthieu173/disastle/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Restrict this in production
		return true
	},
}

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, deps ServerDeps, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	clientID := r.RemoteAddr

	client := &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		id:          clientID,
		deps:        deps,
		seatsByGame: make(map[string]game.PlayerSecret),
	}
	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work
	// in new goroutines.
	go client.writePump()
	go client.readPump()
}
