package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nthieu173/disastle/internal/game"
	"github.com/nthieu173/disastle/internal/lobby"
	"github.com/nthieu173/disastle/internal/websocket"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	flag.Parse()

	hub := websocket.NewHub()
	go hub.Run()

	gameMgr := game.NewManager(game.NewSystemRNG(time.Now().UnixNano()))
	lobbyMgr := lobby.NewManager()

	deps := websocket.ServerDeps{
		Lobby: lobbyMgr,
		Games: gameMgr,
	}

	router := mux.NewRouter()

	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(hub, deps, w, r)
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	router.Use(corsMiddleware)

	log.Printf("disastle server starting on %s", *addr)
	if err := http.ListenAndServe(*addr, router); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
