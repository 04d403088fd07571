package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// wsHub fans change-feed notices out to the subscribers of each room.
type wsHub struct {
	mu    sync.Mutex
	rooms map[uint]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		rooms: make(map[uint]map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) Add(roomID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rooms[roomID]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.rooms[roomID] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) Remove(roomID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rooms[roomID]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.rooms, roomID)
	}
}

func (h *wsHub) Broadcast(roomID uint, payload any) {
	h.mu.Lock()
	group := h.rooms[roomID]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(roomID, conn)
		}
	}
}

// handleWebsocket subscribes the caller to a room's change feed. Browsers
// cannot set headers on websocket dials, so the bearer token rides in the
// query string.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	roomID, ok := parseRoomWSPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	claims, err := s.validateAccessToken(r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if _, err := s.store.GetPlayer(roomID, claims.UserID); err != nil {
		writeError(w, http.StatusNotFound, "join the room first")
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected room_id=%d remote=%s", roomID, r.RemoteAddr)
	s.ws.Add(roomID, conn)
	go s.readWS(roomID, conn)
}

func (s *Server) readWS(roomID uint, conn *websocket.Conn) {
	defer s.ws.Remove(roomID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected room_id=%d error=%v", roomID, err)
			return
		}
	}
}
