package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"gorm.io/datatypes"

	"github.com/sdourte/Tripix/internal/db"
)

const (
	eventInsert = "INSERT"
	eventUpdate = "UPDATE"
)

// feedNotice is what change-feed subscribers receive. It carries the full
// new row, so applying the same notice twice is a no-op for consumers and
// delivery only needs to be at-least-once.
type feedNotice struct {
	Table string `json:"table"`
	Type  string `json:"type"`
	New   any    `json:"new"`
}

// emit records a row change in the event log and pushes it to the room's
// websocket subscribers. A write that already committed is not failed over
// a feed hiccup; subscribers catch up through the events endpoint.
func (s *Server) emit(roomID uint, table, eventType string, row any) {
	payload, err := json.Marshal(row)
	if err != nil {
		log.Printf("event payload marshal failed room_id=%d table=%s error=%v", roomID, table, err)
		return
	}
	if _, err := s.store.InsertEvent(db.Event{
		RoomID:  roomID,
		Table:   table,
		Type:    eventType,
		Payload: datatypes.JSON(payload),
	}); err != nil {
		log.Printf("event persist failed room_id=%d table=%s error=%v", roomID, table, err)
	}
	s.ws.Broadcast(roomID, feedNotice{Table: table, Type: eventType, New: row})
}

// handleEvents replays the room's event log, optionally from a known id, so
// a reconnecting subscriber can merge what it missed.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, roomID uint) {
	if _, ok := s.currentPlayerID(w, r, roomID); !ok {
		return
	}
	var sinceID uint
	if raw := r.URL.Query().Get("since"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be an event id")
			return
		}
		sinceID = uint(value)
	}
	events, err := s.store.ListEvents(roomID, sinceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
	})
}
