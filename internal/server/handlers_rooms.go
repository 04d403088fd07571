package server

import (
	"errors"
	"log"
	"net/http"
)

type joinRoomRequest struct {
	Code   string `json:"code"`
	Pseudo string `json:"pseudo"`
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(w, r)
	if user == nil {
		return
	}
	var req joinRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "code and pseudo are required")
		return
	}
	code, err := validateRoomCode(req.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pseudo, err := validatePseudo(req.Pseudo)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := s.store.GetRoomByCode(code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to join room")
		return
	}

	// Upsert on (room_id, auth_user_id): re-joining updates the pseudo
	// instead of creating a second player.
	player, err := s.store.UpsertPlayer(room.ID, user.UserID, pseudo)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to join room")
		return
	}
	s.players.SetPlayerID(r.Context(), room.ID, user.UserID, player.ID)
	log.Printf("player joined room_id=%d player_id=%d", room.ID, player.ID)
	s.emit(room.ID, "players", eventUpdate, player)

	writeJSON(w, http.StatusOK, map[string]any{
		"room_id":   room.ID,
		"room_name": room.Name,
		"player_id": player.ID,
		"pseudo":    player.Pseudo,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, roomID uint) {
	user := s.currentUser(w, r)
	if user == nil {
		return
	}
	player, err := s.store.GetPlayer(roomID, user.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "join the room first")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load player")
		return
	}
	s.players.SetPlayerID(r.Context(), roomID, user.UserID, player.ID)
	writeJSON(w, http.StatusOK, player)
}

// currentPlayerID resolves the calling user to their player id in a room,
// answering the request itself on failure. The id is cached; the store
// stays the source of truth on a miss.
func (s *Server) currentPlayerID(w http.ResponseWriter, r *http.Request, roomID uint) (uint, bool) {
	user := s.currentUser(w, r)
	if user == nil {
		return 0, false
	}
	if playerID, ok := s.players.GetPlayerID(r.Context(), roomID, user.UserID); ok {
		return playerID, true
	}
	player, err := s.store.GetPlayer(roomID, user.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "join the room first")
			return 0, false
		}
		writeError(w, http.StatusInternalServerError, "failed to load player")
		return 0, false
	}
	s.players.SetPlayerID(r.Context(), roomID, user.UserID, player.ID)
	return player.ID, true
}
