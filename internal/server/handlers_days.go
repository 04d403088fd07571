package server

import (
	"errors"
	"log"
	"math/rand"
	"net/http"

	"github.com/sdourte/Tripix/internal/db"
)

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request, roomID uint) {
	if _, ok := s.currentPlayerID(w, r, roomID); !ok {
		return
	}
	day, err := s.store.GetGameDay(roomID, today())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "no theme drawn today")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load today")
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// handleSpin draws the daily theme. The first spin of the day inserts the
// GameDay; any later spin hits the (room, date) uniqueness and gets the
// stored theme back instead of a re-roll.
func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request, roomID uint) {
	if _, ok := s.currentPlayerID(w, r, roomID); !ok {
		return
	}
	themes, err := s.store.ListThemes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load themes")
		return
	}
	if len(themes) == 0 {
		writeError(w, http.StatusConflict, "no themes loaded")
		return
	}
	pick := themes[rand.Intn(len(themes))]

	day, created, err := s.store.UpsertGameDay(db.GameDay{
		RoomID:     roomID,
		Date:       today(),
		ThemeID:    pick.ID,
		ThemeLabel: pick.Label,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to draw theme")
		return
	}
	if created {
		log.Printf("theme drawn room_id=%d day_id=%d theme=%q", roomID, day.ID, day.ThemeLabel)
		s.emit(roomID, "game_days", eventInsert, day)
		writeJSON(w, http.StatusCreated, day)
		return
	}
	writeJSON(w, http.StatusOK, day)
}
