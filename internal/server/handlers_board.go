package server

import (
	"errors"
	"net/http"
)

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request, roomID uint) {
	if _, ok := s.currentPlayerID(w, r, roomID); !ok {
		return
	}
	players, err := s.store.ListPlayers(roomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	photos, err := s.store.ListPhotos(roomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	votes, err := s.store.ListVotes(roomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	// No day yet just means an empty daily board, not an error.
	date := today()
	var todayDayID uint
	if day, err := s.store.GetGameDay(roomID, date); err == nil {
		todayDayID = day.ID
	} else if !errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	daily, overall := ComputeLeaderboards(players, photos, votes, todayDayID)
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    date,
		"daily":   daily,
		"overall": overall,
	})
}
