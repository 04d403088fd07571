package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/sdourte/Tripix/internal/db"
)

type voteRequest struct {
	Value int `json:"value"`
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	photoID, ok := parseVotePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req voteRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "vote value is required")
		return
	}
	if err := validateVoteValue(req.Value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	photo, err := s.store.GetPhoto(photoID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to vote")
		return
	}
	voterID, ok := s.currentPlayerID(w, r, photo.RoomID)
	if !ok {
		return
	}

	vote, err := s.store.InsertVote(db.Vote{
		PhotoID: photoID,
		VoterID: voterID,
		Value:   req.Value,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfVote):
			writeError(w, http.StatusConflict, "you cannot vote for your own photo")
		case errors.Is(err, ErrDuplicate):
			writeError(w, http.StatusConflict, "you already voted for this photo")
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "photo not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to vote")
		}
		return
	}
	log.Printf("vote submitted room_id=%d photo_id=%d voter_id=%d value=%d", photo.RoomID, photoID, voterID, vote.Value)
	s.emit(photo.RoomID, "votes", eventInsert, vote)
	writeJSON(w, http.StatusCreated, vote)
}
