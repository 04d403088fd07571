package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sdourte/Tripix/internal/db"
)

type photoResponse struct {
	db.Photo
	URL string `json:"url,omitempty"`
}

// handleListPhotos returns the caller's photos for today, with signed URLs,
// plus how many more they may upload.
func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request, roomID uint) {
	playerID, ok := s.currentPlayerID(w, r, roomID)
	if !ok {
		return
	}
	day, err := s.store.GetGameDay(roomID, today())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "no theme drawn today")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load photos")
		return
	}
	photos, err := s.store.ListDayPhotos(roomID, day.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load photos")
		return
	}
	mine := make([]photoResponse, 0)
	for _, photo := range photos {
		if photo.PlayerID != playerID {
			continue
		}
		mine = append(mine, photoResponse{Photo: photo, URL: s.signedURL(r, photo.StoragePath)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day_id":    day.ID,
		"photos":    mine,
		"remaining": remainingQuota(s.cfg.PhotosPerDay, len(mine)),
	})
}

func (s *Server) handleUploadPhotos(w http.ResponseWriter, r *http.Request, roomID uint) {
	playerID, ok := s.currentPlayerID(w, r, roomID)
	if !ok {
		return
	}
	day, err := s.store.GetGameDay(roomID, today())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "no theme drawn today")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to upload photos")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form with photos is required")
		return
	}
	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "at least one photo is required")
		return
	}
	if len(files) > maxUploadFiles {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d photos per request", maxUploadFiles))
		return
	}

	// Advisory pre-check against the latest known count; the store re-checks
	// atomically on insert so concurrent batches cannot slip past the cap.
	count, err := s.store.CountPhotos(playerID, day.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to upload photos")
		return
	}
	remaining := remainingQuota(s.cfg.PhotosPerDay, count)
	if len(files) > remaining {
		writeError(w, http.StatusConflict, quotaMessage(remaining))
		return
	}

	batch := make([]db.Photo, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read photo")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read photo")
			return
		}
		compressed, err := s.compressor.Compress(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unsupported image")
			return
		}
		path := fmt.Sprintf("%d/%d/%d/%s.jpg", roomID, playerID, day.ID, uuid.NewString())
		if err := s.objects.Upload(r.Context(), path, compressed, "image/jpeg"); err != nil {
			log.Printf("object upload failed room_id=%d player_id=%d error=%v", roomID, playerID, err)
			writeError(w, http.StatusInternalServerError, "failed to store photo")
			return
		}
		batch = append(batch, db.Photo{
			RoomID:      roomID,
			DayID:       day.ID,
			PlayerID:    playerID,
			StoragePath: path,
		})
	}

	created, err := s.store.InsertPhotos(batch, s.cfg.PhotosPerDay)
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			writeError(w, http.StatusConflict, quotaMessage(remaining))
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to upload photos")
		return
	}
	log.Printf("photos uploaded room_id=%d player_id=%d day_id=%d count=%d", roomID, playerID, day.ID, len(created))

	responses := make([]photoResponse, 0, len(created))
	for _, photo := range created {
		s.emit(roomID, "photos", eventInsert, photo)
		responses = append(responses, photoResponse{Photo: photo, URL: s.signedURL(r, photo.StoragePath)})
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"photos":    responses,
		"remaining": remainingQuota(s.cfg.PhotosPerDay, count+len(created)),
	})
}

// handleVotables returns today's photos owned by other players, each with a
// signed URL and the caller's existing vote if any.
func (s *Server) handleVotables(w http.ResponseWriter, r *http.Request, roomID uint) {
	playerID, ok := s.currentPlayerID(w, r, roomID)
	if !ok {
		return
	}
	day, err := s.store.GetGameDay(roomID, today())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "no theme drawn today")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load photos")
		return
	}
	photos, err := s.store.ListDayPhotos(roomID, day.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load photos")
		return
	}
	votes, err := s.store.ListVotesByVoter(roomID, playerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load votes")
		return
	}
	myVotes := make(map[uint]int, len(votes))
	for _, vote := range votes {
		myVotes[vote.PhotoID] = vote.Value
	}

	type votable struct {
		photoResponse
		MyVote int `json:"my_vote,omitempty"`
	}
	list := make([]votable, 0, len(photos))
	for _, photo := range photos {
		if photo.PlayerID == playerID {
			continue
		}
		list = append(list, votable{
			photoResponse: photoResponse{Photo: photo, URL: s.signedURL(r, photo.StoragePath)},
			MyVote:        myVotes[photo.ID],
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day_id": day.ID,
		"photos": list,
	})
}

// signedURL degrades to an empty URL on signing failure; a photo row
// without a viewable image is still worth returning.
func (s *Server) signedURL(r *http.Request, path string) string {
	url, err := s.objects.SignedURL(r.Context(), path, time.Duration(s.cfg.SignedURLTTLSeconds)*time.Second)
	if err != nil {
		log.Printf("signed url failed path=%s error=%v", path, err)
		return ""
	}
	return url
}

func remainingQuota(quota, count int) int {
	if count >= quota {
		return 0
	}
	return quota - count
}

func quotaMessage(remaining int) string {
	return fmt.Sprintf("you can upload %d more photo(s) today", remaining)
}
