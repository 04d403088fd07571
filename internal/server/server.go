package server

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/sdourte/Tripix/internal/cache"
	"github.com/sdourte/Tripix/internal/config"
	"github.com/sdourte/Tripix/internal/imaging"
	"github.com/sdourte/Tripix/internal/storage"
)

type Server struct {
	store      Store
	objects    storage.ObjectStore
	compressor imaging.Compressor
	players    *cache.PlayerCache
	ws         *wsHub
	cfg        config.Config
}

func New(store Store, objects storage.ObjectStore, compressor imaging.Compressor, players *cache.PlayerCache, cfg config.Config) *Server {
	return &Server{
		store:      store,
		objects:    objects,
		compressor: compressor,
		players:    players,
		ws:         newWSHub(),
		cfg:        cfg,
	}
}

func (s *Server) Handler() http.Handler {
	limit := httprate.Limit(
		s.cfg.RateLimitPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
	)

	mux := http.NewServeMux()
	mux.Handle("POST /api/auth/signup", limit(http.HandlerFunc(s.handleSignup)))
	mux.Handle("POST /api/auth/login", limit(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.Handle("POST /api/rooms/join", limit(http.HandlerFunc(s.handleJoinRoom)))
	mux.HandleFunc("GET /api/rooms/", s.handleRoomSubroutes)
	mux.Handle("POST /api/rooms/", limit(http.HandlerFunc(s.handleRoomSubroutes)))
	mux.Handle("POST /api/photos/", limit(http.HandlerFunc(s.handleVote)))
	mux.HandleFunc("GET /ws/rooms/", s.handleWebsocket)
	return mux
}

func (s *Server) handleRoomSubroutes(w http.ResponseWriter, r *http.Request) {
	roomID, action, ok := parseRoomPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		switch action {
		case "me":
			s.handleMe(w, r, roomID)
		case "today":
			s.handleToday(w, r, roomID)
		case "photos":
			s.handleListPhotos(w, r, roomID)
		case "votables":
			s.handleVotables(w, r, roomID)
		case "board":
			s.handleBoard(w, r, roomID)
		case "events":
			s.handleEvents(w, r, roomID)
		default:
			http.NotFound(w, r)
		}
	case http.MethodPost:
		switch action {
		case "spin":
			s.handleSpin(w, r, roomID)
		case "photos":
			s.handleUploadPhotos(w, r, roomID)
		default:
			http.NotFound(w, r)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// today returns the calendar date the way the game keys days, UTC.
func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
