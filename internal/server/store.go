package server

import (
	"errors"

	"github.com/sdourte/Tripix/internal/db"
)

// Constraint and lookup failures surfaced by a Store. Handlers map each to
// its own user-visible message; nothing here is retried.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("already exists")
	ErrSelfVote      = errors.New("self-vote forbidden")
	ErrQuotaExceeded = errors.New("photo quota exceeded")
)

// Store is the directory the handlers read and write. The Postgres
// implementation lives in gorm_store.go; tests use an in-memory one.
// Uniqueness and ownership rules are enforced here, at write time, not in
// the leaderboard aggregation.
type Store interface {
	CreateUser(email, passwordHash string) (*db.User, error)
	GetUserByEmail(email string) (*db.User, error)

	GetRoomByCode(code string) (*db.Room, error)
	UpsertPlayer(roomID, authUserID uint, pseudo string) (*db.Player, error)
	GetPlayer(roomID, authUserID uint) (*db.Player, error)
	ListPlayers(roomID uint) ([]db.Player, error)

	ListThemes() ([]db.Theme, error)
	GetGameDay(roomID uint, date string) (*db.GameDay, error)
	// UpsertGameDay inserts the day unless one already exists for
	// (room, date); on conflict the stored row wins and created is false.
	UpsertGameDay(day db.GameDay) (*db.GameDay, bool, error)

	ListPhotos(roomID uint) ([]db.Photo, error)
	ListDayPhotos(roomID, dayID uint) ([]db.Photo, error)
	CountPhotos(playerID, dayID uint) (int, error)
	// InsertPhotos refuses the whole batch with ErrQuotaExceeded when it
	// would push the (player, day) photo count past quota. The check and
	// the insert are atomic.
	InsertPhotos(photos []db.Photo, quota int) ([]db.Photo, error)
	GetPhoto(id uint) (*db.Photo, error)

	// InsertVote rejects votes on own photos (ErrSelfVote), repeat votes
	// on the same photo (ErrDuplicate) and unknown photos (ErrNotFound).
	InsertVote(vote db.Vote) (*db.Vote, error)
	ListVotes(roomID uint) ([]db.Vote, error)
	ListVotesByVoter(roomID, voterID uint) ([]db.Vote, error)

	InsertEvent(event db.Event) (*db.Event, error)
	ListEvents(roomID, sinceID uint) ([]db.Event, error)
}
