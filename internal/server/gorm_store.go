package server

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sdourte/Tripix/internal/db"
)

// GormStore is the Postgres-backed Store. Uniqueness constraints in the
// schema are the last line of defense for duplicate votes, double joins
// and concurrent spins; this type translates them into sentinel errors.
type GormStore struct {
	conn *gorm.DB
}

func NewGormStore(conn *gorm.DB) *GormStore {
	return &GormStore{conn: conn}
}

func (g *GormStore) CreateUser(email, passwordHash string) (*db.User, error) {
	record := db.User{Email: email, PasswordHash: passwordHash}
	if err := g.conn.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &record, nil
}

func (g *GormStore) GetUserByEmail(email string) (*db.User, error) {
	var record db.User
	if err := g.conn.Where("email = ?", email).First(&record).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &record, nil
}

func (g *GormStore) GetRoomByCode(code string) (*db.Room, error) {
	var record db.Room
	if err := g.conn.Where("code = ?", code).First(&record).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &record, nil
}

func (g *GormStore) UpsertPlayer(roomID, authUserID uint, pseudo string) (*db.Player, error) {
	record := db.Player{RoomID: roomID, AuthUserID: authUserID, Pseudo: pseudo}
	err := g.conn.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "room_id"}, {Name: "auth_user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"pseudo":     pseudo,
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}
	// Re-read so the conflict path returns the stored row and its id.
	if err := g.conn.Where("room_id = ? AND auth_user_id = ?", roomID, authUserID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (g *GormStore) GetPlayer(roomID, authUserID uint) (*db.Player, error) {
	var record db.Player
	if err := g.conn.Where("room_id = ? AND auth_user_id = ?", roomID, authUserID).First(&record).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &record, nil
}

func (g *GormStore) ListPlayers(roomID uint) ([]db.Player, error) {
	var records []db.Player
	if err := g.conn.Where("room_id = ?", roomID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (g *GormStore) ListThemes() ([]db.Theme, error) {
	var records []db.Theme
	if err := g.conn.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (g *GormStore) GetGameDay(roomID uint, date string) (*db.GameDay, error) {
	var record db.GameDay
	if err := g.conn.Where("room_id = ? AND date = ?", roomID, date).First(&record).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &record, nil
}

func (g *GormStore) UpsertGameDay(day db.GameDay) (*db.GameDay, bool, error) {
	record := day
	err := g.conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
	if err != nil && !isUniqueViolation(err) {
		return nil, false, err
	}
	if err == nil && record.ID != 0 {
		return &record, true, nil
	}
	// Lost the race or the day already existed; the stored theme wins.
	existing, lookupErr := g.GetGameDay(day.RoomID, day.Date)
	if lookupErr != nil {
		return nil, false, lookupErr
	}
	return existing, false, nil
}

func (g *GormStore) ListPhotos(roomID uint) ([]db.Photo, error) {
	var records []db.Photo
	if err := g.conn.Where("room_id = ?", roomID).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (g *GormStore) ListDayPhotos(roomID, dayID uint) ([]db.Photo, error) {
	var records []db.Photo
	if err := g.conn.Where("room_id = ? AND day_id = ?", roomID, dayID).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (g *GormStore) CountPhotos(playerID, dayID uint) (int, error) {
	var count int64
	if err := g.conn.Model(&db.Photo{}).Where("player_id = ? AND day_id = ?", playerID, dayID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (g *GormStore) InsertPhotos(photos []db.Photo, quota int) ([]db.Photo, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	// Count and insert run in one transaction, serialized per player by a
	// row lock, so two concurrent batches cannot both squeeze under the cap.
	err := g.conn.Transaction(func(tx *gorm.DB) error {
		var player db.Player
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&player, photos[0].PlayerID).Error; err != nil {
			return translateNotFound(err)
		}
		var count int64
		if err := tx.Model(&db.Photo{}).
			Where("player_id = ? AND day_id = ?", photos[0].PlayerID, photos[0].DayID).
			Count(&count).Error; err != nil {
			return err
		}
		if int(count)+len(photos) > quota {
			return ErrQuotaExceeded
		}
		return tx.Create(&photos).Error
	})
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (g *GormStore) GetPhoto(id uint) (*db.Photo, error) {
	var record db.Photo
	if err := g.conn.First(&record, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &record, nil
}

func (g *GormStore) InsertVote(vote db.Vote) (*db.Vote, error) {
	record := vote
	err := g.conn.Transaction(func(tx *gorm.DB) error {
		var photo db.Photo
		if err := tx.First(&photo, vote.PhotoID).Error; err != nil {
			return translateNotFound(err)
		}
		if photo.PlayerID == vote.VoterID {
			return ErrSelfVote
		}
		if err := tx.Create(&record).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (g *GormStore) ListVotes(roomID uint) ([]db.Vote, error) {
	var records []db.Vote
	err := g.conn.
		Joins("JOIN photos ON photos.id = votes.photo_id").
		Where("photos.room_id = ?", roomID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (g *GormStore) ListVotesByVoter(roomID, voterID uint) ([]db.Vote, error) {
	var records []db.Vote
	err := g.conn.
		Joins("JOIN photos ON photos.id = votes.photo_id").
		Where("photos.room_id = ? AND votes.voter_id = ?", roomID, voterID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (g *GormStore) InsertEvent(event db.Event) (*db.Event, error) {
	record := event
	if err := g.conn.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (g *GormStore) ListEvents(roomID, sinceID uint) ([]db.Event, error) {
	var records []db.Event
	if err := g.conn.Where("room_id = ? AND id > ?", roomID, sinceID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
