package db

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"-"`
}

type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:12;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
	Players   []Player  `json:"-"`
	GameDays  []GameDay `json:"-"`
	Photos    []Photo   `json:"-"`
	Events    []Event   `json:"-"`
}

type Player struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RoomID     uint      `gorm:"index;not null;uniqueIndex:idx_players_room_user" json:"room_id"`
	AuthUserID uint      `gorm:"not null;uniqueIndex:idx_players_room_user" json:"auth_user_id"`
	Pseudo     string    `gorm:"size:32;not null" json:"pseudo"`
	CreatedAt  time.Time `gorm:"not null" json:"-"`
	UpdatedAt  time.Time `gorm:"not null" json:"-"`
	Photos     []Photo   `json:"-"`
}

type Theme struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"size:140;uniqueIndex;not null" json:"label"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

// GameDay rows are written once per (room, date); the theme fields never
// change after the first spin wins the insert.
type GameDay struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RoomID     uint      `gorm:"index;not null;uniqueIndex:idx_game_days_room_date" json:"room_id"`
	Date       string    `gorm:"size:10;not null;uniqueIndex:idx_game_days_room_date" json:"date"`
	ThemeID    uint      `gorm:"not null" json:"theme_id"`
	ThemeLabel string    `gorm:"size:140;not null" json:"theme_label"`
	CreatedAt  time.Time `gorm:"not null" json:"-"`
	UpdatedAt  time.Time `gorm:"not null" json:"-"`
}

type Photo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RoomID      uint      `gorm:"index;not null" json:"room_id"`
	DayID       uint      `gorm:"index;not null" json:"day_id"`
	PlayerID    uint      `gorm:"index;not null" json:"player_id"`
	StoragePath string    `gorm:"size:255;not null" json:"storage_path"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	Votes       []Vote    `json:"-"`
}

type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PhotoID   uint      `gorm:"index;not null;uniqueIndex:idx_votes_photo_voter" json:"photo_id"`
	VoterID   uint      `gorm:"not null;uniqueIndex:idx_votes_photo_voter" json:"voter_id"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 5" json:"value"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RoomID    uint           `gorm:"index;not null" json:"room_id"`
	Table     string         `gorm:"column:table_name;size:32;not null" json:"table"`
	Type      string         `gorm:"size:16;not null" json:"type"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}
