package server

import (
	"sync"
	"time"

	"github.com/sdourte/Tripix/internal/db"
)

// memStore backs handler tests with the same constraint semantics as the
// Postgres store, minus the database.
type memStore struct {
	mu      sync.Mutex
	nextID  uint
	users   []db.User
	rooms   []db.Room
	players []db.Player
	themes  []db.Theme
	days    []db.GameDay
	photos  []db.Photo
	votes   []db.Vote
	events  []db.Event
}

func newMemStore() *memStore {
	return &memStore{nextID: 1}
}

func (m *memStore) id() uint {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memStore) addRoom(code, name string) db.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	room := db.Room{ID: m.id(), Code: code, Name: name}
	m.rooms = append(m.rooms, room)
	return room
}

func (m *memStore) addTheme(label string) db.Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	theme := db.Theme{ID: m.id(), Label: label}
	m.themes = append(m.themes, theme)
	return theme
}

func (m *memStore) CreateUser(email, passwordHash string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return nil, ErrDuplicate
		}
	}
	user := db.User{ID: m.id(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	m.users = append(m.users, user)
	return &user, nil
}

func (m *memStore) GetUserByEmail(email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) GetRoomByCode(code string) (*db.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rooms {
		if m.rooms[i].Code == code {
			room := m.rooms[i]
			return &room, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) UpsertPlayer(roomID, authUserID uint, pseudo string) (*db.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.players {
		if m.players[i].RoomID == roomID && m.players[i].AuthUserID == authUserID {
			m.players[i].Pseudo = pseudo
			player := m.players[i]
			return &player, nil
		}
	}
	player := db.Player{ID: m.id(), RoomID: roomID, AuthUserID: authUserID, Pseudo: pseudo}
	m.players = append(m.players, player)
	return &player, nil
}

func (m *memStore) GetPlayer(roomID, authUserID uint) (*db.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.players {
		if m.players[i].RoomID == roomID && m.players[i].AuthUserID == authUserID {
			player := m.players[i]
			return &player, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListPlayers(roomID uint) ([]db.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var players []db.Player
	for _, player := range m.players {
		if player.RoomID == roomID {
			players = append(players, player)
		}
	}
	return players, nil
}

func (m *memStore) ListThemes() ([]db.Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]db.Theme(nil), m.themes...), nil
}

func (m *memStore) GetGameDay(roomID uint, date string) (*db.GameDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findDay(roomID, date)
}

func (m *memStore) findDay(roomID uint, date string) (*db.GameDay, error) {
	for i := range m.days {
		if m.days[i].RoomID == roomID && m.days[i].Date == date {
			day := m.days[i]
			return &day, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) UpsertGameDay(day db.GameDay) (*db.GameDay, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, err := m.findDay(day.RoomID, day.Date); err == nil {
		return existing, false, nil
	}
	day.ID = m.id()
	m.days = append(m.days, day)
	created := day
	return &created, true, nil
}

func (m *memStore) ListPhotos(roomID uint) ([]db.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var photos []db.Photo
	for _, photo := range m.photos {
		if photo.RoomID == roomID {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

func (m *memStore) ListDayPhotos(roomID, dayID uint) ([]db.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var photos []db.Photo
	for _, photo := range m.photos {
		if photo.RoomID == roomID && photo.DayID == dayID {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}

func (m *memStore) CountPhotos(playerID, dayID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countPhotos(playerID, dayID), nil
}

func (m *memStore) countPhotos(playerID, dayID uint) int {
	count := 0
	for _, photo := range m.photos {
		if photo.PlayerID == playerID && photo.DayID == dayID {
			count++
		}
	}
	return count
}

func (m *memStore) InsertPhotos(photos []db.Photo, quota int) ([]db.Photo, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countPhotos(photos[0].PlayerID, photos[0].DayID)+len(photos) > quota {
		return nil, ErrQuotaExceeded
	}
	created := make([]db.Photo, 0, len(photos))
	for _, photo := range photos {
		photo.ID = m.id()
		photo.CreatedAt = time.Now().UTC()
		m.photos = append(m.photos, photo)
		created = append(created, photo)
	}
	return created, nil
}

func (m *memStore) GetPhoto(id uint) (*db.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.photos {
		if m.photos[i].ID == id {
			photo := m.photos[i]
			return &photo, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) InsertVote(vote db.Vote) (*db.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var owner uint
	found := false
	for _, photo := range m.photos {
		if photo.ID == vote.PhotoID {
			owner = photo.PlayerID
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFound
	}
	if owner == vote.VoterID {
		return nil, ErrSelfVote
	}
	for _, existing := range m.votes {
		if existing.PhotoID == vote.PhotoID && existing.VoterID == vote.VoterID {
			return nil, ErrDuplicate
		}
	}
	vote.ID = m.id()
	vote.CreatedAt = time.Now().UTC()
	m.votes = append(m.votes, vote)
	return &vote, nil
}

func (m *memStore) ListVotes(roomID uint) ([]db.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	roomPhotos := make(map[uint]bool)
	for _, photo := range m.photos {
		if photo.RoomID == roomID {
			roomPhotos[photo.ID] = true
		}
	}
	var votes []db.Vote
	for _, vote := range m.votes {
		if roomPhotos[vote.PhotoID] {
			votes = append(votes, vote)
		}
	}
	return votes, nil
}

func (m *memStore) ListVotesByVoter(roomID, voterID uint) ([]db.Vote, error) {
	votes, err := m.ListVotes(roomID)
	if err != nil {
		return nil, err
	}
	var mine []db.Vote
	for _, vote := range votes {
		if vote.VoterID == voterID {
			mine = append(mine, vote)
		}
	}
	return mine, nil
}

func (m *memStore) InsertEvent(event db.Event) (*db.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = m.id()
	event.CreatedAt = time.Now().UTC()
	m.events = append(m.events, event)
	return &event, nil
}

func (m *memStore) ListEvents(roomID, sinceID uint) ([]db.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []db.Event
	for _, event := range m.events {
		if event.RoomID == roomID && event.ID > sinceID {
			events = append(events, event)
		}
	}
	return events, nil
}
