package server

import (
	"sort"

	"github.com/sdourte/Tripix/internal/db"
)

// Shown when a vote resolves to a player id missing from the room's player
// list; a stale row should degrade, not fail the board.
const missingPseudo = "???"

type ScoreRow struct {
	PlayerID uint   `json:"player_id"`
	Pseudo   string `json:"pseudo"`
	Points   int    `json:"points"`
}

// ComputeLeaderboards folds a room's votes into the daily and overall
// rankings. todayDayID is zero when no theme has been drawn yet, which
// leaves the daily board empty. Votes referencing a photo id not present in
// photos are skipped. Players with no resolved votes get no row at all; a
// zero-point line is never rendered.
func ComputeLeaderboards(players []db.Player, photos []db.Photo, votes []db.Vote, todayDayID uint) (daily, overall []ScoreRow) {
	ownerOf := make(map[uint]uint, len(photos))
	isToday := make(map[uint]bool, len(photos))
	for _, photo := range photos {
		ownerOf[photo.ID] = photo.PlayerID
		isToday[photo.ID] = todayDayID != 0 && photo.DayID == todayDayID
	}

	totalByPlayer := make(map[uint]int)
	dailyByPlayer := make(map[uint]int)
	for _, vote := range votes {
		owner, ok := ownerOf[vote.PhotoID]
		if !ok {
			continue
		}
		totalByPlayer[owner] += vote.Value
		if isToday[vote.PhotoID] {
			dailyByPlayer[owner] += vote.Value
		}
	}

	pseudoOf := make(map[uint]string, len(players))
	for _, player := range players {
		pseudoOf[player.ID] = player.Pseudo
	}

	return toRows(dailyByPlayer, pseudoOf), toRows(totalByPlayer, pseudoOf)
}

func toRows(points map[uint]int, pseudoOf map[uint]string) []ScoreRow {
	rows := make([]ScoreRow, 0, len(points))
	for playerID, total := range points {
		pseudo, ok := pseudoOf[playerID]
		if !ok {
			pseudo = missingPseudo
		}
		rows = append(rows, ScoreRow{
			PlayerID: playerID,
			Pseudo:   pseudo,
			Points:   total,
		})
	}
	// Points descending; ties break on pseudo then id so the order is
	// stable across recomputations.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Pseudo != rows[j].Pseudo {
			return rows[i].Pseudo < rows[j].Pseudo
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	return rows
}
