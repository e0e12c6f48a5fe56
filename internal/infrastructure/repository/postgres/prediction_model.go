package postgres

import "time"

type predictionTableModel struct {
	ID          int64      `db:"id"`
	PlayerID    string     `db:"player_id"`
	Gameweek    int        `db:"gameweek"`
	MatchID     int64      `db:"match_id"`
	Label       string     `db:"label"`
	SubmittedAt time.Time  `db:"submitted_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type predictionInsertModel struct {
	PlayerID    string    `db:"player_id"`
	Gameweek    int       `db:"gameweek"`
	MatchID     int64     `db:"match_id"`
	Label       string    `db:"label"`
	SubmittedAt time.Time `db:"submitted_at"`
}
