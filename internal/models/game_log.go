package models

// GameLog is one player's box score line for a single game, as stored in
// the stats table of the sqlite snapshot. The nine category columns are
// pointers because the upstream feed occasionally leaves them null.
type GameLog struct {
	PlayerID int64  `gorm:"column:player_id" json:"player_id"`
	GameID   string `gorm:"column:game_id" json:"game_id"`
	Date     string `gorm:"column:date" json:"date"`
	Season   string `gorm:"column:season" json:"season"`

	Points       *float64 `gorm:"column:pts" json:"pts"`
	Rebounds     *float64 `gorm:"column:reb" json:"reb"`
	Assists      *float64 `gorm:"column:ast" json:"ast"`
	Steals       *float64 `gorm:"column:stl" json:"stl"`
	Blocks       *float64 `gorm:"column:blk" json:"blk"`
	ThreesMade   *float64 `gorm:"column:fg3m" json:"fg3m"`
	FieldGoalPct *float64 `gorm:"column:fg_pct" json:"fg_pct"`
	FreeThrowPct *float64 `gorm:"column:ft_pct" json:"ft_pct"`
	Turnovers    *float64 `gorm:"column:tov" json:"tov"`

	// Minutes as reported upstream, usually "mm:ss" text.
	Minutes string `gorm:"column:min" json:"min"`
}

func (GameLog) TableName() string {
	return "stats"
}
