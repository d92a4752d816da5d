package models

// Player mirrors the players table of the sqlite stats snapshot.
type Player struct {
	PlayerID  int64  `gorm:"column:player_id;primaryKey" json:"player_id"`
	FullName  string `gorm:"column:full_name" json:"full_name"`
	FirstName string `gorm:"column:first_name" json:"first_name"`
	LastName  string `gorm:"column:last_name" json:"last_name"`
	Position  string `gorm:"column:position" json:"position"`
	IsActive  bool   `gorm:"column:is_active" json:"is_active"`
}

func (Player) TableName() string {
	return "players"
}
