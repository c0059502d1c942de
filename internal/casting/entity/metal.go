package entity

import "time"

// Metal is a castable alloy offered by the shop, e.g. "14W", "18Y", "PLATINUM 950".
// Rule lookups (density, temps, fineness) go by Name, see the rules package.
type Metal struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;uniqueIndex"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Metal) TableName() string {
	return "metals"
}
