package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BagNos is a list of wax bag numbers stored as a JSON array in a text column.
type BagNos []string

func (b BagNos) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (b *BagNos) Scan(value interface{}) error {
	if value == nil {
		*b = BagNos{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into BagNos", value)
	}
	if len(data) == 0 {
		*b = BagNos{}
		return nil
	}
	return json.Unmarshal(data, b)
}

// Tree statuses
const (
	TreeStatusTransit = "transit" // waxed, waiting to be flasked
	TreeStatusPosted  = "posted"  // attached to a flask, left transit
)

// Tree is a wax tree built in waxing. TreeNo is unique per production date.
// MetalWeight is the estimated metal requirement from the density rule.
type Tree struct {
	ID           uint       `json:"tree_id" gorm:"primaryKey"`
	Date         string     `json:"date" gorm:"size:10;uniqueIndex:idx_trees_date_no"`
	TreeNo       int        `json:"tree_no" gorm:"uniqueIndex:idx_trees_date_no"`
	MetalID      uint       `json:"metal_id" gorm:"index"`
	MetalName    string     `json:"metal_name" gorm:"size:50"`
	GasketWeight float64    `json:"gasket_weight"`
	TotalWeight  float64    `json:"total_weight"`
	TreeWeight   float64    `json:"tree_weight"`  // total - gasket
	MetalWeight  float64    `json:"metal_weight"` // tree_weight * density factor
	BagNos       BagNos     `json:"bag_nos" gorm:"type:text"`
	PhotoURL     string     `json:"photo_url" gorm:"size:500"`
	Status       string     `json:"status" gorm:"size:20;index;default:transit"`
	PostedBy     string     `json:"posted_by" gorm:"size:50"`
	PostedAt     *time.Time `json:"posted_at"` // when it left transit
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Tree) TableName() string {
	return "trees"
}
