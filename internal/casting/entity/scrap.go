package entity

import "time"

// Scrap movement actions.
const (
	ScrapActionAdd    = "add"
	ScrapActionRemove = "remove"
)

// ScrapReserve tracks the on-hand scrap for one metal. QtyOnHand never goes
// below zero; the repository enforces that at the SQL level.
type ScrapReserve struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	MetalID   uint      `json:"metal_id" gorm:"uniqueIndex"`
	MetalName string    `json:"metal_name" gorm:"size:50"`
	QtyOnHand float64   `json:"qty_on_hand"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ScrapReserve) TableName() string {
	return "scrap_reserves"
}

// ScrapMovement journals every reserve change: supply debits, reconciliation
// credits and manual adjustments. Amount is signed, negative for removals.
type ScrapMovement struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	MetalID      uint      `json:"metal_id" gorm:"index"`
	Action       string    `json:"action" gorm:"size:20"` // add/remove
	Amount       float64   `json:"amount"`
	BalanceAfter float64   `json:"balance_after"`
	Reference    string    `json:"reference" gorm:"size:100"` // e.g. flask:<id>, manual
	PostedBy     string    `json:"posted_by" gorm:"size:50"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ScrapMovement) TableName() string {
	return "scrap_movements"
}

// ReserveSnapshot is written nightly by the scheduler for trend reporting.
type ReserveSnapshot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Date      string    `json:"date" gorm:"size:10;index"`
	MetalID   uint      `json:"metal_id" gorm:"index"`
	MetalName string    `json:"metal_name" gorm:"size:50"`
	QtyOnHand float64   `json:"qty_on_hand"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReserveSnapshot) TableName() string {
	return "reserve_snapshots"
}
