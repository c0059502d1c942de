package entity

import "time"

// Reconciliation is the confirmed mass balance for a finished flask.
// Losses follow the shop formulas:
//
//	loss_in_casting = supplied - before_cut
//	loss_in_cutting = before_cut - (after_cast + after_scrap)
//	loss_total      = supplied - (after_cast + after_scrap)
type Reconciliation struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	FlaskID          uint      `json:"flask_id" gorm:"uniqueIndex"`
	FlaskNo          string    `json:"flask_no" gorm:"size:50"`
	Date             string    `json:"date" gorm:"size:10;index"`
	MetalID          uint      `json:"metal_id" gorm:"index"`
	MetalName        string    `json:"metal_name" gorm:"size:50"`
	SuppliedWeight   float64   `json:"supplied_weight"`
	BeforeCutWeight  float64   `json:"before_cut_weight"`
	AfterCastWeight  float64   `json:"after_cast_weight"`
	AfterScrapWeight float64   `json:"after_scrap_weight"`
	LossInCasting    float64   `json:"loss_in_casting"`
	LossInCutting    float64   `json:"loss_in_cutting"`
	LossTotal        float64   `json:"loss_total"`
	ConfirmedBy      string    `json:"confirmed_by" gorm:"size:50"`
	ConfirmedAt      time.Time `json:"confirmed_at"`
}

func (Reconciliation) TableName() string {
	return "reconciliations"
}
