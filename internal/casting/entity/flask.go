package entity

import "time"

// Flask stages, in production order.
const (
	StageTransit        = "transit"
	StageMetalPrep      = "metal_prep"
	StageSupply         = "supply"
	StageCasting        = "casting"
	StageQuenching      = "quenching"
	StageCutting        = "cutting"
	StageReconciliation = "reconciliation"
	StageDone           = "done"
)

// ValidStageTransitions lists the allowed forward moves. A flask never goes
// backwards. Transit may skip metal prep and go straight to supply.
var ValidStageTransitions = map[string][]string{
	StageTransit:        {StageMetalPrep, StageSupply},
	StageMetalPrep:      {StageSupply},
	StageSupply:         {StageCasting},
	StageCasting:        {StageQuenching},
	StageQuenching:      {StageCutting},
	StageCutting:        {StageReconciliation},
	StageReconciliation: {StageDone},
}

// CanTransition reports whether from → to is a legal stage move.
func CanTransition(from, to string) bool {
	for _, s := range ValidStageTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Flask is the unit of work moving through the shop. FlaskNo is unique per
// production date. Weight fields accumulate as the flask advances:
// planned composition at metal prep, supplied composition at supply,
// measured weights at cutting.
type Flask struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Date      string `json:"date" gorm:"size:10;uniqueIndex:idx_flasks_date_no"`
	FlaskNo   string `json:"flask_no" gorm:"size:50;uniqueIndex:idx_flasks_date_no"`
	TreeID    *uint  `json:"tree_id" gorm:"index"`
	TreeNo    int    `json:"tree_no"`
	MetalID   uint   `json:"metal_id" gorm:"index"`
	MetalName string `json:"metal_name" gorm:"size:50"`
	Stage     string `json:"stage" gorm:"size:20;index"`

	// Estimated requirement carried over from the tree.
	MetalWeight float64 `json:"metal_weight"`

	// Metal prep plan.
	Prepared     bool    `json:"prepared"`
	ScrapPlanned float64 `json:"scrap_planned"`
	FinePlanned  float64 `json:"fine_24k_planned"`
	AlloyPlanned float64 `json:"alloy_planned"`

	// Actual supply. ScrapSupplied is debited from the reserve.
	ScrapSupplied  float64 `json:"scrap_supplied"`
	FineSupplied   float64 `json:"fine_24k_supplied"`
	AlloySupplied  float64 `json:"alloy_supplied"`
	SuppliedWeight float64 `json:"supplied_weight"`

	// Casting.
	CastingTemp        float64    `json:"casting_temp"`
	OvenTemp           float64    `json:"oven_temp"`
	CastingCompletedAt *time.Time `json:"casting_completed_at"`

	// Cutting measurements.
	BeforeCutWeight  float64 `json:"before_cut_weight"`
	AfterCastWeight  float64 `json:"after_cast_weight"`
	AfterScrapWeight float64 `json:"after_scrap_weight"`

	PostedBy  string    `json:"posted_by" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Flask) TableName() string {
	return "flasks"
}
