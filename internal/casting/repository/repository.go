package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the casting repository set.
type Repositories struct {
	Metal          *MetalRepository
	Tree           *TreeRepository
	Flask          *FlaskRepository
	Reserve        *ReserveRepository
	Reconciliation *ReconciliationRepository
}

// NewRepositories creates the casting repository set.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Metal:          NewMetalRepository(db),
		Tree:           NewTreeRepository(db),
		Flask:          NewFlaskRepository(db),
		Reserve:        NewReserveRepository(db),
		Reconciliation: NewReconciliationRepository(db),
	}
}
