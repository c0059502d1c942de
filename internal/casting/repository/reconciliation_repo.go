package repository

import (
	"context"
	"errors"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"gorm.io/gorm"
)

// ReconciliationRepository stores confirmed mass balances.
type ReconciliationRepository struct {
	db *gorm.DB
}

func NewReconciliationRepository(db *gorm.DB) *ReconciliationRepository {
	return &ReconciliationRepository{db: db}
}

// CreateTx writes the reconciliation inside an existing transaction.
func (r *ReconciliationRepository) CreateTx(tx *gorm.DB, rec *entity.Reconciliation) error {
	return tx.Create(rec).Error
}

// FindByFlaskID returns the confirmed balance for a flask.
func (r *ReconciliationRepository) FindByFlaskID(ctx context.Context, flaskID uint) (*entity.Reconciliation, error) {
	var rec entity.Reconciliation
	err := r.db.WithContext(ctx).Where("flask_id = ?", flaskID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListBetween returns reconciliations in a date range for loss reporting.
func (r *ReconciliationRepository) ListBetween(ctx context.Context, from, to string, metalID uint) ([]entity.Reconciliation, error) {
	var recs []entity.Reconciliation
	q := r.db.WithContext(ctx).Model(&entity.Reconciliation{})
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	if metalID != 0 {
		q = q.Where("metal_id = ?", metalID)
	}
	err := q.Order("date ASC, flask_no ASC").Find(&recs).Error
	return recs, err
}
