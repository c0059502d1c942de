package repository

import (
	"context"
	"errors"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"gorm.io/gorm"
)

// ErrInsufficientReserve is returned when a debit would drive a reserve
// below zero. The service wraps it with the amounts involved.
var ErrInsufficientReserve = errors.New("insufficient scrap reserve")

// ReserveRepository stores per-metal scrap reserves and their movement journal.
type ReserveRepository struct {
	db *gorm.DB
}

func NewReserveRepository(db *gorm.DB) *ReserveRepository {
	return &ReserveRepository{db: db}
}

// List returns all reserves sorted by metal name.
func (r *ReserveRepository) List(ctx context.Context) ([]entity.ScrapReserve, error) {
	var reserves []entity.ScrapReserve
	err := r.db.WithContext(ctx).Order("metal_name ASC").Find(&reserves).Error
	return reserves, err
}

// FindByMetalID looks up one reserve row.
func (r *ReserveRepository) FindByMetalID(ctx context.Context, metalID uint) (*entity.ScrapReserve, error) {
	var res entity.ScrapReserve
	err := r.db.WithContext(ctx).Where("metal_id = ?", metalID).First(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Ensure creates a zero reserve row for a metal if none exists.
func (r *ReserveRepository) Ensure(ctx context.Context, metalID uint, metalName string) error {
	_, err := r.FindByMetalID(ctx, metalID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(&entity.ScrapReserve{MetalID: metalID, MetalName: metalName}).Error
}

// DebitTx atomically decrements a reserve inside tx. The guarded UPDATE only
// matches when qty_on_hand covers the amount, so a concurrent debit cannot
// take the balance negative.
func (r *ReserveRepository) DebitTx(tx *gorm.DB, metalID uint, amount float64) (balanceAfter float64, err error) {
	result := tx.Model(&entity.ScrapReserve{}).
		Where("metal_id = ? AND qty_on_hand >= ?", metalID, amount).
		UpdateColumn("qty_on_hand", gorm.Expr("qty_on_hand - ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrInsufficientReserve
	}

	var res entity.ScrapReserve
	if err := tx.Where("metal_id = ?", metalID).First(&res).Error; err != nil {
		return 0, err
	}
	return res.QtyOnHand, nil
}

// CreditTx atomically increments a reserve inside tx, creating the row if the
// metal has never held scrap before.
func (r *ReserveRepository) CreditTx(tx *gorm.DB, metalID uint, metalName string, amount float64) (balanceAfter float64, err error) {
	result := tx.Model(&entity.ScrapReserve{}).
		Where("metal_id = ?", metalID).
		UpdateColumn("qty_on_hand", gorm.Expr("qty_on_hand + ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		res := &entity.ScrapReserve{MetalID: metalID, MetalName: metalName, QtyOnHand: amount}
		if err := tx.Create(res).Error; err != nil {
			return 0, err
		}
		return amount, nil
	}

	var res entity.ScrapReserve
	if err := tx.Where("metal_id = ?", metalID).First(&res).Error; err != nil {
		return 0, err
	}
	return res.QtyOnHand, nil
}

// LogMovementTx journals one reserve change inside tx.
func (r *ReserveRepository) LogMovementTx(tx *gorm.DB, mv *entity.ScrapMovement) error {
	return tx.Create(mv).Error
}

// ListMovements returns the journal for one metal, newest first.
func (r *ReserveRepository) ListMovements(ctx context.Context, metalID uint, limit int) ([]entity.ScrapMovement, error) {
	var movements []entity.ScrapMovement
	q := r.db.WithContext(ctx).Where("metal_id = ?", metalID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&movements).Error
	return movements, err
}

// SaveSnapshot writes one reserve snapshot row.
func (r *ReserveRepository) SaveSnapshot(ctx context.Context, snap *entity.ReserveSnapshot) error {
	return r.db.WithContext(ctx).Create(snap).Error
}
