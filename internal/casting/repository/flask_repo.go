package repository

import (
	"context"
	"errors"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"gorm.io/gorm"
)

// FlaskRepository stores flasks across all stages.
type FlaskRepository struct {
	db *gorm.DB
}

func NewFlaskRepository(db *gorm.DB) *FlaskRepository {
	return &FlaskRepository{db: db}
}

func (r *FlaskRepository) Create(ctx context.Context, flask *entity.Flask) error {
	return r.db.WithContext(ctx).Create(flask).Error
}

func (r *FlaskRepository) FindByID(ctx context.Context, id uint) (*entity.Flask, error) {
	var flask entity.Flask
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&flask).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &flask, nil
}

// ExistsByDateNo reports whether a flask number is already taken for a date.
func (r *FlaskRepository) ExistsByDateNo(ctx context.Context, date, flaskNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Flask{}).
		Where("date = ? AND flask_no = ?", date, flaskNo).
		Count(&count).Error
	return count > 0, err
}

// ListByStage returns the queue for one stage, optionally filtered by flask no.
func (r *FlaskRepository) ListByStage(ctx context.Context, stage, flaskNo string) ([]entity.Flask, error) {
	var flasks []entity.Flask
	q := r.db.WithContext(ctx).Where("stage = ?", stage)
	if flaskNo != "" {
		q = q.Where("flask_no LIKE ?", "%"+flaskNo+"%")
	}
	err := q.Order("date DESC, metal_name ASC, flask_no ASC").Find(&flasks).Error
	return flasks, err
}

// SearchParams filters the cross-stage flask search.
type SearchParams struct {
	FlaskNo  string
	Stage    string
	MetalID  uint
	DateFrom string
	DateTo   string
}

// Search finds flasks across all stages.
func (r *FlaskRepository) Search(ctx context.Context, params SearchParams) ([]entity.Flask, error) {
	var flasks []entity.Flask
	q := r.db.WithContext(ctx).Model(&entity.Flask{})
	if params.FlaskNo != "" {
		q = q.Where("flask_no LIKE ?", "%"+params.FlaskNo+"%")
	}
	if params.Stage != "" {
		q = q.Where("stage = ?", params.Stage)
	}
	if params.MetalID != 0 {
		q = q.Where("metal_id = ?", params.MetalID)
	}
	if params.DateFrom != "" {
		q = q.Where("date >= ?", params.DateFrom)
	}
	if params.DateTo != "" {
		q = q.Where("date <= ?", params.DateTo)
	}
	err := q.Order("date DESC, flask_no ASC").Find(&flasks).Error
	return flasks, err
}

func (r *FlaskRepository) Update(ctx context.Context, flask *entity.Flask) error {
	return r.db.WithContext(ctx).Save(flask).Error
}

// UpdateTx is Update inside an existing transaction.
func (r *FlaskRepository) UpdateTx(tx *gorm.DB, flask *entity.Flask) error {
	return tx.Save(flask).Error
}
