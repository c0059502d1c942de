package repository

import (
	"context"
	"errors"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"gorm.io/gorm"
)

// MetalRepository reads the metal catalog.
type MetalRepository struct {
	db *gorm.DB
}

func NewMetalRepository(db *gorm.DB) *MetalRepository {
	return &MetalRepository{db: db}
}

// ListActive returns the active metals sorted by name.
func (r *MetalRepository) ListActive(ctx context.Context) ([]entity.Metal, error) {
	var metals []entity.Metal
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&metals).Error
	return metals, err
}

// FindByID looks up one metal.
func (r *MetalRepository) FindByID(ctx context.Context, id uint) (*entity.Metal, error) {
	var m entity.Metal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Upsert inserts a metal by name if it does not exist yet. Used by seeding.
func (r *MetalRepository) Upsert(ctx context.Context, name string) error {
	var existing entity.Metal
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(&entity.Metal{Name: name, Active: true}).Error
}
