package repository

import (
	"context"
	"errors"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"gorm.io/gorm"
)

// TreeRepository stores wax trees.
type TreeRepository struct {
	db *gorm.DB
}

func NewTreeRepository(db *gorm.DB) *TreeRepository {
	return &TreeRepository{db: db}
}

func (r *TreeRepository) Create(ctx context.Context, tree *entity.Tree) error {
	return r.db.WithContext(ctx).Create(tree).Error
}

func (r *TreeRepository) FindByID(ctx context.Context, id uint) (*entity.Tree, error) {
	var tree entity.Tree
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tree).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tree, nil
}

// ExistsByDateNo reports whether a tree number is already taken for a date.
func (r *TreeRepository) ExistsByDateNo(ctx context.Context, date string, treeNo int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Tree{}).
		Where("date = ? AND tree_no = ?", date, treeNo).
		Count(&count).Error
	return count > 0, err
}

// NextTreeNo returns max(tree_no)+1 for a date, starting at 1.
func (r *TreeRepository) NextTreeNo(ctx context.Context, date string) (int, error) {
	var maxNo int
	err := r.db.WithContext(ctx).
		Model(&entity.Tree{}).
		Select("COALESCE(MAX(tree_no), 0)").
		Where("date = ?", date).
		Scan(&maxNo).Error
	return maxNo + 1, err
}

// ListTransit returns trees still waiting for a flask, newest date first.
func (r *TreeRepository) ListTransit(ctx context.Context) ([]entity.Tree, error) {
	var trees []entity.Tree
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.TreeStatusTransit).
		Order("date DESC, tree_no ASC").
		Find(&trees).Error
	return trees, err
}

// ListTransitBetween returns transit trees in a date range for reporting.
func (r *TreeRepository) ListTransitBetween(ctx context.Context, from, to string) ([]entity.Tree, error) {
	var trees []entity.Tree
	q := r.db.WithContext(ctx).Where("status = ?", entity.TreeStatusTransit)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	err := q.Order("date ASC, tree_no ASC").Find(&trees).Error
	return trees, err
}

func (r *TreeRepository) Update(ctx context.Context, tree *entity.Tree) error {
	return r.db.WithContext(ctx).Save(tree).Error
}
