package service

import (
	"context"
	"fmt"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/repository"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/rules"
)

// TreeService manages wax trees in transit.
type TreeService struct {
	treeRepo  *repository.TreeRepository
	metalRepo *repository.MetalRepository
}

func NewTreeService(treeRepo *repository.TreeRepository, metalRepo *repository.MetalRepository) *TreeService {
	return &TreeService{treeRepo: treeRepo, metalRepo: metalRepo}
}

// CreateTreeReq is the waxing submission for a new tree.
type CreateTreeReq struct {
	Date         string   `json:"date" binding:"required"`
	TreeNo       int      `json:"tree_no" binding:"required,gt=0"`
	MetalID      uint     `json:"metal_id" binding:"required"`
	GasketWeight float64  `json:"gasket_weight" binding:"gte=0"`
	TotalWeight  float64  `json:"total_weight" binding:"required,gt=0"`
	BagNos       []string `json:"bag_nos"`
	PostedBy     string   `json:"posted_by"`
}

// CreateTree registers a waxed tree and estimates its metal requirement.
func (s *TreeService) CreateTree(ctx context.Context, req CreateTreeReq) (*entity.Tree, error) {
	metal, err := s.metalRepo.FindByID(ctx, req.MetalID)
	if err != nil {
		return nil, fmt.Errorf("metal %d: %w", req.MetalID, err)
	}

	taken, err := s.treeRepo.ExistsByDateNo(ctx, req.Date, req.TreeNo)
	if err != nil {
		return nil, fmt.Errorf("check tree no: %w", err)
	}
	if taken {
		return nil, &DuplicateError{Kind: "tree_no", Date: req.Date, Value: fmt.Sprintf("%d", req.TreeNo)}
	}

	treeWeight, metalWeight, err := rules.EstimateMetalWeight(metal.Name, req.GasketWeight, req.TotalWeight)
	if err != nil {
		return nil, err
	}

	tree := &entity.Tree{
		Date:         req.Date,
		TreeNo:       req.TreeNo,
		MetalID:      metal.ID,
		MetalName:    metal.Name,
		GasketWeight: req.GasketWeight,
		TotalWeight:  req.TotalWeight,
		TreeWeight:   treeWeight,
		MetalWeight:  metalWeight,
		BagNos:       entity.BagNos(req.BagNos),
		Status:       entity.TreeStatusTransit,
		PostedBy:     req.PostedBy,
	}
	if err := s.treeRepo.Create(ctx, tree); err != nil {
		return nil, fmt.Errorf("create tree: %w", err)
	}
	return tree, nil
}

// NextTreeNo returns the next free tree number for a date.
func (s *TreeService) NextTreeNo(ctx context.Context, date string) (int, error) {
	return s.treeRepo.NextTreeNo(ctx, date)
}

// TransitQueue lists trees waiting for a flask.
func (s *TreeService) TransitQueue(ctx context.Context) ([]entity.Tree, error) {
	return s.treeRepo.ListTransit(ctx)
}

// SetPhotoURL attaches an uploaded photo to a tree.
func (s *TreeService) SetPhotoURL(ctx context.Context, treeID uint, url string) (*entity.Tree, error) {
	tree, err := s.treeRepo.FindByID(ctx, treeID)
	if err != nil {
		return nil, err
	}
	tree.PhotoURL = url
	if err := s.treeRepo.Update(ctx, tree); err != nil {
		return nil, fmt.Errorf("update tree photo: %w", err)
	}
	return tree, nil
}
