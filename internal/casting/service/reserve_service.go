package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/repository"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/rules"
	"gorm.io/gorm"
)

// ReserveService manages the per-metal scrap reserves.
type ReserveService struct {
	db          *gorm.DB
	reserveRepo *repository.ReserveRepository
	metalRepo   *repository.MetalRepository
}

func NewReserveService(db *gorm.DB, reserveRepo *repository.ReserveRepository, metalRepo *repository.MetalRepository) *ReserveService {
	return &ReserveService{db: db, reserveRepo: reserveRepo, metalRepo: metalRepo}
}

// List returns all reserves sorted by metal name.
func (s *ReserveService) List(ctx context.Context) ([]entity.ScrapReserve, error) {
	return s.reserveRepo.List(ctx)
}

// Movements returns the recent journal for one metal.
func (s *ReserveService) Movements(ctx context.Context, metalID uint, limit int) ([]entity.ScrapMovement, error) {
	return s.reserveRepo.ListMovements(ctx, metalID, limit)
}

// AdjustReq is a manual reserve correction from the adjust page.
type AdjustReq struct {
	MetalID  uint    `json:"metal_id" binding:"required"`
	Action   string  `json:"action" binding:"required,oneof=add remove"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	PostedBy string  `json:"posted_by"`
}

// Adjust applies a manual add or remove. A remove that would take the balance
// below zero is rejected with the amounts involved.
func (s *ReserveService) Adjust(ctx context.Context, req AdjustReq) (*entity.ScrapReserve, error) {
	metal, err := s.metalRepo.FindByID(ctx, req.MetalID)
	if err != nil {
		return nil, fmt.Errorf("metal %d: %w", req.MetalID, err)
	}

	amount := rules.Round3(req.Amount)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var balance float64
		signed := amount

		switch req.Action {
		case entity.ScrapActionAdd:
			balance, err = s.reserveRepo.CreditTx(tx, metal.ID, metal.Name, amount)
		case entity.ScrapActionRemove:
			signed = -amount
			balance, err = s.reserveRepo.DebitTx(tx, metal.ID, amount)
		}
		if err != nil {
			return err
		}

		mv := &entity.ScrapMovement{
			MetalID:      metal.ID,
			Action:       req.Action,
			Amount:       signed,
			BalanceAfter: balance,
			Reference:    "manual",
			PostedBy:     req.PostedBy,
		}
		return s.reserveRepo.LogMovementTx(tx, mv)
	})
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientReserve) {
			var available float64
			if res, rerr := s.reserveRepo.FindByMetalID(ctx, metal.ID); rerr == nil {
				available = res.QtyOnHand
			}
			return nil, &ReserveError{MetalName: metal.Name, Requested: amount, Available: available}
		}
		return nil, err
	}

	return s.reserveRepo.FindByMetalID(ctx, metal.ID)
}

// Snapshot writes one snapshot row per reserve for the given date.
// The scheduler runs this nightly.
func (s *ReserveService) Snapshot(ctx context.Context, date string) (int, error) {
	reserves, err := s.reserveRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reserves: %w", err)
	}
	for _, res := range reserves {
		snap := &entity.ReserveSnapshot{
			Date:      date,
			MetalID:   res.MetalID,
			MetalName: res.MetalName,
			QtyOnHand: res.QtyOnHand,
		}
		if err := s.reserveRepo.SaveSnapshot(ctx, snap); err != nil {
			return 0, fmt.Errorf("snapshot %s: %w", res.MetalName, err)
		}
	}
	return len(reserves), nil
}
