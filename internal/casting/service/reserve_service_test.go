package service

import (
	"context"
	"testing"
	"time"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/repository"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/testutil"
	"go.uber.org/zap"
)

func setupReserveTest(t *testing.T) (*Services, *testutil.TestEnv) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	services := NewServices(db, repos, 15*time.Minute, zap.NewNop())
	if err := services.Metal.Seed(context.Background()); err != nil {
		t.Fatalf("Failed to seed metals: %v", err)
	}
	return services, &testutil.TestEnv{DB: db, T: t}
}

func TestSnapshotWritesOneRowPerReserve(t *testing.T) {
	services, env := setupReserveTest(t)
	ctx := context.Background()

	metal := &entity.Metal{}
	if err := env.DB.Where("name = ?", "14W").First(metal).Error; err != nil {
		t.Fatalf("Failed to find metal: %v", err)
	}
	if _, err := services.Reserve.Adjust(ctx, AdjustReq{
		MetalID: metal.ID, Action: entity.ScrapActionAdd, Amount: 75, PostedBy: "tester",
	}); err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}

	count, err := services.Reserve.Snapshot(ctx, "2026-03-01")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if count != 9 {
		t.Errorf("Expected 9 snapshot rows, got %d", count)
	}

	var snaps []entity.ReserveSnapshot
	if err := env.DB.Where("date = ?", "2026-03-01").Find(&snaps).Error; err != nil {
		t.Fatalf("Failed to list snapshots: %v", err)
	}
	if len(snaps) != 9 {
		t.Fatalf("Expected 9 snapshots stored, got %d", len(snaps))
	}
	var found bool
	for _, s := range snaps {
		if s.MetalID == metal.ID {
			found = true
			if s.QtyOnHand != 75 {
				t.Errorf("Expected snapshot qty 75, got %v", s.QtyOnHand)
			}
		}
	}
	if !found {
		t.Error("Expected a snapshot row for 14W")
	}
}

func TestAdjustRejectsOverdraw(t *testing.T) {
	services, env := setupReserveTest(t)
	ctx := context.Background()

	metal := &entity.Metal{}
	if err := env.DB.Where("name = ?", "10K").First(metal).Error; err != nil {
		t.Fatalf("Failed to find metal: %v", err)
	}

	_, err := services.Reserve.Adjust(ctx, AdjustReq{
		MetalID: metal.ID, Action: entity.ScrapActionRemove, Amount: 1, PostedBy: "tester",
	})
	if err == nil {
		t.Fatal("Expected an error removing from an empty reserve")
	}
	if _, ok := err.(*ReserveError); !ok {
		t.Errorf("Expected ReserveError, got %T: %v", err, err)
	}

	// The failed transaction left no journal entry behind
	var count int64
	env.DB.Model(&entity.ScrapMovement{}).Where("metal_id = ?", metal.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected no movements after a rejected remove, got %d", count)
	}
}
