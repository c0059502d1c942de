package service

import (
	"time"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services is the casting service set.
type Services struct {
	Metal    *MetalService
	Tree     *TreeService
	Workflow *WorkflowService
	Reserve  *ReserveService
	Report   *ReportService
}

// NewServices wires the casting services.
func NewServices(db *gorm.DB, repos *repository.Repositories, quenchDuration time.Duration, logger *zap.Logger) *Services {
	return &Services{
		Metal:    NewMetalService(repos.Metal, repos.Reserve),
		Tree:     NewTreeService(repos.Tree, repos.Metal),
		Workflow: NewWorkflowService(db, repos, quenchDuration, logger),
		Reserve:  NewReserveService(db, repos.Reserve, repos.Metal),
		Report:   NewReportService(repos.Tree, repos.Reconciliation),
	}
}
