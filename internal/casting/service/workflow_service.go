package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/entity"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/repository"
	"github.com/guptahg47869-hub/casting-tracker/internal/casting/rules"
	"github.com/guptahg47869-hub/casting-tracker/internal/shared/notify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WorkflowService drives flasks through the stage machine and keeps the metal
// accounting honest at every gate.
type WorkflowService struct {
	db             *gorm.DB
	flaskRepo      *repository.FlaskRepository
	treeRepo       *repository.TreeRepository
	metalRepo      *repository.MetalRepository
	reserveRepo    *repository.ReserveRepository
	reconRepo      *repository.ReconciliationRepository
	quenchDuration time.Duration
	notifier       *notify.Client
	logger         *zap.Logger
}

func NewWorkflowService(
	db *gorm.DB,
	repos *repository.Repositories,
	quenchDuration time.Duration,
	logger *zap.Logger,
) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{
		db:             db,
		flaskRepo:      repos.Flask,
		treeRepo:       repos.Tree,
		metalRepo:      repos.Metal,
		reserveRepo:    repos.Reserve,
		reconRepo:      repos.Reconciliation,
		quenchDuration: quenchDuration,
		logger:         logger,
	}
}

// SetNotifier injects the optional stage-transition webhook client.
func (s *WorkflowService) SetNotifier(n *notify.Client) {
	s.notifier = n
}

func (s *WorkflowService) notifyStage(flask *entity.Flask, from, to string) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ev := notify.StageEvent{
		FlaskID:   flask.ID,
		FlaskNo:   flask.FlaskNo,
		MetalName: flask.MetalName,
		FromStage: from,
		ToStage:   to,
		PostedBy:  flask.PostedBy,
		At:        time.Now(),
	}
	if err := s.notifier.SendStageEvent(ctx, ev); err != nil {
		s.logger.Warn("stage event webhook failed",
			zap.Uint("flask_id", flask.ID),
			zap.String("to_stage", to),
			zap.Error(err))
	}
}

// PostFlaskReq posts a tree into a flask. With TreeID set the tree's metal and
// weights carry over (re-weighed values win when provided); without a TreeID
// this is the direct waxing path and MetalID plus weights are required.
// TargetStage defaults to metal_prep; supply skips the prep bench.
type PostFlaskReq struct {
	TreeID       *uint   `json:"tree_id"`
	FlaskNo      string  `json:"flask_no" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	MetalID      uint    `json:"metal_id"`
	GasketWeight float64 `json:"gasket_weight" binding:"gte=0"`
	TotalWeight  float64 `json:"total_weight" binding:"gte=0"`
	TargetStage  string  `json:"target_stage"`
	PostedBy     string  `json:"posted_by"`
}

// PostTreeToStage creates a flask in metal_prep or supply.
func (s *WorkflowService) PostTreeToStage(ctx context.Context, req PostFlaskReq) (*entity.Flask, error) {
	target := req.TargetStage
	if target == "" {
		target = entity.StageMetalPrep
	}
	if !entity.CanTransition(entity.StageTransit, target) {
		return nil, &StageError{From: entity.StageTransit, To: target}
	}

	taken, err := s.flaskRepo.ExistsByDateNo(ctx, req.Date, req.FlaskNo)
	if err != nil {
		return nil, fmt.Errorf("check flask no: %w", err)
	}
	if taken {
		return nil, &DuplicateError{Kind: "flask_no", Date: req.Date, Value: req.FlaskNo}
	}

	var (
		tree      *entity.Tree
		metalID   uint
		metalName string
		treeNo    int
		gasket    = req.GasketWeight
		total     = req.TotalWeight
	)

	if req.TreeID != nil {
		tree, err = s.treeRepo.FindByID(ctx, *req.TreeID)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", *req.TreeID, err)
		}
		if tree.Status != entity.TreeStatusTransit {
			return nil, fmt.Errorf("tree %d is not in transit", tree.ID)
		}
		metalID = tree.MetalID
		metalName = tree.MetalName
		treeNo = tree.TreeNo
		// Fall back to the waxing measurements when not re-weighed.
		if total <= 0 {
			gasket = tree.GasketWeight
			total = tree.TotalWeight
		}
	} else {
		if req.MetalID == 0 {
			return nil, fmt.Errorf("metal_id is required without a tree")
		}
		metal, err := s.metalRepo.FindByID(ctx, req.MetalID)
		if err != nil {
			return nil, fmt.Errorf("metal %d: %w", req.MetalID, err)
		}
		metalID = metal.ID
		metalName = metal.Name
	}

	_, metalWeight, err := rules.EstimateMetalWeight(metalName, gasket, total)
	if err != nil {
		return nil, err
	}

	flask := &entity.Flask{
		Date:        req.Date,
		FlaskNo:     req.FlaskNo,
		MetalID:     metalID,
		MetalName:   metalName,
		TreeNo:      treeNo,
		Stage:       target,
		MetalWeight: metalWeight,
		PostedBy:    req.PostedBy,
	}
	if tree != nil {
		flask.TreeID = &tree.ID
	}
	if err := s.flaskRepo.Create(ctx, flask); err != nil {
		return nil, fmt.Errorf("create flask: %w", err)
	}

	if tree != nil {
		now := time.Now()
		tree.Status = entity.TreeStatusPosted
		tree.PostedAt = &now
		if err := s.treeRepo.Update(ctx, tree); err != nil {
			return nil, fmt.Errorf("update tree: %w", err)
		}
	}

	s.notifyStage(flask, entity.StageTransit, target)
	return flask, nil
}

// SearchFlasks finds flasks across all stages.
func (s *WorkflowService) SearchFlasks(ctx context.Context, params repository.SearchParams) ([]entity.Flask, error) {
	return s.flaskRepo.Search(ctx, params)
}

// StageQueue lists the flasks waiting in one stage.
func (s *WorkflowService) StageQueue(ctx context.Context, stage, flaskNo string) ([]entity.Flask, error) {
	if _, ok := entity.ValidStageTransitions[stage]; !ok && stage != entity.StageDone {
		return nil, fmt.Errorf("unknown stage %q", stage)
	}
	return s.flaskRepo.ListByStage(ctx, stage, flaskNo)
}

// PrepPreset is the server-side plan suggestion for the metal prep bench.
type PrepPreset struct {
	FlaskID        uint       `json:"flask_id"`
	MetalName      string     `json:"metal_name"`
	RequiredWeight float64    `json:"required_metal_weight"`
	ReserveOnHand  float64    `json:"reserve_on_hand"`
	Plan           rules.Plan `json:"plan"`
	Prepared       bool       `json:"prepared"`
}

// GetPrepPreset suggests a composition for a flask: as much reserve scrap as
// the requirement allows, remainder split by the rule table. Operator
// overrides pin fine or alloy while the rest stays auto. A flask already
// prepped returns its saved plan and ignores overrides.
func (s *WorkflowService) GetPrepPreset(ctx context.Context, flaskID uint, ov rules.Overrides) (*PrepPreset, error) {
	flask, err := s.flaskRepo.FindByID(ctx, flaskID)
	if err != nil {
		return nil, err
	}

	var onHand float64
	if res, err := s.reserveRepo.FindByMetalID(ctx, flask.MetalID); err == nil {
		onHand = res.QtyOnHand
	}

	preset := &PrepPreset{
		FlaskID:        flask.ID,
		MetalName:      flask.MetalName,
		RequiredWeight: flask.MetalWeight,
		ReserveOnHand:  onHand,
		Prepared:       flask.Prepared,
	}

	if flask.Prepared {
		preset.Plan = rules.Plan{
			Scrap: flask.ScrapPlanned,
			Fine:  flask.FinePlanned,
			Alloy: flask.AlloyPlanned,
			Total: rules.Round3(flask.ScrapPlanned + flask.FinePlanned + flask.AlloyPlanned),
		}
		return preset, nil
	}

	scrap := math.Min(onHand, flask.MetalWeight)
	plan, err := rules.SplitComposition(flask.MetalName, flask.MetalWeight, scrap, ov)
	if err != nil {
		return nil, err
	}
	preset.Plan = plan
	return preset, nil
}

// SubmitPrepReq records the prep bench plan. For pure metals the operator
// enters PurePlanned and the fine field carries it from here on.
type SubmitPrepReq struct {
	FlaskID      uint    `json:"flask_id" binding:"required"`
	Prepared     bool    `json:"prepared"`
	ScrapPlanned float64 `json:"scrap_planned" binding:"gte=0"`
	FinePlanned  float64 `json:"fine_24k_planned" binding:"gte=0"`
	AlloyPlanned float64 `json:"alloy_planned" binding:"gte=0"`
	PurePlanned  float64 `json:"pure_planned" binding:"gte=0"`
	PostedBy     string  `json:"posted_by"`
}

// SubmitMetalPrep saves the plan and moves the flask to supply.
func (s *WorkflowService) SubmitMetalPrep(ctx context.Context, req SubmitPrepReq) (*entity.Flask, error) {
	flask, err := s.flaskRepo.FindByID(ctx, req.FlaskID)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(flask.Stage, entity.StageSupply) {
		return nil, &StageError{From: flask.Stage, To: entity.StageSupply}
	}

	fine := req.FinePlanned
	alloy := req.AlloyPlanned
	if rules.RuleFor(flask.MetalName).PureOnly {
		fine = req.PurePlanned
		alloy = 0
	}

	from := flask.Stage
	flask.Prepared = req.Prepared
	flask.ScrapPlanned = rules.Round3(req.ScrapPlanned)
	flask.FinePlanned = rules.Round3(fine)
	flask.AlloyPlanned = rules.Round3(alloy)
	flask.Stage = entity.StageSupply
	flask.PostedBy = req.PostedBy

	if err := s.flaskRepo.Update(ctx, flask); err != nil {
		return nil, fmt.Errorf("update flask: %w", err)
	}

	s.notifyStage(flask, from, entity.StageSupply)
	return flask, nil
}

// SubmitSupplyReq records the metal actually weighed into the crucible.
// ScrapSupplied is debited from the metal's scrap reserve.
type SubmitSupplyReq struct {
	FlaskID       uint    `json:"flask_id" binding:"required"`
	ScrapSupplied float64 `json:"scrap_supplied" binding:"gte=0"`
	FineSupplied  float64 `json:"fine_24k_supplied" binding:"gte=0"`
	AlloySupplied float64 `json:"alloy_supplied" binding:"gte=0"`
	PostedBy      string  `json:"posted_by"`
}

// SubmitSupply debits the reserve and moves the flask to casting. The debit,
// journal entry and stage change commit together or not at all.
func (s *WorkflowService) SubmitSupply(ctx context.Context, req SubmitSupplyReq) (*entity.Flask, error) {
	flask, err := s.flaskRepo.FindByID(ctx, req.FlaskID)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(flask.Stage, entity.StageCasting) {
		return nil, &StageError{From: flask.Stage, To: entity.StageCasting}
	}
	if rules.RuleFor(flask.MetalName).PureOnly && req.AlloySupplied != 0 {
		return nil, fmt.Errorf("%s takes no alloy", flask.MetalName)
	}

	supplied := rules.Round3(req.ScrapSupplied + req.FineSupplied + req.AlloySupplied)
	if supplied <= 0 {
		return nil, fmt.Errorf("supplied weight must be positive")
	}

	from := flask.Stage
	castTemp, ovenTemp := rules.Temps(flask.MetalName)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.ScrapSupplied > 0 {
			balance, err := s.reserveRepo.DebitTx(tx, flask.MetalID, req.ScrapSupplied)
			if err != nil {
				return err
			}
			mv := &entity.ScrapMovement{
				MetalID:      flask.MetalID,
				Action:       entity.ScrapActionRemove,
				Amount:       -req.ScrapSupplied,
				BalanceAfter: balance,
				Reference:    fmt.Sprintf("flask:%d", flask.ID),
				PostedBy:     req.PostedBy,
			}
			if err := s.reserveRepo.LogMovementTx(tx, mv); err != nil {
				return fmt.Errorf("log scrap debit: %w", err)
			}
		}

		flask.ScrapSupplied = rules.Round3(req.ScrapSupplied)
		flask.FineSupplied = rules.Round3(req.FineSupplied)
		flask.AlloySupplied = rules.Round3(req.AlloySupplied)
		flask.SuppliedWeight = supplied
		flask.CastingTemp = castTemp
		flask.OvenTemp = ovenTemp
		flask.Stage = entity.StageCasting
		flask.PostedBy = req.PostedBy
		return s.flaskRepo.UpdateTx(tx, flask)
	})
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientReserve) {
			var available float64
			if res, rerr := s.reserveRepo.FindByMetalID(ctx, flask.MetalID); rerr == nil {
				available = res.QtyOnHand
			}
			return nil, &ReserveError{MetalName: flask.MetalName, Requested: req.ScrapSupplied, Available: available}
		}
		return nil, err
	}

	s.notifyStage(flask, from, entity.StageCasting)
	return flask, nil
}

// CompleteCasting stamps the pour time and moves the flask to quenching.
func (s *WorkflowService) CompleteCasting(ctx context.Context, flaskID uint, postedBy string) (*entity.Flask, error) {
	flask, err := s.flaskRepo.FindByID(ctx, flaskID)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(flask.Stage, entity.StageQuenching) {
		return nil, &StageError{From: flask.Stage, To: entity.StageQuenching}
	}

	from := flask.Stage
	now := time.Now()
	flask.CastingCompletedAt = &now
	flask.Stage = entity.StageQuenching
	flask.PostedBy = postedBy
	if err := s.flaskRepo.Update(ctx, flask); err != nil {
		return nil, fmt.Errorf("update flask: %w", err)
	}

	s.notifyStage(flask, from, entity.StageQuenching)
	return flask, nil
}

// QuenchItem is a quenching queue row with the countdown attached.
type QuenchItem struct {
	entity.Flask
	ReadyAt     *time.Time `json:"ready_at"`
	MinutesLeft int        `json:"minutes_left"`
}

// QuenchingQueue lists quenching flasks with ready_at and minutes_left.
// The countdown is advisory; advancing early is allowed.
func (s *WorkflowService) QuenchingQueue(ctx context.Context) ([]QuenchItem, error) {
	flasks, err := s.flaskRepo.ListByStage(ctx, entity.StageQuenching, "")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]QuenchItem, 0, len(flasks))
	for _, f := range flasks {
		item := QuenchItem{Flask: f}
		if f.CastingCompletedAt != nil {
			ready := f.CastingCompletedAt.Add(s.quenchDuration)
			item.ReadyAt = &ready
			if left := ready.Sub(now); left > 0 {
				item.MinutesLeft = int(math.Ceil(left.Minutes()))
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// AdvanceQuenching moves a flask from quenching to cutting.
func (s *WorkflowService) AdvanceQuenching(ctx context.Context, flaskID uint, postedBy string) (*entity.Flask, error) {
	flask, err := s.flaskRepo.FindByID(ctx, flaskID)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(flask.Stage, entity.StageCutting) {
		return nil, &StageError{From: flask.Stage, To: entity.StageCutting}
	}

	from := flask.Stage
	flask.Stage = entity.StageCutting
	flask.PostedBy = postedBy
	if err := s.flaskRepo.Update(ctx, flask); err != nil {
		return nil, fmt.Errorf("update flask: %w", err)
	}

	s.notifyStage(flask, from, entity.StageCutting)
	return flask, nil
}

// SubmitCuttingReq carries the three scale readings taken at the cutting bench.
type SubmitCuttingReq struct {
	FlaskID    uint    `json:"flask_id" binding:"required"`
	BeforeCut  float64 `json:"before_cut_weight" binding:"gte=0"`
	AfterCast  float64 `json:"after_cast_weight" binding:"gte=0"`
	AfterScrap float64 `json:"after_scrap_weight" binding:"gte=0"`
	PostedBy   string  `json:"posted_by"`
}

// SubmitCutting validates the 5% balance rules and moves the flask to
// reconciliation with its measurements recorded.
func (s *WorkflowService) SubmitCutting(ctx context.Context, req SubmitCuttingReq) (*entity.Flask, error) {
	flask, err := s.flaskRepo.FindByID(ctx, req.FlaskID)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(flask.Stage, entity.StageReconciliation) {
		return nil, &StageError{From: flask.Stage, To: entity.StageReconciliation}
	}

	if err := rules.CheckCutting(flask.SuppliedWeight, req.BeforeCut, req.AfterCast, req.AfterScrap); err != nil {
		return nil, err
	}

	from := flask.Stage
	flask.BeforeCutWeight = rules.Round3(req.BeforeCut)
	flask.AfterCastWeight = rules.Round3(req.AfterCast)
	flask.AfterScrapWeight = rules.Round3(req.AfterScrap)
	flask.Stage = entity.StageReconciliation
	flask.PostedBy = req.PostedBy
	if err := s.flaskRepo.Update(ctx, flask); err != nil {
		return nil, fmt.Errorf("update flask: %w", err)
	}

	s.notifyStage(flask, from, entity.StageReconciliation)
	return flask, nil
}

// ReconDetail is the reconciliation preview for one flask.
type ReconDetail struct {
	entity.Flask
	LossInCasting float64 `json:"loss_in_casting"`
	LossInCutting float64 `json:"loss_in_cutting"`
	LossTotal     float64 `json:"loss_total"`
}

// GetReconciliationDetail returns a flask with its loss preview.
func (s *WorkflowService) GetReconciliationDetail(ctx context.Context, flaskID uint) (*ReconDetail, error) {
	flask, err := s.flaskRepo.FindByID(ctx, flaskID)
	if err != nil {
		return nil, err
	}
	inCasting, inCutting, total := rules.Losses(
		flask.SuppliedWeight, flask.BeforeCutWeight, flask.AfterCastWeight, flask.AfterScrapWeight)
	return &ReconDetail{
		Flask:         *flask,
		LossInCasting: inCasting,
		LossInCutting: inCutting,
		LossTotal:     total,
	}, nil
}

// ConfirmReconReq finalizes a flask. The weights may be corrected here one
// last time before the record is written.
type ConfirmReconReq struct {
	FlaskID    uint    `json:"flask_id" binding:"required"`
	Supplied   float64 `json:"supplied_weight" binding:"gte=0"`
	BeforeCut  float64 `json:"before_cut_weight" binding:"gte=0"`
	AfterCast  float64 `json:"after_cast_weight" binding:"gte=0"`
	AfterScrap float64 `json:"after_scrap_weight" binding:"gte=0"`
	PostedBy   string  `json:"posted_by"`
}

// ConfirmReconciliation writes the confirmed mass balance and moves the flask
// to done. The reserve is not touched here; cut scrap goes back through a
// manual adjust once it is physically returned to the bin.
func (s *WorkflowService) ConfirmReconciliation(ctx context.Context, req ConfirmReconReq) (*entity.Reconciliation, error) {
	flask, err := s.flaskRepo.FindByID(ctx, req.FlaskID)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(flask.Stage, entity.StageDone) {
		return nil, &StageError{From: flask.Stage, To: entity.StageDone}
	}

	if err := rules.CheckCutting(req.Supplied, req.BeforeCut, req.AfterCast, req.AfterScrap); err != nil {
		return nil, err
	}
	inCasting, inCutting, total := rules.Losses(req.Supplied, req.BeforeCut, req.AfterCast, req.AfterScrap)

	rec := &entity.Reconciliation{
		FlaskID:          flask.ID,
		FlaskNo:          flask.FlaskNo,
		Date:             flask.Date,
		MetalID:          flask.MetalID,
		MetalName:        flask.MetalName,
		SuppliedWeight:   rules.Round3(req.Supplied),
		BeforeCutWeight:  rules.Round3(req.BeforeCut),
		AfterCastWeight:  rules.Round3(req.AfterCast),
		AfterScrapWeight: rules.Round3(req.AfterScrap),
		LossInCasting:    inCasting,
		LossInCutting:    inCutting,
		LossTotal:        total,
		ConfirmedBy:      req.PostedBy,
		ConfirmedAt:      time.Now(),
	}

	from := flask.Stage
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reconRepo.CreateTx(tx, rec); err != nil {
			return fmt.Errorf("create reconciliation: %w", err)
		}

		flask.SuppliedWeight = rec.SuppliedWeight
		flask.BeforeCutWeight = rec.BeforeCutWeight
		flask.AfterCastWeight = rec.AfterCastWeight
		flask.AfterScrapWeight = rec.AfterScrapWeight
		flask.Stage = entity.StageDone
		flask.PostedBy = req.PostedBy
		return s.flaskRepo.UpdateTx(tx, flask)
	})
	if err != nil {
		return nil, err
	}

	s.notifyStage(flask, from, entity.StageDone)
	return rec, nil
}
