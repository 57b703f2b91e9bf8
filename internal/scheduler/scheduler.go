package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vparedes/maricultor/internal/config"
	"github.com/vparedes/maricultor/internal/domain/models"
	"github.com/vparedes/maricultor/internal/repository/mongodb"
	"github.com/vparedes/maricultor/internal/repository/sheets"
	"github.com/vparedes/maricultor/internal/service/monitoring"
	"github.com/vparedes/maricultor/pkg/clients/webhook"
)

// Scheduler manages the background jobs: the nightly reconciliation sweep
// and the periodic report export.
type Scheduler struct {
	cron          *cron.Cron
	cfg           config.SchedulerConfig
	monitoringSvc *monitoring.Service
	lots          mongodb.LotRepository
	distributions mongodb.DistributionRepository
	exporter      sheets.Exporter
	notifier      webhook.Notifier
	logger        *zap.Logger
}

// NewScheduler creates a new scheduler instance. exporter and notifier may
// be nil when those integrations are not configured.
func NewScheduler(
	cfg config.SchedulerConfig,
	monitoringSvc *monitoring.Service,
	lots mongodb.LotRepository,
	distributions mongodb.DistributionRepository,
	exporter sheets.Exporter,
	notifier webhook.Notifier,
	logger *zap.Logger,
) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		cfg:           cfg,
		monitoringSvc: monitoringSvc,
		lots:          lots,
		distributions: distributions,
		exporter:      exporter,
		notifier:      notifier,
		logger:        logger,
	}
}

// Start registers the cron entries and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.ReconciliationCron, s.runReconciliationSweep); err != nil {
		s.logger.Error("failed to schedule reconciliation sweep", zap.Error(err))
	}

	if s.exporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.ReportExportCron, s.runReportExport); err != nil {
			s.logger.Error("failed to schedule report export", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// runReconciliationSweep reconciles every lot against its measurements and
// raises an alert for each lot with critical rows.
func (s *Scheduler) runReconciliationSweep() {
	s.logger.Info("running reconciliation sweep")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	lots, err := s.lots.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed loading lots for sweep", zap.Error(err))
		return
	}

	for _, lot := range lots {
		rows, err := s.monitoringSvc.ReconcileLot(ctx, lot.ID)
		if err != nil {
			s.logger.Error("failed reconciling lot", zap.String("lot_id", lot.ID), zap.Error(err))
			continue
		}

		critical := 0
		for _, row := range rows {
			if row.Status == models.ReconciliationCritical {
				critical++
			}
		}

		if critical > 0 {
			s.alertCriticalLot(ctx, lot, critical, len(rows))
		}
	}
}

func (s *Scheduler) alertCriticalLot(ctx context.Context, lot models.LotSnapshot, critical, total int) {
	s.logger.Warn("lot below theoretical population",
		zap.String("lot_id", lot.ID),
		zap.Int("critical_rows", critical),
		zap.Int("total_rows", total))

	if s.notifier == nil {
		return
	}

	event := webhook.Event{
		Type:        string(models.NotificationLotCritical),
		RecipientID: lot.SectorID,
		Title:       "Lote en estado crítico",
		Message:     "La población real del lote está más de 20% por debajo de la proyección.",
		Data: map[string]any{
			"lotId":        lot.ID,
			"lineName":     lot.LineName,
			"criticalRows": critical,
		},
		OccurredAt: time.Now().UTC(),
	}
	if err := s.notifier.SendEvent(ctx, event); err != nil {
		s.logger.Warn("failed pushing critical lot alert", zap.String("lot_id", lot.ID), zap.Error(err))
	}
}

// runReportExport appends the last week of distributions and every lot's
// latest reconciliation rows to the report spreadsheet.
func (s *Scheduler) runReportExport() {
	s.logger.Info("running report export")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	since := time.Now().AddDate(0, 0, -7)
	distributions, err := s.distributions.FindSince(ctx, since)
	if err != nil {
		s.logger.Error("failed loading distributions for export", zap.Error(err))
		return
	}

	for _, d := range distributions {
		if err := s.exporter.AppendDistribution(ctx, d); err != nil {
			s.logger.Error("failed exporting distribution", zap.String("distribution_id", d.ID), zap.Error(err))
		}
	}

	lots, err := s.lots.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed loading lots for export", zap.Error(err))
		return
	}

	for _, lot := range lots {
		rows, err := s.monitoringSvc.ReconcileLot(ctx, lot.ID)
		if err != nil {
			s.logger.Error("failed reconciling lot for export", zap.String("lot_id", lot.ID), zap.Error(err))
			continue
		}
		for _, row := range rows {
			if err := s.exporter.AppendReconciliationRow(ctx, row); err != nil {
				s.logger.Error("failed exporting reconciliation row", zap.String("lot_id", lot.ID), zap.Error(err))
			}
		}
	}

	s.logger.Info("report export finished", zap.Int("distributions", len(distributions)), zap.Int("lots", len(lots)))
}
