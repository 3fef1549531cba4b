package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/config"
	"github.com/poultrydesk/eggledger/internal/domain/models"
	"github.com/poultrydesk/eggledger/internal/repository/sheets"
	"github.com/poultrydesk/eggledger/internal/service/reporting"
	"github.com/poultrydesk/eggledger/pkg/clients/alerting"
)

// SummaryStore persists the end-of-day snapshot.
type SummaryStore interface {
	InsertDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Scheduler runs the end-of-day summary job: it snapshots the dashboard into
// the summary collection, optionally mirrors it to a spreadsheet, and raises
// a low-stock alert when any category falls under the threshold.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	summaries    SummaryStore
	exporter     sheets.Exporter
	notifier     alerting.Notifier
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. exporter and notifier may be
// nil when their configuration is absent.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, summaries SummaryStore, exporter sheets.Exporter, notifier alerting.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cron.Option{}
	if loc, err := time.LoadLocation(cfg.Reporting.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("invalid timezone, scheduler using local time", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:         cron.New(opts...),
		reportingSvc: reportingSvc,
		summaries:    summaries,
		exporter:     exporter,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the daily summary job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.runDailySummary); err != nil {
		s.logger.Error("failed to schedule daily summary", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailySummary() {
	s.logger.Info("generating daily summary")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dashboard, err := s.reportingSvc.Dashboard(ctx)
	if err != nil {
		s.logger.Error("failed to build dashboard for summary", zap.Error(err))
		return
	}

	now := time.Now().UTC()
	summary := models.DailySummary{
		Date:         models.Day(now),
		SalesCount:   dashboard.TodaySales,
		Income:       dashboard.TodayIncome,
		WeeklyIncome: dashboard.WeeklyIncome,
		CreatedAt:    now,
	}
	if dashboard.CurrentInventory != nil {
		summary.EggsOnHand = dashboard.CurrentInventory.TotalEggs
		summary.TraysOnHand = dashboard.CurrentInventory.TotalTrays
	}

	if err := s.summaries.InsertDailySummary(ctx, summary); err != nil {
		s.logger.Error("failed to persist daily summary", zap.Error(err))
	} else {
		s.logger.Info("daily summary stored", zap.Int("eggs_on_hand", summary.EggsOnHand))
	}

	if s.exporter != nil {
		if err := s.exporter.AppendDailySummary(ctx, summary); err != nil {
			s.logger.Error("failed to export daily summary", zap.Error(err))
		}
	}

	s.maybeAlertLowStock(ctx, dashboard.CurrentInventory, now)
}

func (s *Scheduler) maybeAlertLowStock(ctx context.Context, current *models.InventorySnapshot, now time.Time) {
	if s.notifier == nil || current == nil || s.cfg.Alerting.LowStockThreshold <= 0 {
		return
	}

	levels := make(map[models.Size]int)
	for _, size := range models.Sizes {
		if count := current.Of(size); count < s.cfg.Alerting.LowStockThreshold {
			levels[size] = count
		}
	}
	if len(levels) == 0 {
		return
	}

	alert := alerting.LowStockAlert{
		Date:      models.Day(now),
		Threshold: s.cfg.Alerting.LowStockThreshold,
		Levels:    levels,
	}
	if err := s.notifier.SendLowStock(ctx, alert); err != nil {
		s.logger.Error("failed to send low stock alert", zap.Error(err))
	} else {
		s.logger.Info("low stock alert sent", zap.Int("categories", len(levels)))
	}
}
