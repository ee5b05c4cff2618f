package jobs

import (
	"context"
	"time"

	"warehouse/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	DefaultDwellSchedule  = "0 */5 * * * *"
	DefaultDwellThreshold = 4 * time.Hour
	DefaultDwellLimit     = 100
)

type DwellingParcelsReader interface {
	Handle(ctx context.Context, query queries.GetDwellingParcelsQuery) ([]queries.DwellingParcelResponse, error)
}

type DwellMonitorConfig struct {
	Schedule  string
	Threshold time.Duration
	Limit     int
}

// DwellMonitorJob warns about parcels that have stayed in one non-terminal
// stage longer than the threshold. It only reads.
type DwellMonitorJob struct {
	reader  DwellingParcelsReader
	config  DwellMonitorConfig
	now     func() time.Time
	cron    *cron.Cron
	logger  logrus.FieldLogger
	timeout time.Duration
}

func NewDwellMonitorJob(reader DwellingParcelsReader, config DwellMonitorConfig, now func() time.Time, logger logrus.FieldLogger) *DwellMonitorJob {
	if config.Schedule == "" {
		config.Schedule = DefaultDwellSchedule
	}
	if config.Threshold <= 0 {
		config.Threshold = DefaultDwellThreshold
	}
	if config.Limit < 1 {
		config.Limit = DefaultDwellLimit
	}
	if now == nil {
		now = time.Now
	}
	return &DwellMonitorJob{
		reader:  reader,
		config:  config,
		now:     now,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.WithField("component", "dwell_monitor_job"),
		timeout: 30 * time.Second,
	}
}

// Start schedules the check. An invalid schedule is returned before
// anything runs.
func (j *DwellMonitorJob) Start() error {
	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		if _, err := j.Run(ctx); err != nil {
			j.logger.WithError(err).Error("dwell monitor run failed")
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithFields(logrus.Fields{
		"schedule":  j.config.Schedule,
		"threshold": j.config.Threshold.String(),
	}).Info("dwell monitor started")
	return nil
}

// Stop waits for a running check to finish.
func (j *DwellMonitorJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("dwell monitor stopped")
}

// Run performs one check and returns how many parcels were reported.
func (j *DwellMonitorJob) Run(ctx context.Context) (int, error) {
	now := j.now().UTC()
	query, err := queries.NewGetDwellingParcelsQuery(now.Add(-j.config.Threshold), j.config.Limit)
	if err != nil {
		return 0, err
	}

	parcels, err := j.reader.Handle(ctx, query)
	if err != nil {
		return 0, err
	}

	for _, p := range parcels {
		j.logger.WithFields(logrus.Fields{
			"tracking_code": p.TrackingCode,
			"stage":         p.Stage,
			"priority":      p.Priority,
			"operator":      p.Operator,
			"entered_at":    p.EnteredAt,
			"dwell":         now.Sub(p.EnteredAt).Truncate(time.Second).String(),
		}).Warn("parcel dwelling in stage")
	}
	if len(parcels) == j.config.Limit {
		j.logger.WithField("limit", j.config.Limit).Warn("dwell report truncated")
	}
	return len(parcels), nil
}
