package jobs

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// JobManager starts and stops the scheduled jobs of the service.
type JobManager struct {
	dwellMonitor *DwellMonitorJob
}

func NewJobManager(
	dwellingParcels DwellingParcelsReader,
	dwellConfig DwellMonitorConfig,
	now func() time.Time,
	logger logrus.FieldLogger,
) *JobManager {
	return &JobManager{
		dwellMonitor: NewDwellMonitorJob(dwellingParcels, dwellConfig, now, logger),
	}
}

func (jm *JobManager) StartAll() error {
	if err := jm.dwellMonitor.Start(); err != nil {
		return fmt.Errorf("failed to start dwell monitor job: %w", err)
	}
	return nil
}

func (jm *JobManager) StopAll() {
	jm.dwellMonitor.Stop()
}
