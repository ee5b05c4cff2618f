// Package jobs provides scheduled background tasks for the warehouse.
//
// Jobs are built on github.com/robfig/cron/v3 with a seconds field in the
// schedule and are started and stopped together through JobManager.
//
// # Available Jobs
//
// 1. DwellMonitorJob - every five minutes by default, warns about parcels that
// have stayed in one non-terminal stage longer than the alert threshold
//
// # Usage
//
//	// Build the manager from the dwelling parcels query and its config
//	jobManager := jobs.NewJobManager(dwellingParcelsHandler, jobs.DwellMonitorConfig{
//		Schedule:  "0 */5 * * * *",
//		Threshold: 4 * time.Hour,
//	}, time.Now, logger)
//
//	// Start all jobs; an invalid schedule is reported here
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down, waiting for a running check
//	defer jobManager.StopAll()
//
// A single check can also be run by hand, which is what the tests do:
//
//	job := jobs.NewDwellMonitorJob(dwellingParcelsHandler, jobs.DwellMonitorConfig{}, clock, logger)
//	reported, err := job.Run(ctx)
//
// # Scheduling
//
// Zero values in DwellMonitorConfig fall back to DefaultDwellSchedule,
// DefaultDwellThreshold and DefaultDwellLimit. Each run gets its own
// 30 second deadline.
//
// # Error Handling
//
// - The job never writes; Shipped and Cancelled parcels are never reported
// - A failed run is logged at error level and the next tick runs normally
// - A report that reaches the limit is logged as truncated
package jobs
