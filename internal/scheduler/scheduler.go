// Package scheduler runs the periodic batch jobs on cron expressions
package scheduler

import (
	"context"
	"fmt"
	"time"

	"agromonitor.app/internal/ports"
	"github.com/robfig/cron/v3"
)

// Job names used in logs and metrics
const (
	JobDailySchedules    = "daily_schedules"
	JobMoistureCheck     = "moisture_check"
	JobBatteryUpdate     = "battery_update"
	JobWateringReminders = "watering_reminders"
)

// BatchFunc is one run of a batch job
type BatchFunc func(ctx context.Context) ports.BatchResult

// Job binds a batch function to its cron expression
type Job struct {
	Name string
	Spec string
	Run  BatchFunc
}

// Batches groups the four periodic jobs
type Batches struct {
	DailySchedules    BatchFunc
	MoistureCheck     BatchFunc
	BatteryUpdate     BatchFunc
	WateringReminders BatchFunc
}

// ByName returns the jobs keyed by their job name
func (b Batches) ByName() map[string]BatchFunc {
	return map[string]BatchFunc{
		JobDailySchedules:    b.DailySchedules,
		JobMoistureCheck:     b.MoistureCheck,
		JobBatteryUpdate:     b.BatteryUpdate,
		JobWateringReminders: b.WateringReminders,
	}
}

// Scheduler manages periodic tasks for the application
type Scheduler struct {
	cron   *cron.Cron
	logger ports.Logger
	ctx    context.Context
	cancel context.CancelFunc
	jobs   []string
}

// NewScheduler creates a scheduler whose jobs run in location
func NewScheduler(logger ports.Logger, location *time.Location) (*Scheduler, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if location == nil {
		location = time.Local
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(cronLogger{logger: logger}), cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Register adds a job. Jobs with an empty spec are disabled.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job name and function are required")
	}
	if job.Spec == "" {
		s.logger.Info("Scheduled job disabled", ports.F("job", job.Name))
		return nil
	}

	if _, err := s.cron.AddFunc(job.Spec, func() { s.runJob(job) }); err != nil {
		return fmt.Errorf("invalid cron expression %q for job %s: %w", job.Spec, job.Name, err)
	}

	s.jobs = append(s.jobs, job.Name)
	s.logger.Info("Scheduled job registered", ports.F("job", job.Name), ports.F("spec", job.Spec))
	return nil
}

// RegisterBatches registers every batch job on its configured expression
func (s *Scheduler) RegisterBatches(cfg ports.SchedulerConfig, batches Batches) error {
	jobs := []Job{
		{Name: JobDailySchedules, Spec: cfg.DailySchedules, Run: batches.DailySchedules},
		{Name: JobMoistureCheck, Spec: cfg.MoistureCheck, Run: batches.MoistureCheck},
		{Name: JobBatteryUpdate, Spec: cfg.BatteryUpdate, Run: batches.BatteryUpdate},
		{Name: JobWateringReminders, Spec: cfg.WateringReminders, Run: batches.WateringReminders},
	}

	for _, job := range jobs {
		if err := s.Register(job); err != nil {
			return err
		}
	}
	return nil
}

// Jobs returns the names of the registered jobs
func (s *Scheduler) Jobs() []string {
	return append([]string(nil), s.jobs...)
}

// Start begins running the registered jobs in the background
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started", ports.F("jobs", len(s.jobs)))
	s.cron.Start()
}

// Stop cancels in-flight jobs and waits for them to return or for ctx to end
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with jobs still running")
	}
}

func (s *Scheduler) runJob(job Job) {
	s.logger.Debug("Scheduled job started", ports.F("job", job.Name))

	result := job.Run(s.ctx)
	LogResult(s.logger, job.Name, result)
}

// LogResult writes the one-line summary of a batch run
func LogResult(logger ports.Logger, job string, result ports.BatchResult) {
	fields := []ports.Field{
		ports.F("job", job),
		ports.F("total", result.Total),
		ports.F("succeeded", result.Succeeded),
		ports.F("failed", result.Failed),
		ports.F("skipped", result.Skipped),
		ports.F("notified", result.Notified),
		ports.F("duration_ms", result.Duration.Milliseconds()),
	}

	if result.Failed > 0 {
		logger.Warn("Batch job completed with failures", fields...)
		return
	}
	logger.Info("Batch job completed", fields...)
}

// cronLogger adapts the Logger port to cron's logger interface
type cronLogger struct {
	logger ports.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Debug("cron: "+msg, toFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := append(toFields(keysAndValues), ports.F("error", err))
	c.logger.Error("cron: "+msg, fields...)
}

func toFields(keysAndValues []interface{}) []ports.Field {
	fields := make([]ports.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields = append(fields, ports.F(key, keysAndValues[i+1]))
	}
	return fields
}
