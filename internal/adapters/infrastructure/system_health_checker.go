package infrastructure

import (
	"context"

	"agromonitor.app/internal/ports"
)

// SystemHealthChecker aggregates all health checks
type SystemHealthChecker struct {
	checkers       map[string]ports.HealthChecker
	configProvider ports.ConfigProvider
}

// SystemHealthCheckerConfig holds the configuration for creating a system health checker
type SystemHealthCheckerConfig struct {
	Checkers       map[string]ports.HealthChecker
	ConfigProvider ports.ConfigProvider
}

// NewSystemHealthChecker creates a new system health checker
func NewSystemHealthChecker(config SystemHealthCheckerConfig) *SystemHealthChecker {
	return &SystemHealthChecker{
		checkers:       config.Checkers,
		configProvider: config.ConfigProvider,
	}
}

// CheckAll performs health checks on all components
func (s *SystemHealthChecker) CheckAll(ctx context.Context) map[string]ports.HealthStatus {
	results := make(map[string]ports.HealthStatus, len(s.checkers)+1)

	for name, checker := range s.checkers {
		if checker != nil {
			results[name] = checker.Check(ctx)
		}
	}

	if s.configProvider != nil {
		scheduler := s.configProvider.GetSchedulerConfig()
		monitoring := s.configProvider.GetMonitoringConfig()
		results["config"] = ports.HealthStatus{
			Component: "config",
			Status:    statusHealthy,
			Details: map[string]interface{}{
				"schedulerEnabled":  scheduler.Enabled,
				"moistureThreshold": monitoring.MoistureThreshold,
				"batteryThreshold":  monitoring.BatteryThreshold,
				"liveSoilData":      s.configProvider.GetWateringConfig().UseLiveTelemetryForSoilData,
			},
		}
	}

	return results
}
