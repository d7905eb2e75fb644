package utils

import (
	"strconv"

	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/zap"
)

// GetOptimalWorkerCount determines the collection fan-out based on config
// and system resources. A numeric config value is a manual override;
// anything else falls back to "auto".
func GetOptimalWorkerCount(configValue string) int {
	if manualWorkers, err := strconv.Atoi(configValue); err == nil && manualWorkers > 0 {
		zap.L().Info("using manually configured worker count", zap.Int("workers", manualWorkers))
		return manualWorkers
	}

	if configValue != "auto" && configValue != "" {
		zap.L().Warn("invalid workers value, defaulting to auto", zap.String("value", configValue))
	}

	// Logical cores: collection is I/O bound, hyper-threading helps.
	cpuCores, err := cpu.Counts(true)
	if err != nil {
		zap.L().Warn("could not detect CPU cores, falling back to 2 workers", zap.Error(err))
		return 2
	}

	// Half the cores keeps headroom for browser instances.
	optimalCount := cpuCores / 2
	if optimalCount < 1 {
		optimalCount = 1
	}
	if optimalCount > 16 {
		optimalCount = 16
	}

	zap.L().Info("auto-selected worker count",
		zap.Int("logical_cores", cpuCores),
		zap.Int("workers", optimalCount),
	)
	return optimalCount
}
