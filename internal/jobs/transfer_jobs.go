package jobs

import (
	"context"
	"time"

	"kuzeybank-backend/internal/logger"
)

// ProcessDueTransfers executes every recurring transfer instruction that is
// due today. Safe to run from multiple instances: the per-instruction date
// guard turns concurrent executions into no-ops.
func (jr *JobRunner) ProcessDueTransfers() {
	jr.runWithRecovery("ProcessDueTransfers", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		summary, err := jr.services.Schedule.RunTick(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Scheduled transfer tick failed", "error", err)
			return
		}
		if summary.Due == 0 {
			logger.Debug("No scheduled transfers due")
			return
		}
		logger.Info("Scheduled transfer tick finished",
			"due", summary.Due,
			"executed", summary.Executed,
			"skipped", summary.Skipped,
			"deactivated", summary.Deactivated,
			"failed", summary.Failed,
		)
	})
}
