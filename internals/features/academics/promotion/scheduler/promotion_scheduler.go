// file: internals/features/academics/promotion/scheduler/promotion_scheduler.go
package scheduler

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	service "schoolpay_backend/internals/features/academics/promotion/service"
)

// StartPromotionScheduler fires the daily end-of-cycle check. Each due config
// is triggered independently: one school failing never blocks the rest of the
// tick, and SkipIfStillRunning keeps overlapping ticks out.
func StartPromotionScheduler(lifecycle *service.LifecycleService) *cron.Cron {
	schedule := os.Getenv("CRON_PROMOTION_SCHEDULE")
	if schedule == "" {
		schedule = "@daily"
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		RunDueConfigs(ctx, lifecycle)
	})
	if err != nil {
		log.Fatalf("[SCHEDULER] add promotion cron failed: %v", err)
	}

	log.Printf("[SCHEDULER] promotion scheduler started schedule=%q", schedule)
	c.Start()
	return c
}

// RunDueConfigs is one tick: find configs due today and trigger each.
func RunDueConfigs(ctx context.Context, lifecycle *service.LifecycleService) {
	due, err := lifecycle.GetDueToday(ctx)
	if err != nil {
		log.Printf("[SCHEDULER] due-config query failed: %v", err)
		return
	}
	if len(due) == 0 {
		log.Println("[SCHEDULER] no promotion configs due today")
		return
	}

	log.Printf("[SCHEDULER] %d promotion config(s) due", len(due))
	for i := range due {
		cfg := due[i]
		summary, err := lifecycle.Trigger(ctx, cfg.PromotionRunConfigID, nil)
		if err != nil {
			log.Printf("[SCHEDULER] trigger failed school=%s cycle=%d/%d err=%v",
				cfg.PromotionRunConfigSchoolID, cfg.PromotionRunConfigTargetYear, cfg.PromotionRunConfigTargetTerm, err)
			continue
		}
		log.Printf("[SCHEDULER] run done school=%s: %s", cfg.PromotionRunConfigSchoolID, summary.Message)
	}
}
