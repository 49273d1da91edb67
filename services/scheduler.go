// services/scheduler.go
package services

import (
	"context"
	"os"
	"strconv"

	appContext "github.com/alphabatem/common/context"
	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// SchedulerService pre-generates the word of the day for every
// department shortly after midnight so the first reader of the day
// never waits on the remote generator.
type SchedulerService struct {
	appContext.DefaultService
	dailySvc *DailyContentService

	scheduler gocron.Scheduler
	hour      int
}

const SCHEDULER_SVC = "scheduler_svc"

func (svc SchedulerService) Id() string {
	return SCHEDULER_SVC
}

func (svc *SchedulerService) Configure(ctx *appContext.Context) error {
	svc.hour = 0
	if h := os.Getenv("PREGENERATE_HOUR"); h != "" {
		if parsed, err := strconv.Atoi(h); err == nil && parsed >= 0 && parsed < 24 {
			svc.hour = parsed
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *SchedulerService) Start() error {
	svc.dailySvc = svc.Service(DAILY_SVC).(*DailyContentService)

	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	svc.scheduler = sched

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(svc.hour), 5, 0))),
		gocron.NewTask(func() {
			log.Info("daily content pre-generation started")
			svc.dailySvc.PregenerateAll(context.Background())
			log.Info("daily content pre-generation finished")
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	log.WithField("hour", svc.hour).Info("daily pre-generation scheduled")
	return nil
}

func (svc *SchedulerService) Shutdown() {
	if svc.scheduler != nil {
		_ = svc.scheduler.Shutdown()
	}
}
