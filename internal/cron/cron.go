package cron

import (
	"context"

	"ipguard/config"
	"ipguard/internal/service"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

type Cron struct {
	logger   *zap.Logger
	server   *cron.Cron
	config   *config.Configuration
	detector *service.DetectorService
}

// NewCron .
func NewCron(
	logger *zap.Logger,
	config *config.Configuration,
	detector *service.DetectorService,
) *Cron {
	server := cron.New(
		cron.WithSeconds(),
	)

	return &Cron{
		logger:   logger,
		server:   server,
		config:   config,
		detector: detector,
	}
}

func (c *Cron) Run() error {
	if c.config.Detector.Enabled {
		schedule := c.config.Detector.ScheduleOrDefault()
		if _, err := c.server.AddFunc(schedule, func() {
			if _, err := c.detector.Run(context.Background()); err != nil {
				c.logger.Error("scheduled detector run failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
		c.logger.Info("detector scheduled", zap.String("schedule", schedule))
	}

	c.server.Start()
	return nil
}

func (c *Cron) Stop(ctx context.Context) error {
	c.server.Stop()
	return nil
}
