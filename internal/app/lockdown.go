package app

import (
	"context"
	"go.uber.org/zap"
	"lockdown-service/internal/config"
	"lockdown-service/internal/directory"
	"lockdown-service/internal/messaging/notifier"
	"lockdown-service/internal/repository"
	"lockdown-service/internal/service"
	"sync"
)

func Run(cfg config.Config, logger *zap.SugaredLogger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	// Repo and kafka writer outlive the HTTP server so in-flight
	// operations can still persist and notify during shutdown.
	delayedCtx, delayedCancel := context.WithCancel(context.Background())
	delayedWg := &sync.WaitGroup{}

	repo, err := repository.NewMongoRepository(delayedCtx, logger, delayedWg, cfg.MongoDB)
	if err != nil {
		logger.Fatalw("failed to create repository", "error", err)
	}

	notif := notifier.NewKafkaNotifier(delayedCtx, delayedWg, logger, cfg.Kafka)

	dir := directory.NewHTTPDirectory(cfg.Directory)

	service.RunServices(ctx, logger, wg, cfg, repo, notif, dir)

	wg.Wait()
	logger.Info("shutting down")

	logger.Info("shutting down delayed services")
	delayedCancel()
	delayedWg.Wait()
}
