// cmd/care-match/worker.go
package main

import (
	"context"
	"fmt"
	"time"

	"carematch/internal/common/camunda"
	"carematch/internal/common/config"
	matchproviders "carematch/internal/workers/matching/match-providers"
	registerprovider "carematch/internal/workers/providers/register-provider"
	"carematch/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Zeebe job workers",
	Long:  "Connects to the Zeebe broker and serves the match-providers and register-provider job types until interrupted.",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := bootstrap(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	zeebe, err := a.startWorkers(ctx)
	if err != nil {
		return err
	}
	defer zeebe.Close()

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)
	return nil
}

// startWorkers connects to the broker and opens every enabled job worker.
func (a *app) startWorkers(ctx context.Context) (*camunda.Client, error) {
	var client *camunda.Client
	err := retryWithBackoff(func() error {
		var err error
		client, err = camunda.NewClient(a.cfg.Camunda)
		return err
	}, 10, 2*time.Second, a.log, "Zeebe client initialization")
	if err != nil {
		return nil, fmt.Errorf("zeebe client: %w", err)
	}
	a.log.Info("Zeebe client connected successfully", nil)

	matchCfg := matchproviders.LoadConfig()
	matchWorker := config.GetWorkerConfig(a.cfg, matchproviders.TaskType)
	if matchWorker.Timeout > 0 {
		matchCfg.Timeout = config.GetDuration(matchWorker.Timeout)
	}
	if a.cfg.Matching.TopN > 0 {
		matchCfg.TopN = a.cfg.Matching.TopN
	}
	matchHandler := matchproviders.NewHandler(matchCfg, a.matcher, a.log)

	registerCfg := registerprovider.LoadConfig()
	registerWorker := config.GetWorkerConfig(a.cfg, registerprovider.TaskType)
	if registerWorker.Timeout > 0 {
		registerCfg.Timeout = config.GetDuration(registerWorker.Timeout)
	}
	registerHandler := registerprovider.NewHandler(registerCfg, a.registry, a.log)

	handlers := []struct {
		taskType string
		wcfg     config.WorkerConfig
		handle   worker.JobHandler
	}{
		{matchproviders.TaskType, matchWorker, matchHandler.Handle},
		{registerprovider.TaskType, registerWorker, registerHandler.Handle},
	}

	reg := registry.Builtin()
	started := 0
	for _, h := range handlers {
		log := a.log
		if activity, ok := reg.Lookup(h.taskType); ok {
			log = log.WithFields(map[string]interface{}{"activity": activity.DisplayName})
		}
		if client.StartWorker(h.taskType, h.wcfg, a.instrument(ctx, h.taskType, h.handle), log) {
			started++
		}
	}
	a.log.Info("workers running", map[string]interface{}{"count": started})

	return client, nil
}

// instrument reports every handled job to the OpenTelemetry meter.
func (a *app) instrument(ctx context.Context, taskType string, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handler(client, job)
		a.obs.RecordJobProcessed(ctx, taskType, "handled")
		a.obs.RecordJobDuration(ctx, taskType, time.Since(start), "handled")
	}
}
