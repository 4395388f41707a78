package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tourismcms/tourism-cms/internal/badges"
	"github.com/tourismcms/tourism-cms/internal/content"
	contentPostgres "github.com/tourismcms/tourism-cms/internal/content/postgres"
	"github.com/tourismcms/tourism-cms/internal/core/events"
	"github.com/tourismcms/tourism-cms/internal/navigation"
	navPostgres "github.com/tourismcms/tourism-cms/internal/navigation/postgres"
	"github.com/tourismcms/tourism-cms/pkg/logger"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for various services",
	Long:  `Start and manage background workers such as the badge refresher.`,
}

// Badge refresher worker command
var badgeWorkerCmd = &cobra.Command{
	Use:   "badges",
	Short: "Start the badge refresher worker pool",
	Long:  `Start the worker pool that keeps sidebar badge counts in sync with pending content.`,
	Run: func(cmd *cobra.Command, args []string) {
		startBadgeWorker()
	},
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus `,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	maxWorkers      int
	jobQueueSize    int
	refreshInterval time.Duration
)

func startBadgeWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	sqlxDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init db: %v\n", err)
		os.Exit(1)
	}
	db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open gorm: %v\n", err)
		os.Exit(1)
	}

	bus := events.NewEventBus(lg)

	navService, err := navigation.NewService(navPostgres.NewNavigationRepository(db), lg, bus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load navigation tree: %v\n", err)
		os.Exit(1)
	}
	contentService := content.NewService(contentPostgres.NewContentRepository(db), navService, lg, bus)

	badgeConfig := badges.Config{
		RefreshInterval: config.Badges.RefreshInterval,
		MaxWorkers:      getIntFlag(maxWorkers, config.Badges.MaxWorkers),
		JobQueueSize:    getIntFlag(jobQueueSize, config.Badges.JobQueueSize),
	}
	if refreshInterval > 0 {
		badgeConfig.RefreshInterval = refreshInterval
	}

	lg.Info("starting badge worker",
		"max_workers", badgeConfig.MaxWorkers,
		"job_queue_size", badgeConfig.JobQueueSize,
		"refresh_interval", badgeConfig.RefreshInterval)

	refresher := badges.NewRefresher(badgeConfig, contentService, navService, bus, lg)
	refresher.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("badge worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down badge worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		refresher.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		lg.Info("badge worker pool shutdown complete")
	case <-ctx.Done():
		lg.Warn("shutdown timeout reached, forcing exit")
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)

	eventBus.Subscribe("test.event", func(ctx context.Context, event events.Event) error {
		lg.Info("received test event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	lg.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down event bus", "signal", sig)
	lg.Info("event bus shutdown complete")
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	badgeWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	badgeWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	badgeWorkerCmd.Flags().DurationVar(&refreshInterval, "refresh-interval", 0, "Badge refresh interval (overrides config)")

	workerCmd.AddCommand(badgeWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
