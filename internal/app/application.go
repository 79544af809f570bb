package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"go429/internal/logging"
	"go429/internal/simvar"
	"go429/internal/trace"
)

// statsInterval is how often the monitor logs its counters
const statsInterval = 30 * time.Second

// Application samples the watched variables from the store and traces every
// decoded word to the rotating log and stdout.
type Application struct {
	config     Config
	logger     *logrus.Logger
	stdout     io.Writer
	store      *simvar.FileStore
	bridge     *simvar.Bridge
	logRotator *logging.LogRotator
	tracer     *trace.Writer
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	samples      atomic.Uint64
	parityErrors atomic.Uint64
	abnormal     atomic.Uint64
	readErrors   atomic.Uint64
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config: config,
		logger: logger,
		stdout: os.Stdout,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start runs the monitor until SIGINT or SIGTERM
func (app *Application) Start() error {
	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting ARINC 429 monitor")

	if err := app.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := app.initializeComponents(); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	app.run()

	select {
	case <-sigChan:
		app.logger.Info("Received shutdown signal")
	case <-app.ctx.Done():
	}
	app.shutdown()

	return nil
}

// initializeComponents opens the store and the trace log
func (app *Application) initializeComponents() error {
	var err error

	app.store, err = simvar.OpenFileStore(app.config.StorePath, app.logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	app.bridge = simvar.NewBridge(app.store, app.logger)

	app.logRotator, err = logging.NewLogRotator(app.config.LogDir, logging.DefaultPrefix, app.config.LogRotateUTC, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize log rotator: %w", err)
	}

	if app.config.KeepDays > 0 {
		if _, err := app.logRotator.CleanupOldLogs(app.config.KeepDays); err != nil {
			app.logger.WithError(err).Warn("Failed to clean up old trace files")
		}
	}

	app.tracer = trace.NewWriter(io.MultiWriter(app.logRotator, app.stdout), app.logger)

	return nil
}

// run starts the background goroutines
func (app *Application) run() {
	app.logger.WithFields(logrus.Fields{
		"store":    app.config.StorePath,
		"interval": app.config.Interval,
		"watches":  len(app.config.Watches),
	}).Info("Starting sampling")

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.logRotator.Start(app.ctx)
	}()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.sampleLoop()
	}()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.reportStatistics()
	}()
}

func (app *Application) sampleLoop() {
	ticker := time.NewTicker(app.config.Interval)
	defer ticker.Stop()

	app.sampleOnce(time.Now())
	for {
		select {
		case <-app.ctx.Done():
			app.logger.Info("Sampling stopped")
			return
		case now := <-ticker.C:
			app.sampleOnce(now)
		}
	}
}

// sampleOnce reloads the store and traces every watched variable
func (app *Application) sampleOnce(now time.Time) {
	if err := app.store.Reload(); err != nil {
		app.readErrors.Add(1)
		app.logger.WithError(err).Warn("Failed to reload store")
		return
	}

	if app.config.LogRotateUTC {
		now = now.UTC()
	}

	for _, watch := range app.config.Watches {
		word, err := app.bridge.Read(watch.Name)
		if err != nil {
			app.readErrors.Add(1)
			app.logger.WithError(err).WithField("name", watch.Name).Debug("Failed to read variable")
			continue
		}

		app.samples.Add(1)
		if !word.ParityValid() {
			app.parityErrors.Add(1)
		}
		if !watch.Family.Normal(word.GetSSM()) {
			app.abnormal.Add(1)
		}

		if err := app.tracer.WriteWord(watch.Name, watch.Family, &word, now); err != nil {
			app.logger.WithError(err).Debug("Failed to write trace line")
		}
	}
}

// GetStats returns samples taken, parity errors, non-normal status words and
// read failures
func (app *Application) GetStats() (uint64, uint64, uint64, uint64) {
	return app.samples.Load(),
		app.parityErrors.Load(),
		app.abnormal.Load(),
		app.readErrors.Load()
}

// reportStatistics logs the counters periodically
func (app *Application) reportStatistics() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			samples, parityErrors, abnormal, readErrors := app.GetStats()
			app.logger.WithFields(logrus.Fields{
				"samples":       samples,
				"parity_errors": parityErrors,
				"non_normal":    abnormal,
				"read_errors":   readErrors,
			}).Info("ARINC 429 monitor statistics")
		}
	}
}

// Stop asks a running monitor to shut down
func (app *Application) Stop() {
	app.cancel()
}

// shutdown gracefully shuts down the application
func (app *Application) shutdown() {
	app.logger.Info("Shutting down application")
	app.cancel()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines finished")
	case <-time.After(5 * time.Second):
		app.logger.Warn("Shutdown timeout, forcing exit")
	}

	if app.logRotator != nil {
		app.logRotator.Close()
	}

	app.logger.Info("Shutdown completed")
}
