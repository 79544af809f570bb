package logging

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPrefix names trace files a429_YYYY-MM-DD.log
const DefaultPrefix = "a429"

// LogRotator is a daily rotating trace file. Yesterday's file is gzip
// compressed when the date changes.
type LogRotator struct {
	logDir      string
	prefix      string
	useUTC      bool
	logger      *logrus.Logger
	currentFile *os.File
	currentDate string
	mutex       sync.RWMutex
	compressWG  sync.WaitGroup
}

// NewLogRotator creates logDir if needed and opens today's file
func NewLogRotator(logDir, prefix string, useUTC bool, logger *logrus.Logger) (*LogRotator, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}

	rotator := &LogRotator{
		logDir: logDir,
		prefix: prefix,
		useUTC: useUTC,
		logger: logger,
	}

	rotator.mutex.Lock()
	err := rotator.openLocked(rotator.today())
	rotator.mutex.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize log file: %w", err)
	}

	return rotator, nil
}

// Start checks for a date change every minute until ctx is done
func (r *LogRotator) Start(ctx context.Context) {
	r.logger.Info("Starting log rotator")

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Log rotator stopping")
			return
		case <-ticker.C:
			r.CheckRotation()
		}
	}
}

// CheckRotation rotates the file if the date has changed
func (r *LogRotator) CheckRotation() {
	r.rotateTo(r.today())
}

func (r *LogRotator) rotateTo(date string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentDate == date {
		return
	}

	r.logger.WithFields(logrus.Fields{
		"old_date": r.currentDate,
		"new_date": date,
	}).Info("Rotating log file")

	if err := r.openLocked(date); err != nil {
		r.logger.WithError(err).Error("Failed to rotate log file")
	}
}

// openLocked closes the current file, schedules its compression and opens
// the file for date. Caller holds the write lock.
func (r *LogRotator) openLocked(date string) error {
	if r.currentFile != nil {
		if err := r.currentFile.Close(); err != nil {
			r.logger.WithError(err).Error("Failed to close old log file")
		}
		r.currentFile = nil

		oldDate := r.currentDate
		r.compressWG.Add(1)
		go func() {
			defer r.compressWG.Done()
			r.compressLogFile(oldDate)
		}()
	}

	path := r.pathFor(date)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file %s: %w", path, err)
	}

	r.currentFile = file
	r.currentDate = date

	r.logger.WithField("file", path).Info("Created new log file")
	return nil
}

// compressLogFile gzips the file for date and removes the original
func (r *LogRotator) compressLogFile(date string) {
	logFile := r.pathFor(date)
	gzipFile := logFile + ".gz"

	r.logger.WithFields(logrus.Fields{
		"source": logFile,
		"target": gzipFile,
	}).Info("Compressing log file")

	src, err := os.Open(logFile)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.WithField("file", logFile).Debug("Log file doesn't exist, skipping compression")
		} else {
			r.logger.WithError(err).WithField("file", logFile).Error("Failed to open source file for compression")
		}
		return
	}
	defer src.Close()

	dst, err := os.Create(gzipFile)
	if err != nil {
		r.logger.WithError(err).WithField("file", gzipFile).Error("Failed to create compressed file")
		return
	}

	gzWriter := gzip.NewWriter(dst)
	gzWriter.Name = filepath.Base(logFile)
	gzWriter.ModTime = time.Now()

	if _, err := io.Copy(gzWriter, src); err != nil {
		gzWriter.Close()
		dst.Close()
		r.logger.WithError(err).Error("Failed to compress log file")
		return
	}
	if err := gzWriter.Close(); err != nil {
		dst.Close()
		r.logger.WithError(err).Error("Failed to close gzip writer")
		return
	}
	if err := dst.Close(); err != nil {
		r.logger.WithError(err).Error("Failed to close compressed file")
		return
	}

	if err := os.Remove(logFile); err != nil {
		r.logger.WithError(err).WithField("file", logFile).Error("Failed to remove original log file")
		return
	}

	r.logger.WithField("file", gzipFile).Info("Log file compressed successfully")
}

// Write appends p to the current file
func (r *LogRotator) Write(p []byte) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentFile == nil {
		return 0, fmt.Errorf("no current log file")
	}
	return r.currentFile.Write(p)
}

// Close closes the current file and waits for pending compressions
func (r *LogRotator) Close() error {
	r.logger.Info("Closing log rotator")

	r.mutex.Lock()
	var err error
	if r.currentFile != nil {
		if err = r.currentFile.Close(); err != nil {
			r.logger.WithError(err).Error("Failed to close current log file")
		}
		r.currentFile = nil
	}
	r.mutex.Unlock()

	r.compressWG.Wait()
	return err
}

// GetCurrentLogFile returns the path of the file being written
func (r *LogRotator) GetCurrentLogFile() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentDate == "" {
		return ""
	}
	return r.pathFor(r.currentDate)
}

// GetLogFiles lists trace files, compressed ones included
func (r *LogRotator) GetLogFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.logDir, r.prefix+"_*.log*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}
	return files, nil
}

// CleanupOldLogs removes trace files last modified more than maxDays ago.
// It returns the number of files removed.
func (r *LogRotator) CleanupOldLogs(maxDays int) (int, error) {
	if maxDays <= 0 {
		return 0, fmt.Errorf("maxDays must be positive")
	}

	files, err := r.GetLogFiles()
	if err != nil {
		return 0, err
	}

	cutoff := r.now().AddDate(0, 0, -maxDays)
	current := r.GetCurrentLogFile()

	removed := 0
	for _, file := range files {
		if file == current {
			continue
		}

		info, err := os.Stat(file)
		if err != nil {
			r.logger.WithError(err).WithField("file", file).Warn("Failed to stat log file")
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				r.logger.WithError(err).WithField("file", file).Error("Failed to remove old log file")
				continue
			}
			r.logger.WithField("file", file).Info("Removed old log file")
			removed++
		}
	}

	r.logger.WithField("count", removed).Info("Cleaned up old log files")
	return removed, nil
}

func (r *LogRotator) pathFor(date string) string {
	return filepath.Join(r.logDir, fmt.Sprintf("%s_%s.log", r.prefix, date))
}

func (r *LogRotator) now() time.Time {
	if r.useUTC {
		return time.Now().UTC()
	}
	return time.Now()
}

func (r *LogRotator) today() string {
	return r.now().Format("2006-01-02")
}
