// Package logging provides config-driven categorized file logging for
// digestsim. Logs are written to .digestsim/logs/ with one file per category
// and day. Logging is controlled by the logging section of
// .digestsim/config.yaml; when debug_mode is false nothing is written.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Category represents a log category.
type Category string

const (
	CategoryBoot    Category = "boot"    // startup, workspace init
	CategorySession Category = "session" // session load/save, override merges
	CategoryAssist  Category = "assist"  // AI recommendation calls
	CategoryExtract Category = "extract" // AI response parsing
	CategorySim     Category = "sim"     // simulation invocations
	CategoryStore   Category = "store"   // run-history store
	CategoryExport  Category = "export"  // CSV/HTML export
)

// loggingConfig mirrors config.LoggingConfig to avoid a circular import.
type loggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

type configFile struct {
	Logging loggingConfig `yaml:"logging"`
}

// Logger writes to one category's log file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	workspace string
	config    loggingConfig
	configMu  sync.RWMutex
	logLevel  int
)

const (
	levelDebug = 0
	levelInfo  = 1
	levelWarn  = 2
	levelError = 3
)

// Initialize sets up the logging directory and loads config. Call once at
// startup with the workspace path.
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}

	workspace = ws
	logsDir = filepath.Join(workspace, ".digestsim", "logs")

	if err := loadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not load config: %v\n", err)
		config.DebugMode = false
	}

	if !config.DebugMode {
		return nil // silent no-op outside debug mode
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== digestsim logging initialized ===")
	boot.Info("workspace: %s", workspace)
	boot.Info("log level: %s", config.Level)
	return nil
}

func loadConfig() error {
	configMu.Lock()
	defer configMu.Unlock()

	configPath := filepath.Join(workspace, ".digestsim", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			config.DebugMode = false
			return nil
		}
		return err
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	config = cf.Logging

	switch config.Level {
	case "debug":
		logLevel = levelDebug
	case "warn", "warning":
		logLevel = levelWarn
	case "error":
		logLevel = levelError
	default:
		logLevel = levelInfo
	}
	return nil
}

// IsCategoryEnabled reports whether a category writes anything.
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !config.DebugMode {
		return false
	}
	if config.Categories == nil {
		return true
	}
	enabled, ok := config.Categories[string(category)]
	if !ok {
		return true
	}
	return enabled
}

// Get returns (or creates) the logger for a category. A no-op logger is
// returned when the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not open %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > levelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > levelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > levelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files. Call at shutdown.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Convenience functions: quick logging without fetching a logger first.
// All are no-ops when the category is disabled.

func Boot(format string, args ...interface{})    { Get(CategoryBoot).Info(format, args...) }
func Session(format string, args ...interface{}) { Get(CategorySession).Info(format, args...) }
func Assist(format string, args ...interface{})  { Get(CategoryAssist).Info(format, args...) }
func Extract(format string, args ...interface{}) { Get(CategoryExtract).Info(format, args...) }
func Sim(format string, args ...interface{})     { Get(CategorySim).Info(format, args...) }
func Store(format string, args ...interface{})   { Get(CategoryStore).Info(format, args...) }
func Export(format string, args ...interface{})  { Get(CategoryExport).Info(format, args...) }

func BootDebug(format string, args ...interface{})    { Get(CategoryBoot).Debug(format, args...) }
func SessionDebug(format string, args ...interface{}) { Get(CategorySession).Debug(format, args...) }
func AssistDebug(format string, args ...interface{})  { Get(CategoryAssist).Debug(format, args...) }
func ExtractDebug(format string, args ...interface{}) { Get(CategoryExtract).Debug(format, args...) }
func SimDebug(format string, args ...interface{})     { Get(CategorySim).Debug(format, args...) }
func StoreDebug(format string, args ...interface{})   { Get(CategoryStore).Debug(format, args...) }
func ExportDebug(format string, args ...interface{})  { Get(CategoryExport).Debug(format, args...) }

func SessionWarn(format string, args ...interface{}) { Get(CategorySession).Warn(format, args...) }
func AssistWarn(format string, args ...interface{})  { Get(CategoryAssist).Warn(format, args...) }
func ExtractWarn(format string, args ...interface{}) { Get(CategoryExtract).Warn(format, args...) }
func SimWarn(format string, args ...interface{})     { Get(CategorySim).Warn(format, args...) }

func AssistError(format string, args ...interface{}) { Get(CategoryAssist).Error(format, args...) }
func SimError(format string, args ...interface{})    { Get(CategorySim).Error(format, args...) }
func StoreError(format string, args ...interface{})  { Get(CategoryStore).Error(format, args...) }
func ExportError(format string, args ...interface{}) { Get(CategoryExport).Error(format, args...) }

// Timer measures an operation's duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}
