package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type settings struct {
	dir     string
	console io.Writer
	verbose bool
	now     func() time.Time
}

// Option customises InitLogger
type Option func(*settings)

// WithDir writes log files under dir instead of ./logs
func WithDir(dir string) Option {
	return func(s *settings) { s.dir = dir }
}

// WithConsole sends human-readable output to w instead of stdout
func WithConsole(w io.Writer) Option {
	return func(s *settings) { s.console = w }
}

// WithVerbose lowers the console level to debug
func WithVerbose(verbose bool) Option {
	return func(s *settings) { s.verbose = verbose }
}

// InitLogger builds a zap logger that tees a coloured console core with a
// JSON file core. The file is named <env>_<timestamp>.log and always records
// debug entries.
func InitLogger(env string, opts ...Option) (*zap.Logger, string, error) {
	s := settings{dir: "logs", console: os.Stdout, now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	if env == "" {
		env = "default"
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := s.now().Format("2006-01-02_15-04-05")
	logFileName := filepath.Join(s.dir, fmt.Sprintf("%s_%s.log", env, timestamp))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file: %w", err)
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleLevel := zapcore.InfoLevel
	if s.verbose {
		consoleLevel = zapcore.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(s.console), consoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("env", env))

	return logger, logFileName, nil
}
