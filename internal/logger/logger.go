package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogDirName    = "logs"
	defaultLogFilename   = "store.log"
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 7
	defaultLogMaxAgeDays = 30
)

// Options configures log output.
type Options struct {
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// L is the global structured logger instance.
var L *zap.Logger

var (
	fallbackOnce sync.Once
	fallbackLog  *zap.Logger
)

// Init initializes the global logger. In debug mode logs go to the console;
// otherwise they are written as JSON to a rotated file.
func Init(mode string, options Options) *zap.Logger {
	L = New(mode, options)
	if L == nil {
		L = fallbackLogger()
	}
	zap.ReplaceGlobals(L)
	return L
}

// New creates a logger instance.
func New(mode string, options Options) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	if debug {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	encoderConfig := newEncoderConfig()

	if debug {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stdout),
			level,
		)
		return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	writeSyncer, err := newFileWriteSyncer(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed, fallback to stdout: %v\n", err)
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(os.Stdout),
			level,
		)
		return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writeSyncer,
		level,
	)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// Z returns a usable structured logger.
func Z() *zap.Logger {
	if L != nil {
		return L
	}
	return fallbackLogger()
}

// S returns a usable SugaredLogger.
func S() *zap.SugaredLogger {
	return Z().Sugar()
}

// SW returns a SugaredLogger carrying the given context fields.
func SW(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return S()
	}
	return S().With(kv...)
}

// Debugw logs at debug level.
func Debugw(message string, kv ...interface{}) {
	S().Debugw(message, kv...)
}

// Infow logs at info level.
func Infow(message string, kv ...interface{}) {
	S().Infow(message, kv...)
}

// Warnw logs at warn level.
func Warnw(message string, kv ...interface{}) {
	S().Warnw(message, kv...)
}

// Errorw logs at error level.
func Errorw(message string, kv ...interface{}) {
	S().Errorw(message, kv...)
}

func newEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return encoderConfig
}

func fallbackLogger() *zap.Logger {
	fallbackOnce.Do(func() {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(newEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zap.NewAtomicLevelAt(zap.InfoLevel),
		)
		fallbackLog = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	})
	return fallbackLog
}

func newFileWriteSyncer(options Options) (zapcore.WriteSyncer, error) {
	logFilePath, err := resolveLogFilePath(options)
	if err != nil {
		return nil, err
	}

	writer := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    normalizePositiveInt(options.MaxSizeMB, defaultLogMaxSizeMB),
		MaxBackups: normalizePositiveInt(options.MaxBackups, defaultLogMaxBackups),
		MaxAge:     normalizePositiveInt(options.MaxAgeDays, defaultLogMaxAgeDays),
		Compress:   options.Compress,
	}
	return zapcore.AddSync(writer), nil
}

func resolveLogFilePath(options Options) (string, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		workDir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve workdir failed: %w", err)
		}
		dir = filepath.Join(workDir, defaultLogDirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir failed: %w", err)
	}

	filename := strings.TrimSpace(options.Filename)
	if filename == "" {
		filename = defaultLogFilename
	}

	return filepath.Join(dir, filename), nil
}

func normalizePositiveInt(value int, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
