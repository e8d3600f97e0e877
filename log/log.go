package log

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/hermeznetwork/tracerr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment selects the log encoding.
type Environment string

const (
	// EnvironmentProduction logs JSON.
	EnvironmentProduction = Environment("production")
	// EnvironmentDevelopment logs human readable, colored lines.
	EnvironmentDevelopment = Environment("development")
)

// Config for log
type Config struct {
	// Environment defining the log format ("production" or "development").
	Environment Environment `mapstructure:"Environment"`
	// Level of log: debug, info, warn, error, dpanic, panic or fatal.
	Level string `mapstructure:"Level"`
	// Outputs are zap sink URLs or file paths, e.g. "stderr" or "/var/log/wrpcd.log".
	Outputs []string `mapstructure:"Outputs"`
}

var root atomic.Pointer[zap.SugaredLogger]

// Init replaces the root logger with one built from cfg.
func Init(cfg Config) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}

	// skip the package level function wrapping the sugared logger
	root.Store(logger.WithOptions(zap.AddCallerSkip(1)))

	return nil
}

// New builds a standalone logger. Use it for components that own their logger,
// the package level functions log through the root one.
func New(cfg Config) (*zap.SugaredLogger, error) {
	var level zap.AtomicLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("error on setting log level: %w", err)
	}

	var zapCfg zap.Config
	switch cfg.Environment {
	case EnvironmentProduction:
		zapCfg = zap.NewProductionConfig()
	default:
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = level
	if len(cfg.Outputs) > 0 {
		zapCfg.OutputPaths = cfg.Outputs
	}
	zapCfg.InitialFields = map[string]interface{}{
		"pid": os.Getpid(),
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

func get() *zap.SugaredLogger {
	if l := root.Load(); l != nil {
		return l
	}

	if err := Init(Config{
		Environment: EnvironmentDevelopment,
		Level:       "debug",
		Outputs:     []string{"stderr"},
	}); err != nil {
		panic(err)
	}

	return root.Load()
}

// Debugf calls log.Debugf on the root Logger.
func Debugf(template string, args ...interface{}) {
	get().Debugf(template, args...)
}

// Info calls log.Info on the root Logger.
func Info(args ...interface{}) {
	get().Info(args...)
}

// Infof calls log.Infof on the root Logger.
func Infof(template string, args ...interface{}) {
	get().Infof(template, args...)
}

// Warn calls log.Warn on the root Logger.
func Warn(args ...interface{}) {
	get().Warn(args...)
}

// Warnf calls log.Warnf on the root Logger.
func Warnf(template string, args ...interface{}) {
	get().Warnf(template, args...)
}

// Error calls log.Error on the root Logger, with the stack trace of the
// first error argument appended.
func Error(args ...interface{}) {
	get().Error(withStackTrace(args)...)
}

// Errorf calls log.Errorf on the root Logger. The stack trace of the first
// error argument is logged as a field.
func Errorf(template string, args ...interface{}) {
	get().With(stackTraceFields(args)...).Errorf(template, args...)
}

// Fatal calls log.Fatal on the root Logger.
func Fatal(args ...interface{}) {
	get().Fatal(withStackTrace(args)...)
}

// Fatalf calls log.Fatalf on the root Logger.
func Fatalf(template string, args ...interface{}) {
	get().With(stackTraceFields(args)...).Fatalf(template, args...)
}

// WithFields returns a logger derived from the root one with the given
// key/value pairs. The root logger is not affected.
func WithFields(keyValuePairs ...interface{}) *zap.SugaredLogger {
	// the caller logs through the returned logger directly, not through a package function
	return get().With(keyValuePairs...).WithOptions(zap.AddCallerSkip(-1))
}

func firstError(args []interface{}) error {
	for _, arg := range args {
		if err, ok := arg.(error); ok {
			return err
		}
	}

	return nil
}

func withStackTrace(args []interface{}) []interface{} {
	err := firstError(args)
	if err == nil {
		return args
	}

	return append(args, sprintStackTrace(tracerr.StackTrace(tracerr.Wrap(err))))
}

func stackTraceFields(args []interface{}) []interface{} {
	err := firstError(args)
	if err == nil {
		return nil
	}

	return []interface{}{"stacktrace", sprintStackTrace(tracerr.StackTrace(tracerr.Wrap(err)))}
}

// sprintStackTrace formats frames one per line. The deepest frame belongs to
// the go runtime and is dropped.
func sprintStackTrace(st []tracerr.Frame) string {
	if len(st) > 0 {
		st = st[:len(st)-1]
	}

	var builder strings.Builder
	for _, f := range st {
		builder.WriteString(fmt.Sprintf("\n%s:%d %s()", f.Path, f.Line, f.Func))
	}
	builder.WriteString("\n")

	return builder.String()
}
