package lib

import (
	"io"
	"os"
	"path/filepath"

	"github.com/Lumerin-protocol/milestone-ledger/internal/interfaces"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeLayout = "2006-01-02T15:04:05"

type LoggerConfig struct {
	Level  string
	Color  bool
	IsProd bool
	IsJSON bool

	// FolderPath enables the rotating file output, FileName defaults to "ledger.log"
	FolderPath string
	FileName   string
}

func NewLogger(cfg LoggerConfig) (*Logger, error) {
	log, err := newLogger(cfg, nil)
	if err != nil {
		return nil, err
	}

	return &Logger{SugaredLogger: log.Sugar()}, nil
}

// NewLoggerMemory additionally writes every record to wr, used to assert on log output
func NewLoggerMemory(cfg LoggerConfig, wr io.Writer) (*Logger, error) {
	log, err := newLogger(cfg, wr)
	if err != nil {
		return nil, err
	}

	return &Logger{SugaredLogger: log.Sugar()}, nil
}

// NewTestLogger logs only to stdout
func NewTestLogger() *Logger {
	log, _ := newLogger(LoggerConfig{Level: "debug"}, nil)
	return &Logger{SugaredLogger: log.Sugar()}
}

func newLogger(cfg LoggerConfig, extraWriter io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var cores []zapcore.Core

	if cfg.FolderPath != "" {
		cores = append(cores, newFileCore(zapcore.DebugLevel, cfg))
	}
	if extraWriter != nil {
		memoryCore := zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.AddSync(extraWriter), level)
		cores = append(cores, memoryCore)
	}

	cores = append(cores, newConsoleCore(level, cfg.Color, cfg.IsProd, cfg.IsJSON))

	var core zapcore.Core
	if len(cores) > 1 {
		core = zapcore.NewTee(cores...)
	} else {
		core = cores[0]
	}

	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}
	if !cfg.IsProd {
		opts = append(opts, zap.Development())
	}

	return zap.New(core, opts...), nil
}

func newConsoleCore(level zapcore.Level, color bool, isProd bool, isJSON bool) zapcore.Core {
	encoderCfg := newEncoderCfg(isProd, color, isJSON)

	var encoder zapcore.Encoder
	if isJSON {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
}

func newEncoderCfg(isProd bool, color bool, isJSON bool) zapcore.EncoderConfig {
	var encoderCfg zapcore.EncoderConfig
	if isProd {
		encoderCfg = zap.NewProductionEncoderConfig()
	} else {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	}

	if color && !isJSON {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return encoderCfg
}

// newFileCore writes through lumberjack so the log folder does not grow unbounded
func newFileCore(level zapcore.Level, cfg LoggerConfig) zapcore.Core {
	encoderCfg := newEncoderCfg(cfg.IsProd, false, cfg.IsJSON)
	if !cfg.IsJSON {
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	}

	var encoder zapcore.Encoder
	if cfg.IsJSON {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	fileName := cfg.FileName
	if fileName == "" {
		fileName = "ledger.log"
	}

	writer := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.FolderPath, fileName),
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	return zapcore.NewCore(encoder, zapcore.AddSync(writer), level)
}

type Logger struct {
	*zap.SugaredLogger
}

func (l *Logger) Named(name string) interfaces.ILogger {
	return &Logger{l.SugaredLogger.Named(name)}
}

func (l *Logger) With(args ...interface{}) interfaces.ILogger {
	return &Logger{l.SugaredLogger.With(args...)}
}
