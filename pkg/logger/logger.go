package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 由 InitLogger 替换；初始化前为空操作 logger
var Log = zap.NewNop()

const defaultLogFile = "logs/app.log"

type Options struct {
	Mode     string // gin 运行模式，debug 时默认 DEBUG 级别
	Level    string // 显式级别，覆盖 Mode
	FilePath string
	Service  string
}

func levelFor(opts Options) zapcore.Level {
	if opts.Level != "" {
		if lvl, err := zapcore.ParseLevel(opts.Level); err == nil {
			return lvl
		}
	}
	if opts.Mode == "debug" {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// InitLogger JSON 写入滚动日志文件，同时以可读格式输出到 stdout
func InitLogger(opts Options) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.MillisDurationEncoder

	consoleConfig := encoderConfig
	consoleConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if opts.Mode == "debug" {
		consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	filePath := opts.FilePath
	if filePath == "" {
		filePath = defaultLogFile
	}
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	level := zap.NewAtomicLevelAt(levelFor(opts))
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(os.Stdout), level),
	)

	options := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
	if opts.Service != "" {
		options = append(options, zap.Fields(zap.String("service", opts.Service)))
	}
	Log = zap.New(core, options...)
}
