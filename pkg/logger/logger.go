package logger

import (
	"io"
	"os"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzap "github.com/hertz-contrib/logger/zap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"StampCard/config"
)

// Logger 全局实例，Init 之后各包直接用
var Logger *zap.Logger

var fileSink io.Closer

var levelNames = map[string]zapcore.Level{
	"DEBUG": zapcore.DebugLevel,
	"INFO":  zapcore.InfoLevel,
	"WARN":  zapcore.WarnLevel,
	"ERROR": zapcore.ErrorLevel,
}

// Init 建全局 zap logger，并把 hertz 自己的 hlog 也接到同一个输出上
func Init() {
	lvl, ok := levelNames[strings.ToUpper(config.Cfg.LoggerLevel)]
	if !ok {
		lvl = zapcore.InfoLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(lvl)

	hz := hertzzap.NewLogger(
		hertzzap.WithCoreEnc(newEncoder()),
		hertzzap.WithCoreWs(newSink()),
		hertzzap.WithCoreLevel(atomicLevel),
		hertzzap.WithZapOptions(
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		),
	)
	hlog.SetLogger(hz)
	hlog.SetLevel(hlogLevel(lvl))

	Logger = hz.Logger()
	Logger.Info("Logger initialized",
		zap.String("level", lvl.CapitalString()),
		zap.String("format", config.Cfg.LoggerFormat),
		zap.String("environment", config.Cfg.Environment),
	)
}

// Sync 刷缓冲并关掉文件输出，进程退出前 defer 调用
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
	if fileSink != nil {
		_ = fileSink.Close()
	}
}

// 开发环境用彩色 console 输出，线上 JSON
func newEncoder() zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder

	if config.Cfg.IsDevelopment() || strings.EqualFold(config.Cfg.LoggerFormat, "text") {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(ec)
}

func newSink() zapcore.WriteSyncer {
	path := config.Cfg.LoggerOutputPath
	if strings.EqualFold(path, "stdout") {
		return zapcore.AddSync(os.Stdout)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		panic("failed to open log file: " + err.Error())
	}
	fileSink = f
	return zapcore.AddSync(f)
}

func hlogLevel(l zapcore.Level) hlog.Level {
	switch l {
	case zapcore.DebugLevel:
		return hlog.LevelDebug
	case zapcore.WarnLevel:
		return hlog.LevelWarn
	case zapcore.ErrorLevel:
		return hlog.LevelError
	default:
		return hlog.LevelInfo
	}
}
