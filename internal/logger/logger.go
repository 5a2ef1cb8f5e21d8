package logger

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the run log.
type Options struct {
	Path  string
	Level string
	//previous runs kept next to Path as backups
	MaxBackups int
}

// New builds the run logger. The file at opts.Path is rotated away first so
// every run starts with an empty log. The returned func flushes and closes it.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, eris.Wrap(err, "logger: parse level")
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, eris.Wrap(err, "logger: create log directory")
		}
	}

	backups := opts.MaxBackups
	if backups <= 0 {
		backups = 3
	}
	file := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    50,
		MaxBackups: backups,
		LocalTime:  true,
	}
	if _, err := os.Stat(opts.Path); err == nil {
		if err := file.Rotate(); err != nil {
			return nil, nil, eris.Wrap(err, "logger: rotate previous log")
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.ConsoleSeparator = " - "

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(file), level)
	log := zap.New(core)

	closeFn := func() {
		_ = log.Sync()
		_ = file.Close()
	}
	return log, closeFn, nil
}
