// Package logging builds the zap logger the service host and child
// supervisor write through, backed by a rotating file on disk. Rotation is
// driven by lumberjack, which rotates by size only. bytes=N sets the size
// threshold. daily and hourly set lumberjack's MaxAge (how many days old
// rotated files are kept) and leave the size threshold at lumberjack's own
// default; no rotation is triggered by the passage of time.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// defaultRotateBytes matches the documented default of bytes=2097152 (2 MiB).
const defaultRotateBytes = 2 * 1024 * 1024

// defaultRetain matches the documented default of keeping 2 rotated files.
const defaultRetain = 2

// RotationSpec is the parsed form of --log-rotate.
type RotationSpec struct {
	Kind      RotationKind
	MaxBytes  int64 // MB granularity, see toMegabytes
	MaxAge    time.Duration
}

type RotationKind int

const (
	RotateBySize RotationKind = iota
	RotateDaily
	RotateHourly
)

// ParseRotationSpec parses "daily", "hourly", or "bytes=N".
func ParseRotationSpec(s string) (RotationSpec, error) {
	switch {
	case s == "" || s == "bytes="+strconv.Itoa(defaultRotateBytes):
		return RotationSpec{Kind: RotateBySize, MaxBytes: defaultRotateBytes}, nil
	case s == "daily":
		return RotationSpec{Kind: RotateDaily, MaxAge: 24 * time.Hour}, nil
	case s == "hourly":
		return RotationSpec{Kind: RotateHourly, MaxAge: time.Hour}, nil
	case strings.HasPrefix(s, "bytes="):
		n, err := strconv.ParseInt(strings.TrimPrefix(s, "bytes="), 10, 64)
		if err != nil || n <= 0 {
			return RotationSpec{}, fmt.Errorf("logging: invalid --log-rotate value %q", s)
		}
		return RotationSpec{Kind: RotateBySize, MaxBytes: n}, nil
	default:
		return RotationSpec{}, fmt.Errorf("logging: invalid --log-rotate value %q: expected daily, hourly, or bytes=N", s)
	}
}

// Options configures the wrapper's own logger. It is assembled from CLI
// flags and is independent of the supervision policy the host runs with.
type Options struct {
	Disabled    bool // --no-log
	DisableCmd  bool // --no-log-cmd: suppress child stdout/stderr capture into the log
	Dir         string
	BaseName    string // --log-as; default shawl_for_<service>
	CmdBaseName string // --log-cmd-as; empty means child output shares BaseName
	Rotation    RotationSpec
	Retain      int // --log-retain
}

// DefaultOptions returns the documented defaults for a given service name,
// with the log directory left for the caller to resolve (next to the
// executable unless --log-dir overrides it).
func DefaultOptions(serviceName, dir string) Options {
	return Options{
		Dir:      dir,
		BaseName: "shawl_for_" + serviceName,
		Rotation: RotationSpec{Kind: RotateBySize, MaxBytes: defaultRotateBytes},
		Retain:   defaultRetain,
	}
}

// Manager owns the wrapper logger and, optionally, a second logger for
// captured child output when --log-cmd-as routes it to its own file.
type Manager struct {
	Wrapper  *zap.Logger
	Cmd      *zap.Logger
	writers  []*lumberjack.Logger
}

// New builds loggers per opts. When opts.Disabled, both loggers are no-ops
// (zap.NewNop()) so call sites never need to branch on whether logging is
// active.
func New(opts Options) (*Manager, error) {
	if opts.Disabled {
		nop := zap.NewNop()
		return &Manager{Wrapper: nop, Cmd: nop}, nil
	}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging: creating log directory: %w", err)
		}
	}

	wrapperWriter := newRoller(opts, opts.BaseName)
	wrapperLogger := buildLogger(wrapperWriter)

	m := &Manager{Wrapper: wrapperLogger, writers: []*lumberjack.Logger{wrapperWriter}}

	if opts.DisableCmd {
		m.Cmd = zap.NewNop()
		return m, nil
	}

	if opts.CmdBaseName == "" {
		m.Cmd = wrapperLogger
		return m, nil
	}

	cmdWriter := newRoller(opts, opts.CmdBaseName)
	m.Cmd = buildLogger(cmdWriter)
	m.writers = append(m.writers, cmdWriter)
	return m, nil
}

func newRoller(opts Options, baseName string) *lumberjack.Logger {
	path := filepath.Join(opts.Dir, baseName+".log")
	l := &lumberjack.Logger{
		Filename: path,
		Compress: false,
		MaxBackups: opts.Retain,
	}
	switch opts.Rotation.Kind {
	case RotateDaily, RotateHourly:
		l.MaxAge = int(opts.Rotation.MaxAge/time.Hour/24) + 1
	default:
		l.MaxSize = toMegabytes(opts.Rotation.MaxBytes)
	}
	return l
}

// toMegabytes converts a byte threshold into the MB granularity lumberjack's
// MaxSize expects, rounding up so small thresholds still rotate.
func toMegabytes(b int64) int {
	const mb = 1024 * 1024
	mbs := int((b + mb - 1) / mb)
	if mbs < 1 {
		mbs = 1
	}
	return mbs
}

func buildLogger(w *lumberjack.Logger) *zap.Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		NameKey:        "logger",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), zapcore.InfoLevel)
	return zap.New(core)
}

// Close flushes and closes every underlying file. Errors are collected but
// a Close failure is not fatal to the host — see the §7 error taxonomy
// point about losing observability versus losing a clean Stopped report.
func (m *Manager) Close() error {
	var firstErr error
	for _, w := range m.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = m.Wrapper.Sync()
	if m.Cmd != m.Wrapper {
		_ = m.Cmd.Sync()
	}
	return firstErr
}
