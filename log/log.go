package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	otrace "go.opentelemetry.io/otel/trace"
)

const (
	targetStd  = 1
	targetFile = 2
	targetBoth = 3
)

type env struct {
	trace  bool
	source bool
	target int
	level  slog.Level
}

var level = new(slog.LevelVar)
var logfile *os.File

func getenv() (*env, error) {
	r := &env{}
	if str := os.Getenv("LOG_TRACE"); str != "" && str != "<LOG_TRACE>" && str != "0" && str != "1" {
		return nil, errors.New("[log] os env LOG_TRACE error,must in [0,1]")
	} else {
		r.trace = str == "1"
	}
	if str := os.Getenv("LOG_SOURCE"); str != "" && str != "<LOG_SOURCE>" && str != "0" && str != "1" {
		return nil, errors.New("[log] os env LOG_SOURCE error,must in [0,1]")
	} else {
		r.source = str == "1"
	}
	switch str := strings.ToLower(os.Getenv("LOG_TARGET")); str {
	case "", "<log_target>", "std":
		r.target = targetStd
	case "file":
		r.target = targetFile
	case "both":
		r.target = targetBoth
	default:
		return nil, errors.New("[log] os env LOG_TARGET error,must in [std(default),file,both]")
	}
	lv, e := ParseLevel(os.Getenv("LOG_LEVEL"))
	if e != nil {
		return nil, errors.New("[log] os env LOG_LEVEL error,must in [debug,info(default),warning,error]")
	}
	r.level = lv
	return r, nil
}

// ParseLevel accepts debug,info,warning,error,the empty string means info
func ParseLevel(str string) (slog.Level, error) {
	switch strings.ToLower(str) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "<log_level>", "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.New("[log] unknown level: " + str)
}

// Init sets the slog default logger from os env
// file target writes into ./log/{app}.log
func Init(app string) {
	env, e := getenv()
	if e != nil {
		panic(e.Error())
	}
	level.Set(env.level)
	var w io.Writer = os.Stderr
	if env.target&targetFile > 0 {
		if e := os.MkdirAll("./log", 0755); e != nil {
			panic("[log] create log dir error: " + e.Error())
		}
		logfile, e = os.OpenFile(filepath.Join("./log", app+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if e != nil {
			panic("[log] open log file error: " + e.Error())
		}
		if env.target == targetBoth {
			w = io.MultiWriter(os.Stderr, logfile)
		} else {
			w = logfile
		}
	}
	slog.SetDefault(slog.New(NewHandler(w, level, env.source, env.trace)))
}

// SetLevel changes the default logger's level at runtime
func SetLevel(lv slog.Level) {
	level.Set(lv)
}

func Close() {
	if logfile != nil {
		logfile.Sync()
		logfile.Close()
	}
}

// NewHandler returns the json handler with the short field names:_lv,_summary,_time,_fileline
// if trace is true,the otel trace id in the context will be added as _tid
func NewHandler(w io.Writer, lv slog.Leveler, source, trace bool) slog.Handler {
	var h slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   source,
		Level:       lv,
		ReplaceAttr: replace,
	})
	if trace {
		h = &traceHandler{Handler: h}
	}
	return h
}

func replace(groups []string, a slog.Attr) slog.Attr {
	if len(groups) != 0 {
		return a
	}
	switch a.Key {
	case slog.LevelKey:
		a.Key = "_lv"
	case slog.MessageKey:
		a.Key = "_summary"
	case slog.TimeKey:
		a.Key = "_time"
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	case slog.SourceKey:
		a.Key = "_fileline"
		if s, ok := a.Value.Any().(*slog.Source); ok {
			a.Value = slog.StringValue(s.File + ":" + strconv.Itoa(s.Line))
		}
	}
	return a
}

type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if sc := otrace.SpanContextFromContext(ctx); sc.IsValid() {
			r.AddAttrs(slog.String("_tid", sc.TraceID().String()), slog.String("_sid", sc.SpanID().String()))
		}
	}
	return h.Handler.Handle(ctx, r)
}
func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}
func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}
