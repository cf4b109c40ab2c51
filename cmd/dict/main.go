package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chenjie199234/Dictionary/config"
	"github.com/chenjie199234/Dictionary/cotel"
	"github.com/chenjie199234/Dictionary/dict"
	"github.com/chenjie199234/Dictionary/log"
	"github.com/chenjie199234/Dictionary/util/name"
)

var dir = flag.String("c", "./", "config dir,AppConfig.json and SourceConfig.json must be inside it")

func main() {
	flag.Parse()
	if e := name.SetSelfFullName("dictionary", "tool", "dict"); e != nil {
		panic(e)
	}
	log.Init(name.GetSelfApp())
	defer log.Close()
	if e := cotel.Init(); e != nil {
		slog.Error("[main] init otel failed", slog.String("error", e.Error()))
		return
	}
	defer cotel.Stop()
	if e := config.Init(*dir, nil); e != nil {
		slog.Error("[main] init config failed", slog.String("error", e.Error()))
		return
	}
	defer config.Close()

	var server *http.Server
	if strings.ToLower(os.Getenv("METRIC")) == "prometheus" {
		server = &http.Server{Addr: os.Getenv("METRIC_ADDR"), Handler: cotel.GetPrometheusHandler()}
		if server.Addr == "" {
			server.Addr = ":6060"
		}
		go func() {
			if e := server.ListenAndServe(); e != nil && !errors.Is(e, http.ErrServerClosed) {
				slog.Error("[main] metric server failed", slog.String("addr", server.Addr), slog.String("error", e.Error()))
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d := dict.New()
	defer d.Close()
	sources, closer, e := config.NewSources()
	e = load(ctx, d, sources, e)
	closer()
	if e != nil {
		slog.Error("[main] load sources failed", slog.String("error", e.Error()))
		return
	}
	if config.AC().FreezeAfterLoad {
		d.Freeze()
	}
	slog.Info("[main] dictionary ready", slog.Int("words", d.Len()))

	done := make(chan struct{})
	go func() {
		run(d, os.Stdin, os.Stdout)
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	if server != nil {
		sctx, scancel := context.WithTimeout(context.Background(), time.Second)
		if e := server.Shutdown(sctx); e != nil {
			slog.Error("[main] metric server shutdown failed", slog.String("addr", server.Addr), slog.String("error", e.Error()))
		}
		scancel()
	}
}
