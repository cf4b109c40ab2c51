package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chenjie199234/Dictionary/cerror"
	"github.com/chenjie199234/Dictionary/dict"
	"github.com/chenjie199234/Dictionary/source"
)

// load fills d from the sources
// unavailable sources only leave fewer words,the returned error means the dictionary can't be served
func load(ctx context.Context, d *dict.Dictionary, sources []source.Source, connecte error) error {
	if connecte != nil {
		if !errors.Is(connecte, cerror.ErrSourceUnavailable) {
			return connecte
		}
		slog.Warn("[main.load] some sources can't be connected,skipped", slog.String("error", connecte.Error()))
	}
	stats, e := source.Load(ctx, d, sources...)
	if e != nil && !errors.Is(e, cerror.ErrSourceUnavailable) {
		return e
	}
	for _, stat := range stats {
		if stat.Error != "" {
			slog.Warn("[main.load] source unavailable,skipped", slog.Any("stat", stat))
		}
	}
	return nil
}
