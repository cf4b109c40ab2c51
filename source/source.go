package source

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/chenjie199234/Dictionary/cerror"
	"github.com/chenjie199234/Dictionary/internal/version"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Source produces raw tokens,they are validated by the Inserter
type Source interface {
	Name() string
	//iterate stops when yield returns false
	//an unreachable source returns cerror.ErrSourceUnavailable(annotated)
	Scan(ctx context.Context, yield func(token string) bool) error
}

// Inserter is satisfied by *dict.Dictionary and *radix.Trie
type Inserter interface {
	Insert(word string) error
}

// Tokenize splits the line on whitespace
func Tokenize(line string, yield func(token string) bool) bool {
	for _, token := range strings.Fields(line) {
		if !yield(token) {
			return false
		}
	}
	return true
}

type Stat struct {
	Source   string `json:"source"`
	Tokens   int    `json:"tokens"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
	//not empty when the source stopped early
	Error string `json:"error,omitempty"`
}

// Load inserts every token of the sources into dst,sources are loaded one by one
// invalid tokens are counted in Stat.Rejected and skipped
// an unavailable source is recorded in its Stat and skipped,the other sources are still loaded
// and the first cerror.ErrSourceUnavailable is returned after all of them
// any other error(e.g. context canceled,cerror.ErrFrozen) stops the load at once
// tokens inserted before a failure always remain in dst
func Load(ctx context.Context, dst Inserter, sources ...Source) ([]*Stat, error) {
	stats := make([]*Stat, 0, len(sources))
	var unavailable error
	for _, s := range sources {
		stat, e := load(ctx, dst, s)
		stats = append(stats, stat)
		if e == nil {
			continue
		}
		stat.Error = e.Error()
		if !errors.Is(e, cerror.ErrSourceUnavailable) {
			return stats, e
		}
		if unavailable == nil {
			unavailable = e
		}
	}
	return stats, unavailable
}

func load(ctx context.Context, dst Inserter, s Source) (stat *Stat, e error) {
	stat = &Stat{Source: s.Name()}
	ctx, span := otel.Tracer("Dictionary.source", trace.WithInstrumentationVersion(version.String())).Start(
		ctx,
		"load source",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("source.name", stat.Source)),
	)
	defer func() {
		span.SetAttributes(
			attribute.Int("source.tokens", stat.Tokens),
			attribute.Int("source.accepted", stat.Accepted),
			attribute.Int("source.rejected", stat.Rejected),
		)
		if e != nil {
			span.SetStatus(codes.Error, e.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()
	var inserte error
	scane := s.Scan(ctx, func(token string) bool {
		if ctx.Err() != nil {
			return false
		}
		stat.Tokens++
		if e := dst.Insert(token); e != nil {
			if errors.Is(e, cerror.ErrInvalidWord) {
				stat.Rejected++
				slog.DebugContext(ctx, "[source.Load] skip invalid token", slog.String("source", stat.Source), slog.String("token", token))
				return true
			}
			inserte = e
			return false
		}
		stat.Accepted++
		return true
	})
	switch {
	case inserte != nil:
		e = inserte
	case scane != nil:
		e = scane
	case ctx.Err() != nil:
		e = cerror.ConvertStdError(ctx.Err())
	}
	if e != nil {
		slog.ErrorContext(ctx, "[source.Load] load failed", slog.String("source", stat.Source), slog.Int("accepted", stat.Accepted), slog.String("error", e.Error()))
		return
	}
	if stat.Rejected > 0 {
		slog.WarnContext(ctx, "[source.Load] invalid tokens skipped", slog.String("source", stat.Source), slog.Int("rejected", stat.Rejected))
	}
	slog.InfoContext(ctx, "[source.Load] success", slog.String("source", stat.Source), slog.Int("tokens", stat.Tokens), slog.Int("accepted", stat.Accepted))
	return
}
