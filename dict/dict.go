package dict

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/chenjie199234/Dictionary/cerror"
	"github.com/chenjie199234/Dictionary/container/radix"
	"github.com/chenjie199234/Dictionary/internal/version"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	ometric "go.opentelemetry.io/otel/metric"
)

// Dictionary is the thread safe dictionary
// one writer or many readers at the same time,after Freeze,readers don't lock any more
type Dictionary struct {
	lker   sync.RWMutex
	tree   *radix.Trie
	frozen atomic.Bool

	ops  ometric.Int64Counter
	size ometric.Int64ObservableGauge
	reg  ometric.Registration
}

// Suggestion is the nearest match result
type Suggestion = radix.Suggestion

func New() *Dictionary {
	d := &Dictionary{tree: radix.New()}
	meter := otel.Meter("Dictionary.dict", ometric.WithInstrumentationVersion(version.String()))
	var e error
	if d.ops, e = meter.Int64Counter("dict_ops", ometric.WithUnit("1"), ometric.WithDescription("dictionary operations")); e != nil {
		slog.Error("[dict.New] create ops counter failed", slog.String("error", e.Error()))
	}
	if d.size, e = meter.Int64ObservableGauge("dict_words", ometric.WithUnit("1"), ometric.WithDescription("distinct words in the dictionary")); e != nil {
		slog.Error("[dict.New] create words gauge failed", slog.String("error", e.Error()))
		return d
	}
	d.reg, e = meter.RegisterCallback(func(ctx context.Context, o ometric.Observer) error {
		o.ObserveInt64(d.size, int64(d.Len()))
		return nil
	}, d.size)
	if e != nil {
		slog.Error("[dict.New] register words gauge callback failed", slog.String("error", e.Error()))
	}
	return d
}

// Close stops reporting this dictionary's metrics
func (d *Dictionary) Close() {
	if d.reg != nil {
		d.reg.Unregister()
	}
}

func (d *Dictionary) record(op string, result string) {
	if d.ops == nil {
		return
	}
	d.ops.Add(context.Background(), 1, ometric.WithAttributes(attribute.String("op", op), attribute.String("result", result)))
}

// result attribute for a query
func result(ok bool, e error) string {
	if e != nil {
		if errors.Is(e, cerror.ErrInvalidWord) {
			return "invalid"
		}
		return "error"
	}
	if ok {
		return "hit"
	}
	return "miss"
}

func (d *Dictionary) rlock() func() {
	if d.frozen.Load() {
		return func() {}
	}
	d.lker.RLock()
	return d.lker.RUnlock
}

// Insert fails with cerror.ErrFrozen after Freeze
func (d *Dictionary) Insert(word string) error {
	d.lker.Lock()
	if d.frozen.Load() {
		d.lker.Unlock()
		d.record("insert", "frozen")
		return cerror.ErrFrozen
	}
	e := d.tree.Insert(word)
	d.lker.Unlock()
	if e != nil {
		slog.Debug("[dict.Insert] invalid word", slog.String("word", word))
		d.record("insert", "invalid")
		return e
	}
	d.record("insert", "ok")
	return nil
}

func (d *Dictionary) Contains(word string) (bool, error) {
	unlock := d.rlock()
	ok, e := d.tree.Contains(word)
	unlock()
	if e != nil {
		slog.Warn("[dict.Contains] invalid word", slog.String("word", word))
	}
	d.record("contains", result(ok, e))
	return ok, e
}

func (d *Dictionary) HasPrefix(prefix string) (bool, error) {
	unlock := d.rlock()
	ok, e := d.tree.HasPrefix(prefix)
	unlock()
	if e != nil {
		slog.Warn("[dict.HasPrefix] invalid prefix", slog.String("prefix", prefix))
	}
	d.record("has_prefix", result(ok, e))
	return ok, e
}

// Words returns all words in alphabetical order
// the read lock is held while ranging,don't call Insert inside the range
func (d *Dictionary) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		unlock := d.rlock()
		defer unlock()
		d.record("words", "ok")
		for w := range d.tree.Words() {
			if !yield(w) {
				return
			}
		}
	}
}

// WordsWithPrefix has the same lock rule as Words
func (d *Dictionary) WordsWithPrefix(prefix string) (iter.Seq[string], error) {
	if _, e := radix.Normalize(prefix); e != nil && prefix != "" {
		slog.Warn("[dict.WordsWithPrefix] invalid prefix", slog.String("prefix", prefix))
		d.record("words", "invalid")
		return nil, e
	}
	return func(yield func(string) bool) {
		unlock := d.rlock()
		defer unlock()
		d.record("words", "ok")
		seq, e := d.tree.WordsWithPrefix(prefix)
		if e != nil {
			return
		}
		for w := range seq {
			if !yield(w) {
				return
			}
		}
	}, nil
}

func (d *Dictionary) Suggest(word string, maxDistance, limit int) ([]Suggestion, error) {
	unlock := d.rlock()
	s, e := d.tree.Suggest(word, maxDistance, limit)
	unlock()
	if e != nil {
		slog.Warn("[dict.Suggest] invalid request", slog.String("word", word), slog.Int("max_distance", maxDistance), slog.Int("limit", limit))
	}
	d.record("suggest", result(len(s) > 0, e))
	return s, e
}

func (d *Dictionary) Len() int {
	unlock := d.rlock()
	defer unlock()
	return d.tree.Len()
}

// Freeze makes the dictionary read only,it can't be undone
func (d *Dictionary) Freeze() {
	d.lker.Lock()
	d.frozen.Store(true)
	d.lker.Unlock()
	slog.Info("[dict.Freeze] dictionary frozen", slog.Int("words", d.tree.Len()))
}

func (d *Dictionary) Frozen() bool {
	return d.frozen.Load()
}
