package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/chenjie199234/Dictionary/cerror"
	"github.com/chenjie199234/Dictionary/container/radix"
	"github.com/chenjie199234/Dictionary/dict"

	"golang.org/x/text/encoding/charmap"
)

func words(t *radix.Trie) []string {
	return slices.Collect(t.Words())
}

func Test_Tokenize(t *testing.T) {
	var tokens []string
	Tokenize("  the\tquick \r\n brown  ", func(s string) bool {
		tokens = append(tokens, s)
		return true
	})
	if !slices.Equal(tokens, []string{"the", "quick", "brown"}) {
		t.Fatalf("tokens wrong: %v", tokens)
	}
	tokens = tokens[:0]
	if Tokenize("a b c", func(s string) bool { tokens = append(tokens, s); return len(tokens) < 2 }) {
		t.Fatal("should report stop")
	}
	if len(tokens) != 2 {
		t.Fatal("should stop after two tokens")
	}
}

func Test_FileSource(t *testing.T) {
	dir := t.TempDir()
	utf8file := filepath.Join(dir, "utf8.txt")
	if e := os.WriteFile(utf8file, []byte("Hello world\n\nfoo1 bar\n"), 0644); e != nil {
		t.Fatal(e)
	}
	latin, e := charmap.ISO8859_1.NewEncoder().String("café Naive\nok\n")
	if e != nil {
		t.Fatal(e)
	}
	latinfile := filepath.Join(dir, "latin.txt")
	if e := os.WriteFile(latinfile, []byte(latin), 0644); e != nil {
		t.Fatal(e)
	}
	tree := radix.New()
	stats, e := Load(context.Background(), tree, &FileSource{Path: utf8file}, &FileSource{Path: latinfile, Charset: "ISO-8859-1"})
	if e != nil {
		t.Fatal(e)
	}
	if !slices.Equal(words(tree), []string{"bar", "hello", "naive", "ok", "world"}) {
		t.Fatalf("words wrong: %v", words(tree))
	}
	if len(stats) != 2 {
		t.Fatal("should have two stats")
	}
	if stats[0].Tokens != 4 || stats[0].Accepted != 3 || stats[0].Rejected != 1 {
		t.Fatalf("utf8 stat wrong: %+v", stats[0])
	}
	if stats[1].Tokens != 3 || stats[1].Accepted != 2 || stats[1].Rejected != 1 {
		t.Fatalf("latin stat wrong: %+v", stats[1])
	}
	if _, e := Load(context.Background(), tree, &FileSource{Path: utf8file, Charset: "no-such-charset"}); !errors.Is(e, cerror.ErrConfig) {
		t.Fatal("unknown charset should be config error")
	}
}

func Test_Unavailable(t *testing.T) {
	tree := radix.New()
	missing := &FileSource{Path: filepath.Join(t.TempDir(), "missing.txt")}
	stats, e := Load(context.Background(), tree,
		&ReaderSource{SourceName: "first", R: strings.NewReader("alpha beta")},
		missing,
		&ReaderSource{SourceName: "third", R: strings.NewReader("gamma")},
	)
	if !errors.Is(e, cerror.ErrSourceUnavailable) {
		t.Fatal("missing file should be source unavailable")
	}
	if len(stats) != 3 {
		t.Fatal("every source should have a stat")
	}
	if stats[1].Source != missing.Name() || stats[1].Error == "" || stats[0].Error != "" || stats[2].Error != "" {
		t.Fatalf("stats wrong: %+v %+v %+v", stats[0], stats[1], stats[2])
	}
	//the other sources are still loaded
	if !slices.Equal(words(tree), []string{"alpha", "beta", "gamma"}) {
		t.Fatalf("words wrong: %v", words(tree))
	}
	for _, s := range []Source{&RedisSource{Key: "k"}, &MongoSource{DB: "d", Collection: "c", Field: "f"}, &MysqlSource{Table: "t", Column: "c"}, &ReaderSource{}} {
		if e := s.Scan(context.Background(), func(string) bool { return true }); !errors.Is(e, cerror.ErrSourceUnavailable) {
			t.Fatal(s.Name(), "without client should be source unavailable")
		}
	}
	if e := unavailable("x", context.DeadlineExceeded); !errors.Is(e, cerror.ErrDeadlineExceeded) {
		t.Fatal("context error should be kept")
	}
	if unavailable("x", nil) != nil {
		t.Fatal("nil should stay nil")
	}
}

func Test_LoadStop(t *testing.T) {
	//cancel
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tree := radix.New()
	stats, e := Load(ctx, tree, &ReaderSource{R: strings.NewReader("a b c")})
	if !errors.Is(e, cerror.ErrCanceled) {
		t.Fatal("canceled context should stop the load")
	}
	if stats[0].Accepted != 0 || tree.Len() != 0 {
		t.Fatal("nothing should be loaded after cancel")
	}
	//frozen
	d := dict.New()
	defer d.Close()
	if _, e := Load(context.Background(), d, &ReaderSource{R: strings.NewReader("one two")}); e != nil {
		t.Fatal(e)
	}
	d.Freeze()
	stats, e = Load(context.Background(), d, &ReaderSource{R: strings.NewReader("three")})
	if !errors.Is(e, cerror.ErrFrozen) {
		t.Fatal("frozen dictionary should stop the load")
	}
	if stats[0].Tokens != 1 || stats[0].Accepted != 0 || d.Len() != 2 {
		t.Fatalf("frozen stat wrong: %+v", stats[0])
	}
}
