package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chenjie199234/Dictionary/cerror"
	"github.com/chenjie199234/Dictionary/source"
)

func write(t *testing.T, path, content string) {
	if e := os.WriteFile(path, []byte(content), 0644); e != nil {
		t.Fatal(e)
	}
}

func Test_Config(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, sourcefile), `{"files":[{"path":"./a.txt"},{"path":"./b.txt","charset":"iso-8859-1"}]}`)
	write(t, filepath.Join(dir, appfile), `{"suggest_limit":5,"freeze_after_load":true}`)
	notices := make(chan *AppConfig, 8)
	if e := Init(dir, func(c *AppConfig) { notices <- c }); e != nil {
		t.Fatal(e)
	}
	defer Close()
	if e := Init(dir, nil); e == nil {
		t.Fatal("init twice should fail")
	}
	select {
	case c := <-notices:
		if c.SuggestMaxDistance != 2 || c.SuggestLimit != 5 || !c.FreezeAfterLoad {
			t.Fatalf("app config wrong: %+v", c)
		}
	default:
		t.Fatal("missing first notice")
	}
	sources, closer, e := NewSources()
	if e != nil {
		t.Fatal(e)
	}
	closer()
	if len(sources) != 2 || sources[1].(*source.FileSource).Charset != "iso-8859-1" {
		t.Fatal("sources wrong")
	}

	//hot update
	write(t, filepath.Join(dir, appfile), `{"suggest_max_distance":1,"suggest_limit":3,"log_level":"debug"}`)
	timeout := time.After(time.Second * 5)
	for updated := false; !updated; {
		select {
		case c := <-notices:
			updated = c.SuggestLimit == 3
		case <-timeout:
			t.Fatal("hot update timeout")
		}
	}
	if c := AC(); c.SuggestMaxDistance != 1 || c.SuggestLimit != 3 || c.FreezeAfterLoad {
		t.Fatalf("hot updated config wrong: %+v", c)
	}
	//a broken file keeps the old config
	write(t, filepath.Join(dir, appfile), `{"suggest_limit":`)
	time.Sleep(time.Millisecond * 200)
	if AC().SuggestLimit != 3 {
		t.Fatal("broken file should not replace the config")
	}
}

func Test_ReadApp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, appfile)
	write(t, path, `{"log_level":"loud"}`)
	if _, e := readapp(path); !errors.Is(e, cerror.ErrConfig) {
		t.Fatal("unknown log level should be config error")
	}
	write(t, path, `{"suggest_max_distance":0,"suggest_limit":-1}`)
	if c, e := readapp(path); e != nil || c.SuggestMaxDistance != 0 || c.SuggestLimit != 10 {
		t.Fatalf("zero distance should be kept: %+v %v", c, e)
	}
	write(t, path, `{"suggest_max_distance":-3}`)
	if c, e := readapp(path); e != nil || c.SuggestMaxDistance != 2 {
		t.Fatalf("negative distance should be default: %+v %v", c, e)
	}
	write(t, path, `[]`)
	if _, e := readapp(path); !errors.Is(e, cerror.ErrConfig) {
		t.Fatal("wrong format should be config error")
	}
	if _, e := readapp(filepath.Join(dir, "missing.json")); e == nil {
		t.Fatal("missing file should fail")
	}
}

func Test_ValidateSource(t *testing.T) {
	c := &SourceConfig{}
	data := `{
		"redis":{"words_redis":{"keys":["words"]}},
		"mongo":{"words_mongo":{"addrs":["10.0.0.1:27017"],"fields":[{"db":"d","collection":"c","field":"f"}]}},
		"mysql":{"words_mysql":{"tls":true,"columns":[{"table":"d.t","column":"c"}]}}
	}`
	if e := json.Unmarshal([]byte(data), c); e != nil {
		t.Fatal(e)
	}
	if e := validateSourceConfig(c); e != nil {
		t.Fatal(e)
	}
	if r := c.Redis["words_redis"]; r.RedisName != "words_redis" || r.Addrs[0] != "127.0.0.1:6379" || r.DialTimeout <= 0 {
		t.Fatalf("redis default wrong: %+v", r.Config)
	}
	if m := c.Mongo["words_mongo"]; m.MongoName != "words_mongo" || m.Addrs[0] != "10.0.0.1:27017" {
		t.Fatalf("mongo default wrong: %+v", m.Config)
	}
	if m := c.Mysql["words_mysql"]; m.Addr != "127.0.0.1:3306" || !m.TLS {
		t.Fatalf("mysql default wrong: %+v", m.Config)
	}
	if tlsc, e := c.Mysql["words_mysql"].build(); e != nil || tlsc == nil {
		t.Fatal("tls config should be built")
	}
	if tlsc, e := c.Redis["words_redis"].build(); e != nil || tlsc != nil {
		t.Fatal("tls config should be nil")
	}
	bad := &SourceConfig{Mysql: map[string]*MysqlConfig{"m": {Columns: []*MysqlColumn{{Table: "t"}}}}}
	if e := validateSourceConfig(bad); !errors.Is(e, cerror.ErrConfig) {
		t.Fatal("column without name should fail")
	}
	bad = &SourceConfig{Files: []*source.FileSource{{}}}
	if e := validateSourceConfig(bad); !errors.Is(e, cerror.ErrConfig) {
		t.Fatal("file without path should fail")
	}
	bad = &SourceConfig{Redis: map[string]*RedisConfig{"r": {TLSConfig: TLSConfig{TLS: true, SpecificCAPaths: []string{"/no/such/ca.pem"}}, Config: nil}}}
	if e := validateSourceConfig(bad); e != nil {
		t.Fatal(e)
	}
	if _, e := bad.Redis["r"].build(); e == nil {
		t.Fatal("missing ca should fail")
	}
}

func Test_NewSourcesUnreachable(t *testing.T) {
	old := sc
	defer func() { sc = old }()
	c := &SourceConfig{}
	data := `{
		"files":[{"path":"./words.txt"}],
		"redis":{"down_redis":{"addrs":["127.0.0.1:1"],"dial_timeout":"100ms","keys":["words"]}}
	}`
	if e := json.Unmarshal([]byte(data), c); e != nil {
		t.Fatal(e)
	}
	if e := validateSourceConfig(c); e != nil {
		t.Fatal(e)
	}
	sc = c
	sources, closer, e := NewSources()
	defer closer()
	if !errors.Is(e, cerror.ErrSourceUnavailable) {
		t.Fatal("unreachable redis should be source unavailable")
	}
	if len(sources) != 1 || sources[0].Name() != "file:./words.txt" {
		t.Fatal("reachable sources should still be returned")
	}
}
