package config

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/chenjie199234/Dictionary/cerror"
	"github.com/chenjie199234/Dictionary/mongo"
	"github.com/chenjie199234/Dictionary/mysql"
	"github.com/chenjie199234/Dictionary/redis"
	"github.com/chenjie199234/Dictionary/source"
	"github.com/chenjie199234/Dictionary/util/ctime"
)

// SourceConfig can't hot update
// the sources are loaded in this order: files,redis,mongo,mysql
type SourceConfig struct {
	Files []*source.FileSource    `json:"files"`
	Redis map[string]*RedisConfig `json:"redis"` //key example:xx_redis
	Mongo map[string]*MongoConfig `json:"mongo"` //key example:xx_mongo
	Mysql map[string]*MysqlConfig `json:"mysql"` //key example:xx_mysql
}

type TLSConfig struct {
	TLS             bool     `json:"tls"`
	SpecificCAPaths []string `json:"specific_ca_paths"` //only when TLS is true,this will be effective,if this is empty,system's ca will be used
}

// RedisConfig -
type RedisConfig struct {
	TLSConfig
	*redis.Config
	//every key must be a set,a list or a string
	Keys []string `json:"keys"`
}

// MongoConfig -
type MongoConfig struct {
	TLSConfig
	*mongo.Config
	Fields []*MongoField `json:"fields"`
}
type MongoField struct {
	DB         string `json:"db"`
	Collection string `json:"collection"`
	//dotted path is allowed
	Field string `json:"field"`
}

// MysqlConfig -
type MysqlConfig struct {
	TLSConfig
	*mysql.Config
	Columns []*MysqlColumn `json:"columns"`
}
type MysqlColumn struct {
	//db.table is allowed
	Table  string `json:"table"`
	Column string `json:"column"`
}

var sc *SourceConfig

// SC returns the SourceConfig,nil before Init
func SC() *SourceConfig {
	return sc
}

func initsource(path string) error {
	data, e := os.ReadFile(path)
	if e != nil {
		slog.Error("[config.initsource] read config file failed", slog.String("path", path), slog.String("error", e.Error()))
		return e
	}
	c := &SourceConfig{}
	if e = json.Unmarshal(data, c); e != nil {
		slog.Error("[config.initsource] config file format wrong", slog.String("path", path), slog.String("error", e.Error()))
		return cerror.Annotate(cerror.ErrConfig, e.Error())
	}
	if e = validateSourceConfig(c); e != nil {
		slog.Error("[config.initsource] config check failed", slog.String("path", path), slog.String("error", e.Error()))
		return e
	}
	sc = c
	slog.Info("[config.initsource] update success", slog.Any("config", sc))
	return nil
}

func validateSourceConfig(c *SourceConfig) error {
	for _, f := range c.Files {
		if f == nil || f.Path == "" {
			return cerror.Annotate(cerror.ErrConfig, "file source missing path")
		}
	}
	for k, redisc := range c.Redis {
		if redisc == nil {
			return cerror.Annotate(cerror.ErrConfig, "redis: "+k+" missing config")
		}
		if redisc.Config == nil {
			redisc.Config = &redis.Config{}
		}
		redisc.RedisName = k
		if len(redisc.Addrs) == 0 {
			redisc.Addrs = []string{"127.0.0.1:6379"}
		}
		if redisc.MaxConnIdletime <= 0 {
			redisc.MaxConnIdletime = ctime.Duration(time.Minute * 5)
		}
		if redisc.IOTimeout <= 0 {
			redisc.IOTimeout = ctime.Duration(time.Millisecond * 500)
		}
		if redisc.DialTimeout <= 0 {
			redisc.DialTimeout = ctime.Duration(time.Millisecond * 250)
		}
	}
	for k, mongoc := range c.Mongo {
		if mongoc == nil {
			return cerror.Annotate(cerror.ErrConfig, "mongo: "+k+" missing config")
		}
		if mongoc.Config == nil {
			mongoc.Config = &mongo.Config{}
		}
		mongoc.MongoName = k
		if len(mongoc.Addrs) == 0 {
			mongoc.Addrs = []string{"127.0.0.1:27017"}
		}
		if mongoc.MaxConnIdletime <= 0 {
			mongoc.MaxConnIdletime = ctime.Duration(time.Minute * 5)
		}
		if mongoc.IOTimeout <= 0 {
			mongoc.IOTimeout = ctime.Duration(time.Second * 5)
		}
		if mongoc.DialTimeout <= 0 {
			mongoc.DialTimeout = ctime.Duration(time.Millisecond * 250)
		}
		for _, f := range mongoc.Fields {
			if f == nil || f.DB == "" || f.Collection == "" || f.Field == "" {
				return cerror.Annotate(cerror.ErrConfig, "mongo: "+k+" field must have db,collection and field")
			}
		}
	}
	for k, mysqlc := range c.Mysql {
		if mysqlc == nil {
			return cerror.Annotate(cerror.ErrConfig, "mysql: "+k+" missing config")
		}
		if mysqlc.Config == nil {
			mysqlc.Config = &mysql.Config{}
		}
		mysqlc.MysqlName = k
		if mysqlc.Addr == "" {
			mysqlc.Addr = "127.0.0.1:3306"
		}
		if mysqlc.MaxConnIdletime <= 0 {
			mysqlc.MaxConnIdletime = ctime.Duration(time.Minute * 5)
		}
		if mysqlc.IOTimeout <= 0 {
			mysqlc.IOTimeout = ctime.Duration(time.Second * 5)
		}
		if mysqlc.DialTimeout <= 0 {
			mysqlc.DialTimeout = ctime.Duration(time.Millisecond * 250)
		}
		for _, col := range mysqlc.Columns {
			if col == nil || col.Table == "" || col.Column == "" {
				return cerror.Annotate(cerror.ErrConfig, "mysql: "+k+" column must have table and column")
			}
		}
	}
	return nil
}

func (t TLSConfig) build() (*tls.Config, error) {
	if !t.TLS {
		return nil, nil
	}
	tlsc := &tls.Config{}
	if len(t.SpecificCAPaths) > 0 {
		tlsc.RootCAs = x509.NewCertPool()
		for _, certpath := range t.SpecificCAPaths {
			cert, e := os.ReadFile(certpath)
			if e != nil {
				return nil, errors.New("read specific cert: " + certpath + " failed: " + e.Error())
			}
			if ok := tlsc.RootCAs.AppendCertsFromPEM(cert); !ok {
				return nil, errors.New("specific cert: " + certpath + " load failed")
			}
		}
	}
	return tlsc, nil
}

// NewSources connects all the dbs in the SourceConfig and returns the sources
// a db that can't be connected is skipped and the first cerror.ErrSourceUnavailable is returned with the other sources
// closer must be called after the load to release the db clients
func NewSources() (sources []source.Source, closer func(), e error) {
	if sc == nil {
		return nil, func() {}, errors.New("[config] not initialized")
	}
	var rediss = make(map[string]*redis.Client, len(sc.Redis))
	var mongos = make(map[string]*mongo.Client, len(sc.Mongo))
	var mysqls = make(map[string]*mysql.Client, len(sc.Mysql))
	closer = func() {
		for _, c := range rediss {
			c.Close()
		}
		for _, c := range mongos {
			c.Disconnect(context.Background())
		}
		for _, c := range mysqls {
			c.Close()
		}
	}
	lker := sync.Mutex{}
	wg := sync.WaitGroup{}
	var ee error
	fail := func(e error) {
		lker.Lock()
		if ee == nil {
			ee = e
		}
		lker.Unlock()
	}
	for k, v := range sc.Redis {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tlsc, e := v.build()
			if e == nil {
				var c *redis.Client
				if c, e = redis.NewRedis(v.Config, tlsc); e == nil {
					lker.Lock()
					rediss[k] = c
					lker.Unlock()
					return
				}
			}
			slog.Error("[config.NewSources] redis failed", slog.String("redis", k), slog.String("error", e.Error()))
			fail(cerror.Annotate(cerror.ErrSourceUnavailable, "redis: "+k+": "+e.Error()))
		}()
	}
	for k, v := range sc.Mongo {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tlsc, e := v.build()
			if e == nil {
				var c *mongo.Client
				if c, e = mongo.NewMongo(v.Config, tlsc); e == nil {
					lker.Lock()
					mongos[k] = c
					lker.Unlock()
					return
				}
			}
			slog.Error("[config.NewSources] mongo failed", slog.String("mongo", k), slog.String("error", e.Error()))
			fail(cerror.Annotate(cerror.ErrSourceUnavailable, "mongo: "+k+": "+e.Error()))
		}()
	}
	for k, v := range sc.Mysql {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tlsc, e := v.build()
			if e == nil {
				var c *mysql.Client
				if c, e = mysql.NewMysql(v.Config, tlsc); e == nil {
					lker.Lock()
					mysqls[k] = c
					lker.Unlock()
					return
				}
			}
			slog.Error("[config.NewSources] mysql failed", slog.String("mysql", k), slog.String("error", e.Error()))
			fail(cerror.Annotate(cerror.ErrSourceUnavailable, "mysql: "+k+": "+e.Error()))
		}()
	}
	wg.Wait()
	for _, f := range sc.Files {
		sources = append(sources, f)
	}
	for _, k := range sortedKeys(sc.Redis) {
		if rediss[k] == nil {
			continue
		}
		for _, key := range sc.Redis[k].Keys {
			sources = append(sources, &source.RedisSource{Client: rediss[k], Key: key})
		}
	}
	for _, k := range sortedKeys(sc.Mongo) {
		if mongos[k] == nil {
			continue
		}
		for _, f := range sc.Mongo[k].Fields {
			sources = append(sources, &source.MongoSource{Client: mongos[k], DB: f.DB, Collection: f.Collection, Field: f.Field})
		}
	}
	for _, k := range sortedKeys(sc.Mysql) {
		if mysqls[k] == nil {
			continue
		}
		for _, col := range sc.Mysql[k].Columns {
			sources = append(sources, &source.MysqlSource{Client: mysqls[k], Table: col.Table, Column: col.Column})
		}
	}
	return sources, closer, ee
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
