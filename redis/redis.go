package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/chenjie199234/Dictionary/util/ctime"

	gredis "github.com/redis/go-redis/v9"
)

type Config struct {
	RedisName string `json:"redis_name"`
	//ip:port or host:port
	//if there is only one addr,the simple redis client will be created
	//if there are many addrs,the cluster redis client will be created
	Addrs []string `json:"addrs"`
	//username and password is for redis 6.0+'s acl
	//if redis version is under 6.0,only need password
	UserName string `json:"user_name"`
	Password string `json:"password"`
	//0: default 256
	MaxOpen uint16 `json:"max_open"`
	//<=0: no idletime
	MaxConnIdletime ctime.Duration `json:"max_conn_idletime"`
	//<=0: default 5s
	DialTimeout ctime.Duration `json:"dial_timeout"`
	//<=0: no timeout
	IOTimeout ctime.Duration `json:"io_timeout"`
}

type Client struct {
	gredis.UniversalClient
}

var ErrKeyNotExist = errors.New("[redis] key not exist")
var ErrKeyType = errors.New("[redis] key type must be set,list or string")

// if tlsc is not nil,the tls will be actived
func NewRedis(c *Config, tlsc *tls.Config) (*Client, error) {
	if len(c.Addrs) == 0 {
		return nil, errors.New("[redis] missing addrs")
	}
	opts := &gredis.UniversalOptions{
		Addrs:                 c.Addrs,
		ClientName:            c.RedisName,
		Username:              c.UserName,
		Password:              c.Password,
		ContextTimeoutEnabled: true,
		PoolSize:              256,
		ConnMaxIdleTime:       c.MaxConnIdletime.StdDuration(),
		DialTimeout:           c.DialTimeout.StdDuration(),
		TLSConfig:             tlsc,
	}
	if c.MaxOpen != 0 {
		opts.PoolSize = int(c.MaxOpen)
	}
	if c.DialTimeout <= 0 {
		opts.DialTimeout = time.Second * 5
	}
	if c.IOTimeout > 0 {
		opts.ReadTimeout = c.IOTimeout.StdDuration()
		opts.WriteTimeout = c.IOTimeout.StdDuration()
	}
	client := &Client{gredis.NewUniversalClient(opts)}
	if e := client.Ping(context.Background()).Err(); e != nil {
		client.Close()
		return nil, e
	}
	return client, nil
}

// ScanWords calls yield with every member of a set,every element of a list or the value of a string
// iterate stops when yield returns false
func (c *Client) ScanWords(ctx context.Context, key string, yield func(member string) bool) error {
	keytype, e := c.Type(ctx, key).Result()
	if e != nil {
		return e
	}
	switch keytype {
	case "none":
		return ErrKeyNotExist
	case "set":
		return c.scanSet(ctx, key, yield)
	case "list":
		return c.rangeList(ctx, key, yield)
	case "string":
		value, e := c.Get(ctx, key).Result()
		if e != nil {
			if e == gredis.Nil {
				return ErrKeyNotExist
			}
			return e
		}
		yield(value)
		return nil
	}
	return ErrKeyType
}

const page = 512

func (c *Client) scanSet(ctx context.Context, key string, yield func(string) bool) error {
	var cursor uint64
	for {
		members, next, e := c.SScan(ctx, key, cursor, "", page).Result()
		if e != nil {
			return e
		}
		for _, member := range members {
			if !yield(member) {
				return nil
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *Client) rangeList(ctx context.Context, key string, yield func(string) bool) error {
	for start := int64(0); ; start += page {
		elements, e := c.LRange(ctx, key, start, start+page-1).Result()
		if e != nil {
			return e
		}
		for _, element := range elements {
			if !yield(element) {
				return nil
			}
		}
		if len(elements) < page {
			return nil
		}
	}
}
