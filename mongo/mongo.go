package mongo

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"
	"time"

	"github.com/chenjie199234/Dictionary/util/ctime"

	"go.mongodb.org/mongo-driver/v2/bson"
	gmongo "go.mongodb.org/mongo-driver/v2/mongo"
	goptions "go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type Config struct {
	MongoName string `json:"mongo_name"`
	//only support tcp socket
	//ip:port or host:port
	Addrs []string `json:"addrs"`
	//only the replica set mode need to set this
	//shard mode and standalone mode set this empty
	ReplicaSet string `json:"replica_set"`
	UserName   string `json:"user_name"`
	Password   string `json:"password"`
	//default admin
	AuthDB string `json:"auth_db"`
	//0: default 100
	MaxOpen uint16 `json:"max_open"`
	//<=0: no idletime
	MaxConnIdletime ctime.Duration `json:"max_conn_idletime"`
	//<=0: default 5s
	DialTimeout ctime.Duration `json:"dial_timeout"`
	//<=0: no timeout
	IOTimeout ctime.Duration `json:"io_timeout"`
}
type Client struct {
	*gmongo.Client
}

// if tlsc is not nil,the tls will be actived
func NewMongo(c *Config, tlsc *tls.Config) (*Client, error) {
	if len(c.Addrs) == 0 {
		return nil, errors.New("[mongo] missing addrs")
	}
	opts := goptions.Client()
	if c.MongoName != "" {
		opts = opts.SetAppName(c.MongoName)
	}
	opts = opts.SetHosts(c.Addrs)
	if c.ReplicaSet != "" {
		opts = opts.SetReplicaSet(c.ReplicaSet)
	}
	if c.UserName != "" && c.Password != "" {
		authdb := c.AuthDB
		if authdb == "" {
			authdb = "admin"
		}
		opts = opts.SetAuth(goptions.Credential{
			AuthSource:  authdb,
			Username:    c.UserName,
			Password:    c.Password,
			PasswordSet: true,
		})
	}
	opts = opts.SetMinPoolSize(1)
	if c.MaxOpen == 0 {
		opts = opts.SetMaxPoolSize(100)
	} else {
		opts = opts.SetMaxPoolSize(uint64(c.MaxOpen))
	}
	if c.MaxConnIdletime > 0 {
		opts = opts.SetMaxConnIdleTime(c.MaxConnIdletime.StdDuration())
	}
	dialtimeout := c.DialTimeout.StdDuration()
	if dialtimeout <= 0 {
		dialtimeout = time.Second * 5
	}
	opts = opts.SetConnectTimeout(dialtimeout)
	if c.IOTimeout > 0 {
		opts = opts.SetTimeout(c.IOTimeout.StdDuration())
	}
	if tlsc != nil {
		opts = opts.SetTLSConfig(tlsc)
	}
	client, e := gmongo.Connect(opts)
	if e != nil {
		return nil, e
	}
	ctx, cancel := context.WithTimeout(context.Background(), dialtimeout)
	defer cancel()
	if e = client.Ping(ctx, readpref.Primary()); e != nil {
		client.Disconnect(context.Background())
		return nil, e
	}
	return &Client{client}, nil
}

// ScanField calls yield with every string value of field in the collection
// field can be a dotted path,string arrays are flattened
// iterate stops when yield returns false
func (c *Client) ScanField(ctx context.Context, db, collection, field string, yield func(value string) bool) error {
	if db == "" || collection == "" || field == "" {
		return errors.New("[mongo] db,collection and field can't be empty")
	}
	filter := bson.D{{Key: field, Value: bson.D{{Key: "$type", Value: "string"}}}}
	projection := bson.D{{Key: field, Value: 1}, {Key: "_id", Value: 0}}
	cursor, e := c.Database(db).Collection(collection).Find(ctx, filter, goptions.Find().SetProjection(projection))
	if e != nil {
		return e
	}
	defer cursor.Close(context.Background())
	path := strings.Split(field, ".")
	for cursor.Next(ctx) {
		if !yieldValue(cursor.Current.Lookup(path...), yield) {
			return nil
		}
	}
	return cursor.Err()
}

func yieldValue(v bson.RawValue, yield func(string) bool) bool {
	if str, ok := v.StringValueOK(); ok {
		return yield(str)
	}
	array, ok := v.ArrayOK()
	if !ok {
		return true
	}
	values, e := array.Values()
	if e != nil {
		return true
	}
	for _, vv := range values {
		if str, ok := vv.StringValueOK(); ok && !yield(str) {
			return false
		}
	}
	return true
}
