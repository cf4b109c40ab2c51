package source

import (
	"context"
	"errors"

	"github.com/chenjie199234/Dictionary/cerror"
	"github.com/chenjie199234/Dictionary/mongo"
	"github.com/chenjie199234/Dictionary/mysql"
	"github.com/chenjie199234/Dictionary/redis"
)

// every value read from a db is tokenized like one line of a file

// RedisSource reads a set,a list or a string key
type RedisSource struct {
	Client *redis.Client
	Key    string
}

func (r *RedisSource) Name() string {
	return "redis:" + r.Key
}

func (r *RedisSource) Scan(ctx context.Context, yield func(token string) bool) error {
	if r.Client == nil {
		return cerror.Annotate(cerror.ErrSourceUnavailable, r.Name()+": nil client")
	}
	return unavailable(r.Name(), r.Client.ScanWords(ctx, r.Key, func(member string) bool {
		return Tokenize(member, yield)
	}))
}

// MongoSource reads one string field(or string array field) of every document
type MongoSource struct {
	Client     *mongo.Client
	DB         string
	Collection string
	Field      string
}

func (m *MongoSource) Name() string {
	return "mongo:" + m.DB + "." + m.Collection + "." + m.Field
}

func (m *MongoSource) Scan(ctx context.Context, yield func(token string) bool) error {
	if m.Client == nil {
		return cerror.Annotate(cerror.ErrSourceUnavailable, m.Name()+": nil client")
	}
	return unavailable(m.Name(), m.Client.ScanField(ctx, m.DB, m.Collection, m.Field, func(value string) bool {
		return Tokenize(value, yield)
	}))
}

// MysqlSource reads one column of every row
type MysqlSource struct {
	Client *mysql.Client
	Table  string
	Column string
}

func (m *MysqlSource) Name() string {
	return "mysql:" + m.Table + "." + m.Column
}

func (m *MysqlSource) Scan(ctx context.Context, yield func(token string) bool) error {
	if m.Client == nil {
		return cerror.Annotate(cerror.ErrSourceUnavailable, m.Name()+": nil client")
	}
	return unavailable(m.Name(), m.Client.ScanColumn(ctx, m.Table, m.Column, func(value string) bool {
		return Tokenize(value, yield)
	}))
}

// context errors are kept,everything else means the source can't be read
func unavailable(name string, e error) error {
	if e == nil {
		return nil
	}
	if errors.Is(e, context.Canceled) || errors.Is(e, context.DeadlineExceeded) {
		return cerror.ConvertStdError(e)
	}
	return cerror.Annotate(cerror.ErrSourceUnavailable, name+": "+e.Error())
}
