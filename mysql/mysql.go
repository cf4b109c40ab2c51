package mysql

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/chenjie199234/Dictionary/util/ctime"

	gmysql "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Config struct {
	//the mysql instance's name
	MysqlName string `json:"mysql_name"`
	//only support tcp socket
	//ip:port or host:port
	Addr     string `json:"addr"`
	UserName string `json:"user_name"`
	Password string `json:"password"`
	//default utf8mb4
	Charset string `json:"charset"`
	//default utf8mb4_general_ci
	Collation string `json:"collation"`
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
	*sql.DB
	name string
	addr string
}

var ErrIdentifier = errors.New("[mysql] table or column name illegal")

// if tlsc is not nil,the tls will be actived
func NewMysql(c *Config, tlsc *tls.Config) (*Client, error) {
	if c.Addr == "" {
		return nil, errors.New("[mysql] missing addr")
	}
	gmysqlc := gmysql.NewConfig()
	gmysqlc.Net = "tcp"
	gmysqlc.Addr = c.Addr
	if c.UserName != "" && c.Password != "" {
		gmysqlc.User = c.UserName
		gmysqlc.Passwd = c.Password
		gmysqlc.AllowNativePasswords = true
	}
	if c.Charset != "" {
		gmysqlc.Params = map[string]string{"charset": c.Charset}
	} else {
		gmysqlc.Params = map[string]string{"charset": "utf8mb4"}
	}
	if c.Collation != "" {
		gmysqlc.Collation = c.Collation
	} else {
		gmysqlc.Collation = "utf8mb4_general_ci"
	}
	gmysqlc.TLS = tlsc
	if c.DialTimeout <= 0 {
		gmysqlc.Timeout = time.Second * 5
	} else {
		gmysqlc.Timeout = c.DialTimeout.StdDuration()
	}
	if c.IOTimeout > 0 {
		gmysqlc.ReadTimeout = c.IOTimeout.StdDuration()
		gmysqlc.WriteTimeout = c.IOTimeout.StdDuration()
	}
	gmysqlc.CheckConnLiveness = true
	connector, e := gmysql.NewConnector(gmysqlc)
	if e != nil {
		return nil, e
	}
	db := sql.OpenDB(connector)
	if c.MaxOpen == 0 {
		db.SetMaxOpenConns(100)
	} else {
		db.SetMaxOpenConns(int(c.MaxOpen))
	}
	db.SetConnMaxIdleTime(c.MaxConnIdletime.StdDuration())
	ctx, cancel := context.WithTimeout(context.Background(), gmysqlc.Timeout)
	defer cancel()
	if e = db.PingContext(ctx); e != nil {
		db.Close()
		return nil, e
	}
	return &Client{DB: db, name: c.MysqlName, addr: c.Addr}, nil
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// quote checks and backquotes a table or column name,db.table is allowed
func quote(name string, dotted bool) (string, bool) {
	pieces := []string{name}
	if dotted {
		pieces = strings.Split(name, ".")
		if len(pieces) > 2 {
			return "", false
		}
	}
	for i, piece := range pieces {
		if !identifier.MatchString(piece) {
			return "", false
		}
		pieces[i] = "`" + piece + "`"
	}
	return strings.Join(pieces, "."), true
}

// ScanColumn calls yield with every non null value of column in table
// iterate stops when yield returns false
func (c *Client) ScanColumn(ctx context.Context, table, column string, yield func(value string) bool) (e error) {
	qtable, ok := quote(table, true)
	if !ok {
		return ErrIdentifier
	}
	qcolumn, ok := quote(column, false)
	if !ok {
		return ErrIdentifier
	}
	ctx, span := otel.Tracer("").Start(
		ctx,
		"call mysql",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("server.name", c.name),
			attribute.String("server.addr", c.addr),
			attribute.String("mysql.cmd", "Query"),
		),
	)
	defer func() {
		if e != nil {
			span.SetStatus(codes.Error, e.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()
	rows, e := c.QueryContext(ctx, "SELECT "+qcolumn+" FROM "+qtable+" WHERE "+qcolumn+" IS NOT NULL")
	if e != nil {
		return e
	}
	defer rows.Close()
	for rows.Next() {
		var value string
		if e = rows.Scan(&value); e != nil {
			return e
		}
		if !yield(value) {
			return nil
		}
	}
	return rows.Err()
}
