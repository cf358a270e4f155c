// Package mongo provides a wrapper for the MongoDB client.
package mongo

import (
	"context"
	"net/url"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Laisky/blog-publisher/library/log"
)

const defaultTimeout = 30 * time.Second

// DB is a long-lived handle to one database.
// It is safe for concurrent use; pooling is left to the driver.
type DB interface {
	Close(ctx context.Context) error
	Ping(ctx context.Context) error
	GetCol(colName string) *mongo.Collection
	CurrentDB() *mongo.Database
}

// DialInfo defines the MongoDB connection information.
type DialInfo struct {
	// Addr is host:port
	Addr,
	DBName,
	User,
	Pwd string
	AuthDB string
	// Timeout bounds the initial connect and ping, default 30s
	Timeout time.Duration
}

type db struct {
	cli      *mongo.Client
	dialInfo DialInfo
}

// seams replaced by tests
var (
	connectMongo = func(ctx context.Context, clientOpts *options.ClientOptions) (*mongo.Client, error) {
		return mongo.Connect(ctx, clientOpts)
	}
	pingMongo = func(ctx context.Context, cli *mongo.Client) error {
		return cli.Ping(ctx, readpref.Primary())
	}
	disconnectMongo = func(ctx context.Context, cli *mongo.Client) error {
		return cli.Disconnect(ctx)
	}
)

// buildMongoURI builds a MongoDB connection URI from the given dial info.
func buildMongoURI(dialInfo DialInfo) string {
	uri := &url.URL{
		Scheme: "mongodb",
		Host:   dialInfo.Addr,
		Path:   "/" + dialInfo.DBName,
	}
	if dialInfo.User != "" || dialInfo.Pwd != "" {
		uri.User = url.UserPassword(dialInfo.User, dialInfo.Pwd)
	}
	if dialInfo.AuthDB != "" {
		query := url.Values{}
		query.Set("authSource", dialInfo.AuthDB)
		uri.RawQuery = query.Encode()
	}

	return uri.String()
}

// NewDB connects once and verifies the server is reachable,
// so a wrong address fails at startup instead of on the first request.
func NewDB(ctx context.Context, dialInfo DialInfo) (DB, error) {
	if dialInfo.Addr == "" {
		return nil, errors.New("mongodb addr is empty")
	}
	if dialInfo.Timeout <= 0 {
		dialInfo.Timeout = defaultTimeout
	}

	log.Logger.Info("try to connect to mongodb",
		zap.String("addr", dialInfo.Addr),
		zap.String("db", dialInfo.DBName),
	)

	ctx, cancel := context.WithTimeout(ctx, dialInfo.Timeout)
	defer cancel()

	cli, err := connectMongo(ctx, options.Client().ApplyURI(buildMongoURI(dialInfo)))
	if err != nil {
		return nil, errors.Wrapf(err, "connect db `%s`", dialInfo.Addr)
	}

	if err = pingMongo(ctx, cli); err != nil {
		_ = disconnectMongo(context.Background(), cli)
		return nil, errors.Wrapf(err, "ping db `%s`", dialInfo.Addr)
	}

	log.Logger.Info("connected to mongodb", zap.String("addr", dialInfo.Addr))
	return &db{cli: cli, dialInfo: dialInfo}, nil
}

// CurrentDB returns the database named in the dial info.
func (d *db) CurrentDB() *mongo.Database {
	return d.cli.Database(d.dialInfo.DBName)
}

// GetCol returns a collection handle by name.
func (d *db) GetCol(colName string) *mongo.Collection {
	return d.CurrentDB().Collection(colName)
}

// Ping checks the primary is reachable.
func (d *db) Ping(ctx context.Context) error {
	if err := pingMongo(ctx, d.cli); err != nil {
		return errors.Wrap(err, "ping db")
	}

	return nil
}

// Close disconnects the client, bounded by defaultTimeout.
func (d *db) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := disconnectMongo(ctx, d.cli); err != nil {
		return errors.Wrap(err, "disconnect db")
	}

	return nil
}
