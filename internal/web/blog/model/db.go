package model

import (
	"context"
	"time"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/blog-publisher/library/config"
	"github.com/Laisky/blog-publisher/library/db/mongo"
	"github.com/Laisky/blog-publisher/library/log"
)

var (
	// BlogDB is acquired once at startup and shared by every request.
	BlogDB mongo.DB
)

// Initialize connects BlogDB, panics on failure
func Initialize(ctx context.Context) {
	var err error
	if BlogDB, err = mongo.NewDB(ctx,
		mongo.DialInfo{
			Addr: config.DBAddr(
				gconfig.Shared.GetString("settings.db.blog.addr"),
				gconfig.Shared.GetInt("settings.db.blog.port"),
			),
			DBName:  gconfig.Shared.GetString("settings.db.blog.db"),
			User:    gconfig.Shared.GetString("settings.db.blog.user"),
			Pwd:     gconfig.Shared.GetString("settings.db.blog.pwd"),
			AuthDB:  gconfig.Shared.GetString("settings.db.blog.auth_db"),
			Timeout: time.Duration(gconfig.Shared.GetInt("settings.db.blog.connect_timeout_sec")) * time.Second,
		},
	); err != nil {
		log.Logger.Panic("connect to blog db", zap.Error(err))
	}
}
