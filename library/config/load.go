// Package config loads settings into the shared go-config store.
package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/blog-publisher/library/log"
)

const (
	// DefaultDBPort is the mongodb port used when the address carries none.
	DefaultDBPort = 27017
	// DefaultDBName is the database holding the posts collection.
	DefaultDBName = "blog"
	// DefaultPostsCol is the collection every post is stored in.
	DefaultPostsCol = "posts"
	// DefaultConnectTimeoutSec bounds the startup connect and ping.
	DefaultConnectTimeoutSec = 30
)

// dbAddrEnvKeys are the linked-container variables that carry the mongodb host,
// checked in order.
var dbAddrEnvKeys = []string{
	"DB_PORT_27017_TCP_ADDR",
	"DB_1_PORT_27017_TCP_ADDR",
}

// LoadFromFile loads yaml settings from cfgPath.
// An empty path means run on defaults and environment only.
func LoadFromFile(cfgPath string) {
	if cfgPath == "" {
		log.Logger.Info("no configuration file, use defaults")
		return
	}

	gconfig.Shared.Set("cfg_dir", filepath.Dir(cfgPath))
	if err := gconfig.Shared.LoadFromFile(cfgPath); err != nil {
		log.Logger.Panic("load configuration",
			zap.Error(err),
			zap.String("config", cfgPath))
	}

	log.Logger.Info("load configuration",
		zap.String("config", cfgPath))
}

// SetupDefaults fills every blog setting that is still unset.
func SetupDefaults() {
	setDefault("settings.db.blog.addr", DiscoverDBHost())
	setDefault("settings.db.blog.port", DefaultDBPort)
	setDefault("settings.db.blog.db", DefaultDBName)
	setDefault("settings.db.blog.collection", DefaultPostsCol)
	setDefault("settings.db.blog.connect_timeout_sec", DefaultConnectTimeoutSec)
	setDefault("settings.web.render_markdown", false)
	setDefault("settings.web.json.canonical", false)
	setDefault("settings.web.metric", true)
}

func setDefault(key string, val any) {
	if gconfig.Shared.Get(key) == nil {
		gconfig.Shared.Set(key, val)
	}
}

// DiscoverDBHost returns the mongodb host published by a linked container,
// or localhost when none is set.
func DiscoverDBHost() string {
	for _, key := range dbAddrEnvKeys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}

	return "localhost"
}

// DBAddr joins host and port unless host already carries a port.
func DBAddr(host string, port int) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}

	return net.JoinHostPort(host, strconv.Itoa(port))
}
