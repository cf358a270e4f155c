package config

import (
	"testing"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/stretchr/testify/require"
)

func TestDiscoverDBHost(t *testing.T) {
	t.Setenv("DB_PORT_27017_TCP_ADDR", "")
	t.Setenv("DB_1_PORT_27017_TCP_ADDR", "")
	require.Equal(t, "localhost", DiscoverDBHost())

	t.Setenv("DB_1_PORT_27017_TCP_ADDR", "10.0.0.2")
	require.Equal(t, "10.0.0.2", DiscoverDBHost())

	t.Setenv("DB_PORT_27017_TCP_ADDR", " 10.0.0.1 ")
	require.Equal(t, "10.0.0.1", DiscoverDBHost())
}

func TestDBAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		port int
		want string
	}{
		{host: "localhost", port: 27017, want: "localhost:27017"},
		{host: "mongo:28000", port: 27017, want: "mongo:28000"},
		{host: "10.0.0.1", port: 1234, want: "10.0.0.1:1234"},
		{host: "::1", port: 27017, want: "[::1]:27017"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, DBAddr(tt.host, tt.port), tt.host)
	}
}

func TestSetupDefaultsKeepsConfigured(t *testing.T) {
	gconfig.Shared.Set("settings.db.blog.addr", "db.internal")
	gconfig.Shared.Set("settings.db.blog.collection", "articles")
	t.Cleanup(func() {
		gconfig.Shared.Set("settings.db.blog.addr", nil)
		gconfig.Shared.Set("settings.db.blog.collection", nil)
	})

	SetupDefaults()

	require.Equal(t, "db.internal", gconfig.Shared.GetString("settings.db.blog.addr"))
	require.Equal(t, "articles", gconfig.Shared.GetString("settings.db.blog.collection"))
	require.Equal(t, DefaultDBPort, gconfig.Shared.GetInt("settings.db.blog.port"))
	require.Equal(t, DefaultDBName, gconfig.Shared.GetString("settings.db.blog.db"))
}
