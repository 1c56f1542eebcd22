package database

import (
	"net/url"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConnString_EscapesCredentials(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
	}{
		{name: "plain", user: "crew", password: "secret"},
		{name: "reserved characters", user: "crew@ops", password: "p@ss:w/rd?#%"},
		{name: "spaces", user: "ground crew", password: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DBConfig{Host: "db.internal", Port: 5432, User: tt.user, Password: tt.password, Database: "crewbot"}

			poolCfg, err := pgxpool.ParseConfig(buildConnString(cfg))
			require.NoError(t, err)
			assert.Equal(t, tt.user, poolCfg.ConnConfig.User)
			assert.Equal(t, tt.password, poolCfg.ConnConfig.Password)
			assert.Equal(t, "db.internal", poolCfg.ConnConfig.Host)
			assert.Equal(t, uint16(5432), poolCfg.ConnConfig.Port)
			assert.Equal(t, "crewbot", poolCfg.ConnConfig.Database)
		})
	}
}

func TestPostgresURL(t *testing.T) {
	dsn := postgresURL("crew", "p@ss:w/rd", "::1", 5433, "crewbot", url.Values{"sslmode": {"disable"}})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "crew", u.User.Username())
	password, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss:w/rd", password)
	assert.Equal(t, "::1", u.Hostname())
	assert.Equal(t, "5433", u.Port())
	assert.Equal(t, "/crewbot", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}
