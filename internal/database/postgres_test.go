package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/podium-picks/internal/config"
)

func TestConnString(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: 5433, User: "picks", Password: "secret", Name: "league"}

	dsn := connString(cfg)

	assert.True(t, strings.HasPrefix(dsn, "host=db port=5433 user=picks password=secret dbname=league"))
	assert.Contains(t, dsn, "sslmode=disable")

	cfg.SSLMode = "require"
	assert.Contains(t, connString(cfg), "sslmode=require")
}
