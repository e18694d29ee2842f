package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NathJo212/Overd-OSE-sub001/core"
)

func TestURL(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{
		Engine:        "postgres",
		Host:          "db",
		Port:          5432,
		Name:          "stages",
		User:          "app",
		Password:      "secret",
		AdminUser:     "postgres",
		AdminPassword: "root",
	}}

	assert.Equal(t, "postgres://app:secret@db:5432/stages?sslmode=require&timezone=utc", URL("stages", false, conf))
	assert.Equal(t, "postgres://postgres:root@db:5432/postgres?sslmode=require&timezone=utc", URL("postgres", true, conf))

	conf.Database.DisableTLS = true
	conf.Database.AdminUser = ""
	assert.Equal(t, "postgres://app:secret@db:5432/postgres?sslmode=disable&timezone=utc", URL("postgres", true, conf))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir(migrationsDir)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
}
