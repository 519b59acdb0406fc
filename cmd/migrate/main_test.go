package main

import (
	"testing"

	"network/internal/config"
	"network/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_AutoCreatesProductionSchema(t *testing.T) {
	db, err := database.Connect(&config.Config{
		Env:        "production",
		DBDriver:   "sqlite",
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)

	pending, err := database.PendingTables(db)
	require.NoError(t, err)
	assert.Len(t, pending, len(database.Models()))

	require.NoError(t, execute(db, "status"))
	require.NoError(t, execute(db, "auto"))

	pending, err = database.PendingTables(db)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.True(t, db.Migrator().HasTable("posts"))
}

func TestExecute_UnknownCommand(t *testing.T) {
	db, err := database.Connect(&config.Config{Env: "test", DBDriver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Error(t, execute(db, "down"))
}
