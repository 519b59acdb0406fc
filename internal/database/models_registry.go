package database

import (
	"fmt"

	"network/internal/models"

	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Follow{},
		&models.Post{},
		&models.PostLike{},
	}
}

// PendingTables returns the tables of Models that do not exist yet.
func PendingTables(db *gorm.DB) ([]string, error) {
	pending := []string{}
	for _, m := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", m, err)
		}
		if !db.Migrator().HasTable(stmt.Schema.Table) {
			pending = append(pending, stmt.Schema.Table)
		}
	}
	return pending, nil
}
