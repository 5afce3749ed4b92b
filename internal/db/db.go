package db

import (
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/y1kuo/liveboard/internal/event"
)

// Connect opens the event store. A DSN containing "@tcp(" selects the mysql
// driver; anything else is treated as a sqlite path (the collector's default
// deployment writes a local sqlite file).
func Connect(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	sqliteMode := !strings.Contains(dsn, "@tcp(")
	if sqliteMode {
		dial = sqlite.Open(dsn)
	} else {
		dial = mysql.Open(dsn)
	}

	gdb, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if sqliteMode {
		// sqlite serializes writers; a single pooled connection avoids
		// table-lock errors under concurrent sub-queries.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return gdb, nil
}

// Migrate creates the event tables when they do not exist yet.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&event.Danmaku{},
		&event.Gift{},
		&event.Guard{},
		&event.SuperChat{},
		&event.LiveMarker{},
	)
}
