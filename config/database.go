package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DatabaseConfig struct {
	Path string
}

func NewDatabaseConfig(path string) *DatabaseConfig {
	return &DatabaseConfig{Path: path}
}

func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", c.Path)
}

// ConnectDatabase opens the activity journal database.
func ConnectDatabase(path string) (*sql.DB, error) {
	config := NewDatabaseConfig(path)
	db, err := sql.Open("sqlite", config.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	return db, nil
}
