package bench

import (
	"database/sql"
	"os"
	"path"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sqlic/sqlic/internal/log"
	"github.com/sqlic/sqlic/sqlicdrv"
)

func createMattnDriver(dir string, logger log.Logger) (*sql.DB, error) {
	dbPath := path.Join(dir, "mattn", "bench.db")

	if err := os.MkdirAll(path.Dir(dbPath), 0755); err != nil {
		return nil, err
	}
	logger.Info("created benchmark database", log.KV{
		"driver": "mattn/go-sqlite3",
		"path":   dbPath,
	})

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func createSqlicDriver(dir string, logger log.Logger) (*sql.DB, error) {
	dbPath := path.Join(dir, "sqlic", "bench.db")

	if err := os.MkdirAll(path.Dir(dbPath), 0755); err != nil {
		return nil, err
	}
	logger.Info("created benchmark database", log.KV{
		"driver": "sqlic",
		"path":   dbPath,
	})

	db := sql.OpenDB(sqlicdrv.NewConnector(dbPath))
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
