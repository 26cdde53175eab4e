package bench

import "database/sql"

// recreateSchema drops all tables and recreates them.
func recreateSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,

		`DROP TABLE IF EXISTS articles`,
		`DROP TABLE IF EXISTS users`,

		`CREATE TABLE users (
			id INTEGER PRIMARY KEY NOT NULL,
			created INTEGER NOT NULL,
			email TEXT NOT NULL,
			active INTEGER NOT NULL
		)`,
		`CREATE INDEX users_created ON users(created)`,

		`CREATE TABLE articles (
			id INTEGER PRIMARY KEY NOT NULL,
			created INTEGER NOT NULL,
			userId INTEGER NOT NULL REFERENCES users(id),
			text TEXT NOT NULL
		)`,
		`CREATE INDEX articles_created ON articles(created)`,
		`CREATE INDEX articles_userId ON articles(userId)`,
	}

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}

	return nil
}
