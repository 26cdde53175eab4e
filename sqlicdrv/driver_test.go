package sqlicdrv

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver(t *testing.T) {
	newDB := func(t *testing.T) *sql.DB {
		t.Helper()
		// A single connection so every statement sees the same in-memory
		// database.
		db := sql.OpenDB(NewConnector(":memory:"))
		db.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = db.Close() })
		return db
	}

	t.Run("Registered", func(t *testing.T) {
		assert.Contains(t, sql.Drivers(), "sqlic")
	})

	t.Run("ExecAndQuery", func(t *testing.T) {
		db := newDB(t)

		_, err := db.Exec("CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT, active BOOLEAN)")
		require.NoError(t, err)

		email := uuid.NewString() + "@example.com"
		res, err := db.Exec("INSERT INTO users (email, active) VALUES (?, ?)", email, true)
		require.NoError(t, err)

		lastID, err := res.LastInsertId()
		assert.NoError(t, err)
		assert.Equal(t, int64(1), lastID)

		affected, err := res.RowsAffected()
		assert.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		var gotEmail string
		var gotActive bool
		err = db.QueryRow("SELECT email, active FROM users WHERE id = ?", lastID).Scan(&gotEmail, &gotActive)
		require.NoError(t, err)
		assert.Equal(t, email, gotEmail)
		assert.True(t, gotActive)
	})

	t.Run("QueryMultipleRows", func(t *testing.T) {
		db := newDB(t)

		_, err := db.Exec("CREATE TABLE nums (n INTEGER)")
		require.NoError(t, err)
		for i := 1; i <= 3; i++ {
			_, err = db.Exec("INSERT INTO nums (n) VALUES (?)", i)
			require.NoError(t, err)
		}

		rows, err := db.Query("SELECT n FROM nums ORDER BY n")
		require.NoError(t, err)
		defer rows.Close()

		var got []int
		for rows.Next() {
			var n int
			require.NoError(t, rows.Scan(&n))
			got = append(got, n)
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("NullValues", func(t *testing.T) {
		db := newDB(t)

		_, err := db.Exec("CREATE TABLE opt (val TEXT)")
		require.NoError(t, err)
		_, err = db.Exec("INSERT INTO opt (val) VALUES (?)", nil)
		require.NoError(t, err)

		var val sql.NullString
		require.NoError(t, db.QueryRow("SELECT val FROM opt").Scan(&val))
		assert.False(t, val.Valid)
	})

	t.Run("Transaction", func(t *testing.T) {
		db := newDB(t)

		_, err := db.Exec("CREATE TABLE tx_test (val TEXT)")
		require.NoError(t, err)

		tx, err := db.Begin()
		require.NoError(t, err)
		_, err = tx.Exec("INSERT INTO tx_test (val) VALUES ('kept')")
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		tx, err = db.Begin()
		require.NoError(t, err)
		_, err = tx.Exec("INSERT INTO tx_test (val) VALUES ('discarded')")
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM tx_test").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("PostConnectQueries", func(t *testing.T) {
		db := sql.OpenDB(NewConnector(":memory:", WithPostConnectQueries([]string{
			"PRAGMA foreign_keys = ON",
		})))
		db.SetMaxOpenConns(1)
		defer db.Close()

		var enabled int
		require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled)
	})

	t.Run("PreparedReuse", func(t *testing.T) {
		db := newDB(t)

		_, err := db.Exec("CREATE TABLE reuse (val TEXT)")
		require.NoError(t, err)

		stmt, err := db.Prepare("INSERT INTO reuse (val) VALUES (?)")
		require.NoError(t, err)
		defer stmt.Close()

		for range 3 {
			_, err = stmt.Exec(uuid.NewString())
			require.NoError(t, err)
		}

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM reuse").Scan(&count))
		assert.Equal(t, 3, count)
	})
}
