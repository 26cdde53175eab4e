package sqlic

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn(t *testing.T) {
	t.Run("OpenClose", func(t *testing.T) {
		conn, err := OpenInMemory()
		assert.NoError(t, err)
		assert.NotNil(t, conn)
		assert.NoError(t, conn.Close())
	})

	t.Run("CloseTwice", func(t *testing.T) {
		conn, err := OpenInMemory()
		assert.NoError(t, err)
		assert.NoError(t, conn.Close())
		assert.Error(t, conn.Close())
	})

	t.Run("OpenFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")
		conn, err := Open(path)
		require.NoError(t, err)
		assert.NoError(t, conn.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)"))
		assert.NoError(t, conn.Close())

		conn, err = Open(path)
		require.NoError(t, err)
		defer conn.Close()
		assert.NoError(t, conn.Exec("INSERT INTO t (id) VALUES (1)"))
	})

	t.Run("OpenInvalidPath", func(t *testing.T) {
		conn, err := Open(filepath.Join(t.TempDir(), "no-such-dir", "test.db"))
		assert.Nil(t, conn)
		require.Error(t, err)

		var openErr *OpenError
		require.ErrorAs(t, err, &openErr)
		assert.NotZero(t, openErr.Code)
		assert.NotEmpty(t, openErr.Message)
	})

	t.Run("ExecMultipleStatements", func(t *testing.T) {
		conn, err := OpenInMemory()
		require.NoError(t, err)
		defer conn.Close()

		err = conn.Exec(`
			CREATE TABLE multi (id INTEGER PRIMARY KEY, val TEXT);
			INSERT INTO multi (val) VALUES ('one');
			INSERT INTO multi (val) VALUES ('two');
		`)
		assert.NoError(t, err)

		stmt, err := conn.Prepare("SELECT COUNT(*) FROM multi")
		require.NoError(t, err)
		defer stmt.Finalize()

		hasRow, err := stmt.Step()
		assert.NoError(t, err)
		assert.True(t, hasRow)
		assert.Equal(t, int64(2), stmt.ColumnInt64(0))
	})

	t.Run("ExecInvalid", func(t *testing.T) {
		conn, err := OpenInMemory()
		require.NoError(t, err)
		defer conn.Close()

		err = conn.Exec("NOT VALID SQL")
		require.Error(t, err)

		var execErr *ExecError
		require.ErrorAs(t, err, &execErr)
		assert.NotZero(t, execErr.Code)
		assert.NotEmpty(t, execErr.Message)
	})

	t.Run("PrepareInvalid", func(t *testing.T) {
		conn, err := OpenInMemory()
		require.NoError(t, err)
		defer conn.Close()

		stmt, err := conn.Prepare("SELEKT * FROM nothing")
		assert.Nil(t, stmt)
		require.Error(t, err)

		var prepErr *PrepareError
		require.ErrorAs(t, err, &prepErr)
		assert.NotZero(t, prepErr.Code)
		assert.NotEmpty(t, prepErr.Message)
	})

	t.Run("Transactions", func(t *testing.T) {
		conn, err := OpenInMemory()
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.Exec("CREATE TABLE tx_test (id INTEGER PRIMARY KEY, val TEXT)"))

		t.Run("CommitKeepsRows", func(t *testing.T) {
			assert.True(t, conn.AutocommitEnabled())
			require.NoError(t, conn.Begin())
			assert.False(t, conn.AutocommitEnabled())

			for range 5 {
				require.NoError(t, conn.Exec("INSERT INTO tx_test (val) VALUES ('"+uuid.NewString()+"')"))
			}
			require.NoError(t, conn.Commit())
			assert.True(t, conn.AutocommitEnabled())
			assert.Equal(t, int64(5), countRows(t, conn, "tx_test"))
		})

		t.Run("RollbackDiscardsRows", func(t *testing.T) {
			require.NoError(t, conn.Begin())
			require.NoError(t, conn.Exec("INSERT INTO tx_test (val) VALUES ('gone')"))
			require.NoError(t, conn.Rollback())
			assert.Equal(t, int64(5), countRows(t, conn, "tx_test"))
		})
	})

	t.Run("LastInsertRowIDAndChanges", func(t *testing.T) {
		conn, err := OpenInMemory()
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.Exec("CREATE TABLE counters (id INTEGER PRIMARY KEY, val TEXT)"))
		require.NoError(t, conn.Exec("INSERT INTO counters (val) VALUES ('a')"))
		assert.Equal(t, int64(1), conn.LastInsertRowID())
		assert.Equal(t, int64(1), conn.Changes())

		require.NoError(t, conn.Exec("INSERT INTO counters (val) VALUES ('b')"))
		assert.Equal(t, int64(2), conn.LastInsertRowID())

		require.NoError(t, conn.Exec("UPDATE counters SET val = 'x'"))
		assert.Equal(t, int64(2), conn.Changes())
	})
}

// countRows returns the row count of the given table.
func countRows(t *testing.T, conn *Conn, table string) int64 {
	t.Helper()

	stmt, err := conn.Prepare("SELECT COUNT(*) FROM " + table)
	require.NoError(t, err)
	defer stmt.Finalize()

	hasRow, err := stmt.Step()
	require.NoError(t, err)
	require.True(t, hasRow)
	return stmt.ColumnInt64(0)
}
