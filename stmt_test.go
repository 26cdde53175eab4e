package sqlic

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStmt(t *testing.T) {
	newConn := func(t *testing.T) *Conn {
		t.Helper()
		conn, err := OpenInMemory()
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}

	t.Run("RoundTripText", func(t *testing.T) {
		conn := newConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE texts (id INTEGER PRIMARY KEY, val TEXT)"))

		inserted := []string{uuid.NewString(), "", "hola", "with spaces and 'quotes'"}
		insert, err := conn.Prepare("INSERT INTO texts (val) VALUES (?)")
		require.NoError(t, err)
		for _, val := range inserted {
			require.NoError(t, insert.BindAll(val))
			_, err = insert.Step()
			require.NoError(t, err)
			require.NoError(t, insert.Reset())
		}
		require.NoError(t, insert.Finalize())

		sel, err := conn.Prepare("SELECT val FROM texts ORDER BY id")
		require.NoError(t, err)
		defer sel.Finalize()

		for _, want := range inserted {
			hasRow, err := sel.Step()
			require.NoError(t, err)
			require.True(t, hasRow)
			assert.Equal(t, want, sel.ColumnText(0))
			assert.False(t, sel.ColumnIsNull(0))
		}
	})

	t.Run("NullBindReadBack", func(t *testing.T) {
		conn := newConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE nulls (val TEXT)"))

		insert, err := conn.Prepare("INSERT INTO nulls (val) VALUES (?)")
		require.NoError(t, err)
		require.NoError(t, insert.Bind(1, nil))
		_, err = insert.Step()
		require.NoError(t, err)
		require.NoError(t, insert.Finalize())

		sel, err := conn.Prepare("SELECT val FROM nulls")
		require.NoError(t, err)
		defer sel.Finalize()

		hasRow, err := sel.Step()
		require.NoError(t, err)
		require.True(t, hasRow)

		assert.True(t, sel.ColumnIsNull(0))
		assert.Nil(t, sel.ColumnValue(0))
		assert.Nil(t, sel.ColumnBlob(0))
		assert.Equal(t, "", sel.ColumnText(0))
		// NULL coerces to zero for the numeric accessors.
		assert.Equal(t, 0, sel.ColumnInt(0))
		assert.Equal(t, int64(0), sel.ColumnInt64(0))
		assert.Equal(t, float64(0), sel.ColumnFloat64(0))
	})

	t.Run("BindTypes", func(t *testing.T) {
		conn := newConn(t)

		sel, err := conn.Prepare("SELECT ?, ?, ?, ?, ?")
		require.NoError(t, err)
		defer sel.Finalize()

		blob := []byte{0x00, 0x01, 0xfe, 0xff}
		require.NoError(t, sel.BindAll(int64(42), 3.14, true, "text", blob))

		hasRow, err := sel.Step()
		require.NoError(t, err)
		require.True(t, hasRow)

		assert.Equal(t, TypeInteger, sel.ColumnType(0))
		assert.Equal(t, int64(42), sel.ColumnInt64(0))
		assert.Equal(t, 3.14, sel.ColumnFloat64(1))
		assert.Equal(t, int64(1), sel.ColumnInt64(2))
		assert.Equal(t, "text", sel.ColumnText(3))
		assert.Equal(t, blob, sel.ColumnBlob(4))
	})

	t.Run("BindCopiesValue", func(t *testing.T) {
		conn := newConn(t)

		sel, err := conn.Prepare("SELECT ?")
		require.NoError(t, err)
		defer sel.Finalize()

		val := []byte("mutable")
		require.NoError(t, sel.Bind(1, val))
		// The binding must hold a durable copy, not a view of this slice.
		for i := range val {
			val[i] = 'x'
		}

		hasRow, err := sel.Step()
		require.NoError(t, err)
		require.True(t, hasRow)
		assert.Equal(t, []byte("mutable"), sel.ColumnBlob(0))
	})

	t.Run("UnsupportedBindType", func(t *testing.T) {
		conn := newConn(t)

		sel, err := conn.Prepare("SELECT ?")
		require.NoError(t, err)
		defer sel.Finalize()

		var bindErr *BindError
		require.ErrorAs(t, sel.Bind(1, struct{}{}), &bindErr)
	})

	t.Run("ResetRetainsBindings", func(t *testing.T) {
		conn := newConn(t)
		require.NoError(t, conn.Exec(`
			CREATE TABLE pets (id INTEGER PRIMARY KEY, name TEXT, kind TEXT);
			INSERT INTO pets (name, kind) VALUES ('rex', 'dog');
			INSERT INTO pets (name, kind) VALUES ('tom', 'cat');
			INSERT INTO pets (name, kind) VALUES ('ace', 'dog');
		`))

		sel, err := conn.Prepare("SELECT name FROM pets WHERE kind = ? ORDER BY id")
		require.NoError(t, err)
		defer sel.Finalize()

		require.NoError(t, sel.BindAll("dog"))
		readAll := func() []string {
			var names []string
			for {
				hasRow, err := sel.Step()
				require.NoError(t, err)
				if !hasRow {
					return names
				}
				names = append(names, sel.ColumnText(0))
			}
		}

		assert.Equal(t, []string{"rex", "ace"}, readAll())
		require.NoError(t, sel.Reset())
		// Bindings survive the reset and the cursor starts over.
		assert.Equal(t, []string{"rex", "ace"}, readAll())
	})

	t.Run("BindAllClearsPriorBindings", func(t *testing.T) {
		conn := newConn(t)

		sel, err := conn.Prepare("SELECT ?1, ?2")
		require.NoError(t, err)
		defer sel.Finalize()

		require.NoError(t, sel.Bind(1, "a"))
		require.NoError(t, sel.BindAll("b", "c"))

		hasRow, err := sel.Step()
		require.NoError(t, err)
		require.True(t, hasRow)
		assert.Equal(t, "b", sel.ColumnText(0))
		assert.Equal(t, "c", sel.ColumnText(1))
	})

	t.Run("ClearBindingsYieldsNulls", func(t *testing.T) {
		conn := newConn(t)

		sel, err := conn.Prepare("SELECT ?")
		require.NoError(t, err)
		defer sel.Finalize()

		require.NoError(t, sel.Bind(1, "bound"))
		require.NoError(t, sel.ClearBindings())

		hasRow, err := sel.Step()
		require.NoError(t, err)
		require.True(t, hasRow)
		assert.True(t, sel.ColumnIsNull(0))
	})

	t.Run("BindName", func(t *testing.T) {
		conn := newConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE named (id INTEGER PRIMARY KEY, val TEXT)"))

		// All the placeholder variants: https://www.sqlite.org/lang_expr.html#varparam
		for _, tc := range []struct {
			placeholder string
			name        string
		}{
			{":val", ":val"},
			{":val", "val"},
			{"@val", "@val"},
			{"@val", "val"},
			{"$val", "$val"},
			{"$val", "val"},
		} {
			value := uuid.NewString()

			insert, err := conn.Prepare(fmt.Sprintf("INSERT INTO named (val) VALUES (%s)", tc.placeholder))
			require.NoError(t, err)
			require.NoError(t, insert.BindName(tc.name, value))
			_, err = insert.Step()
			require.NoError(t, err)
			require.NoError(t, insert.Finalize())

			sel, err := conn.Prepare("SELECT val FROM named ORDER BY id DESC LIMIT 1")
			require.NoError(t, err)
			hasRow, err := sel.Step()
			require.NoError(t, err)
			require.True(t, hasRow)
			assert.Equal(t, value, sel.ColumnText(0))
			require.NoError(t, sel.Finalize())
		}
	})

	t.Run("BindNameUnresolvedIsNoOp", func(t *testing.T) {
		conn := newConn(t)

		sel, err := conn.Prepare("SELECT :known")
		require.NoError(t, err)
		defer sel.Finalize()

		assert.NoError(t, sel.BindName("unknown", "ignored"))
		require.NoError(t, sel.BindName("known", "kept"))

		hasRow, err := sel.Step()
		require.NoError(t, err)
		require.True(t, hasRow)
		assert.Equal(t, "kept", sel.ColumnText(0))
	})

	t.Run("BindAllNamed", func(t *testing.T) {
		conn := newConn(t)

		sel, err := conn.Prepare("SELECT :a, :b")
		require.NoError(t, err)
		defer sel.Finalize()

		require.NoError(t, sel.BindAllNamed(map[string]any{
			"a":       "first",
			"b":       "second",
			"unknown": "skipped",
		}))

		hasRow, err := sel.Step()
		require.NoError(t, err)
		require.True(t, hasRow)
		assert.Equal(t, "first", sel.ColumnText(0))
		assert.Equal(t, "second", sel.ColumnText(1))
	})

	t.Run("ColumnMetadata", func(t *testing.T) {
		conn := newConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE meta (bar INTEGER, baz TEXT)"))

		sel, err := conn.Prepare("SELECT bar, baz FROM meta")
		require.NoError(t, err)
		defer sel.Finalize()

		assert.Equal(t, 2, sel.ColumnCount())
		assert.Equal(t, "bar", sel.ColumnName(0))
		assert.Equal(t, "baz", sel.ColumnName(1))
	})

	t.Run("TypeCoercion", func(t *testing.T) {
		conn := newConn(t)

		sel, err := conn.Prepare("SELECT '123'")
		require.NoError(t, err)
		defer sel.Finalize()

		hasRow, err := sel.Step()
		require.NoError(t, err)
		require.True(t, hasRow)
		// The engine's own coercion rules apply, not ours.
		assert.Equal(t, TypeText, sel.ColumnType(0))
		assert.Equal(t, int64(123), sel.ColumnInt64(0))
		assert.Equal(t, float64(123), sel.ColumnFloat64(0))
	})

	t.Run("LargeBlob", func(t *testing.T) {
		conn := newConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE blobs (data BLOB)"))

		largeData := make([]byte, 1024*1024)
		for i := range largeData {
			largeData[i] = byte(i % 256)
		}

		insert, err := conn.Prepare("INSERT INTO blobs (data) VALUES (?)")
		require.NoError(t, err)
		require.NoError(t, insert.BindAll(largeData))
		_, err = insert.Step()
		require.NoError(t, err)
		require.NoError(t, insert.Finalize())

		sel, err := conn.Prepare("SELECT data FROM blobs")
		require.NoError(t, err)
		defer sel.Finalize()

		hasRow, err := sel.Step()
		require.NoError(t, err)
		require.True(t, hasRow)
		assert.Equal(t, largeData, sel.ColumnBlob(0))
	})

	t.Run("StepFailure", func(t *testing.T) {
		conn := newConn(t)
		require.NoError(t, conn.Exec("CREATE TABLE uniq (val TEXT UNIQUE)"))
		require.NoError(t, conn.Exec("INSERT INTO uniq (val) VALUES ('taken')"))

		insert, err := conn.Prepare("INSERT INTO uniq (val) VALUES ('taken')")
		require.NoError(t, err)
		defer insert.Finalize()

		_, err = insert.Step()
		require.Error(t, err)

		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		assert.NotZero(t, stepErr.Code)
		assert.NotEmpty(t, stepErr.Message)
	})

	t.Run("FinalizeTwice", func(t *testing.T) {
		conn := newConn(t)

		sel, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)
		assert.NoError(t, sel.Finalize())
		assert.NoError(t, sel.Finalize())
	})
}
