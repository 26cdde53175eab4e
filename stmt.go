package sqlic

import (
	"fmt"
	"strings"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// Stmt represents a prepared statement. It owns the underlying sqlite3_stmt
// handle and must be released with exactly one Finalize, before its parent
// connection is closed.
//
// https://www.sqlite.org/c3ref/stmt.html
type Stmt struct {
	conn *Conn
	stmt uintptr
}

// ColumnType identifies the storage class of a result column.
//
// https://www.sqlite.org/c3ref/c_blob.html
type ColumnType int

const (
	TypeInteger ColumnType = lib.SQLITE_INTEGER
	TypeFloat   ColumnType = lib.SQLITE_FLOAT
	TypeText    ColumnType = lib.SQLITE_TEXT
	TypeBlob    ColumnType = lib.SQLITE_BLOB
	TypeNull    ColumnType = lib.SQLITE_NULL
)

// String returns the SQLite constant name of the type.
func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "SQLITE_INTEGER"
	case TypeFloat:
		return "SQLITE_FLOAT"
	case TypeText:
		return "SQLITE_TEXT"
	case TypeBlob:
		return "SQLITE_BLOB"
	case TypeNull:
		return "SQLITE_NULL"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Bind binds value to the parameter at the given 1-based index. A nil value
// binds SQL NULL. Supported Go types are string, []byte, int, int64,
// float64, and bool. Text and blob values are always copied into
// engine-owned memory, so the caller's value may be reused or discarded as
// soon as Bind returns. Engine failures are reported as *BindError.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) Bind(index int, value any) error {
	switch v := value.(type) {
	case nil:
		return stmt.bindResult(lib.Xsqlite3_bind_null(stmt.conn.tls, stmt.stmt, int32(index)))
	case string:
		return stmt.bindBytes(index, []byte(v), true)
	case []byte:
		return stmt.bindBytes(index, v, false)
	case int:
		return stmt.bindResult(lib.Xsqlite3_bind_int64(stmt.conn.tls, stmt.stmt, int32(index), int64(v)))
	case int64:
		return stmt.bindResult(lib.Xsqlite3_bind_int64(stmt.conn.tls, stmt.stmt, int32(index), v))
	case float64:
		return stmt.bindResult(lib.Xsqlite3_bind_double(stmt.conn.tls, stmt.stmt, int32(index), v))
	case bool:
		n := int64(0)
		if v {
			n = 1
		}
		return stmt.bindResult(lib.Xsqlite3_bind_int64(stmt.conn.tls, stmt.stmt, int32(index), n))
	default:
		return &BindError{Code: int(lib.SQLITE_MISMATCH), Message: fmt.Sprintf("unsupported bind type %T", value)}
	}
}

// bindBytes copies value into a fresh engine-side allocation and hands
// ownership to the engine together with a free callback.
func (stmt *Stmt) bindBytes(index int, value []byte, asText bool) error {
	p, err := mallocBytes(stmt.conn.tls, value)
	if err != nil {
		return err
	}
	var resCode int32
	if asText {
		resCode = lib.Xsqlite3_bind_text(stmt.conn.tls, stmt.stmt, int32(index), p, int32(len(value)), freeFuncPtr)
	} else {
		resCode = lib.Xsqlite3_bind_blob(stmt.conn.tls, stmt.stmt, int32(index), p, int32(len(value)), freeFuncPtr)
	}
	return stmt.bindResult(resCode)
}

func (stmt *Stmt) bindResult(resCode int32) error {
	if resCode != lib.SQLITE_OK {
		return &BindError{Code: int(resCode), Message: stmt.conn.lastErrorMessage()}
	}
	return nil
}

// paramIndex resolves a parameter name to its 1-based index. Names may be
// given with their ":", "@", "$", or "?" prefix or without any prefix.
// Returns 0 for unknown names.
//
// https://www.sqlite.org/c3ref/bind_parameter_index.html
func (stmt *Stmt) paramIndex(name string) int {
	candidates := []string{name}
	if !strings.HasPrefix(name, ":") && !strings.HasPrefix(name, "@") &&
		!strings.HasPrefix(name, "$") && !strings.HasPrefix(name, "?") {
		candidates = append(candidates, ":"+name, "@"+name, "$"+name)
	}
	for _, candidate := range candidates {
		cname, err := libc.CString(candidate)
		if err != nil {
			return 0
		}
		index := lib.Xsqlite3_bind_parameter_index(stmt.conn.tls, stmt.stmt, cname)
		libc.Xfree(stmt.conn.tls, cname)
		if index > 0 {
			return int(index)
		}
	}
	return 0
}

// BindName binds value to the named parameter. If the name does not resolve
// to a parameter of this statement the call is a silent no-op, not an error;
// only an engine-level bind failure is reported, as *BindError.
func (stmt *Stmt) BindName(name string, value any) error {
	index := stmt.paramIndex(name)
	if index <= 0 {
		return nil
	}
	return stmt.Bind(index, value)
}

// BindAll clears all prior bindings, then binds values to parameters 1..N in
// order.
func (stmt *Stmt) BindAll(values ...any) error {
	if err := stmt.ClearBindings(); err != nil {
		return err
	}
	for i, value := range values {
		if err := stmt.Bind(i+1, value); err != nil {
			return err
		}
	}
	return nil
}

// BindAllNamed clears all prior bindings, then binds each value by name.
// Names that do not resolve are silently skipped, per BindName.
func (stmt *Stmt) BindAllNamed(values map[string]any) error {
	if err := stmt.ClearBindings(); err != nil {
		return err
	}
	for name, value := range values {
		if err := stmt.BindName(name, value); err != nil {
			return err
		}
	}
	return nil
}

// BindParameterCount returns the index of the largest parameter in the
// statement, which for ordinary statements is the number of parameters.
//
// https://www.sqlite.org/c3ref/bind_parameter_count.html
func (stmt *Stmt) BindParameterCount() int {
	return int(lib.Xsqlite3_bind_parameter_count(stmt.conn.tls, stmt.stmt))
}

// ReadOnly reports whether the statement makes no direct changes to the
// database content.
//
// https://www.sqlite.org/c3ref/stmt_readonly.html
func (stmt *Stmt) ReadOnly() bool {
	return lib.Xsqlite3_stmt_readonly(stmt.conn.tls, stmt.stmt) != 0
}

// ClearBindings resets every bound parameter to SQL NULL.
//
// https://www.sqlite.org/c3ref/clear_bindings.html
func (stmt *Stmt) ClearBindings() error {
	resCode := lib.Xsqlite3_clear_bindings(stmt.conn.tls, stmt.stmt)
	return stmt.bindResult(resCode)
}

// Step advances the statement to the next row of data, returning true if a
// row is available and false if execution is complete. Any other engine
// outcome is reported as *StepError. Stepping again after completion or an
// error, without an intervening Reset, is undefined by the engine.
//
// https://www.sqlite.org/c3ref/step.html
func (stmt *Stmt) Step() (bool, error) {
	switch resCode := lib.Xsqlite3_step(stmt.conn.tls, stmt.stmt); resCode {
	case lib.SQLITE_ROW:
		return true, nil
	case lib.SQLITE_DONE:
		return false, nil
	default:
		return false, &StepError{Code: int(resCode), Message: stmt.conn.lastErrorMessage()}
	}
}

// Reset returns the statement to its pre-execution position. Bound
// parameter values are retained; use ClearBindings to clear them.
//
// https://www.sqlite.org/c3ref/reset.html
func (stmt *Stmt) Reset() error {
	resCode := lib.Xsqlite3_reset(stmt.conn.tls, stmt.stmt)
	if resCode != lib.SQLITE_OK {
		return &ResetError{Code: int(resCode), Message: stmt.conn.lastErrorMessage()}
	}
	return nil
}

// Finalize frees the resources associated with this statement. The Stmt
// must not be used afterwards.
//
// https://www.sqlite.org/c3ref/finalize.html
func (stmt *Stmt) Finalize() error {
	if stmt.stmt == 0 {
		return nil
	}
	resCode := lib.Xsqlite3_finalize(stmt.conn.tls, stmt.stmt)
	stmt.stmt = 0
	if resCode != lib.SQLITE_OK {
		return &StepError{Code: int(resCode), Message: stmt.conn.lastErrorMessage()}
	}
	return nil
}

// ColumnCount returns the number of columns in the statement's result shape.
//
// https://www.sqlite.org/c3ref/column_count.html
func (stmt *Stmt) ColumnCount() int {
	return int(lib.Xsqlite3_column_count(stmt.conn.tls, stmt.stmt))
}

// ColumnName returns the name of the column at the given 0-based index.
//
// https://www.sqlite.org/c3ref/column_name.html
func (stmt *Stmt) ColumnName(colIndex int) string {
	return libc.GoString(lib.Xsqlite3_column_name(stmt.conn.tls, stmt.stmt, int32(colIndex)))
}

// ColumnType returns the storage class of the column in the current row.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnType(colIndex int) ColumnType {
	return ColumnType(lib.Xsqlite3_column_type(stmt.conn.tls, stmt.stmt, int32(colIndex)))
}

// ColumnIsNull reports whether the column in the current row holds SQL NULL.
func (stmt *Stmt) ColumnIsNull(colIndex int) bool {
	return stmt.ColumnType(colIndex) == TypeNull
}

// ColumnText returns the column value as a string, applying the engine's
// type coercion. NULL yields "".
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnText(colIndex int) string {
	text := lib.Xsqlite3_column_text(stmt.conn.tls, stmt.stmt, int32(colIndex))
	if text == 0 {
		return ""
	}
	length := int(lib.Xsqlite3_column_bytes(stmt.conn.tls, stmt.stmt, int32(colIndex)))
	return goStringN(text, length)
}

// ColumnInt returns the column value as an int, applying the engine's type
// coercion. NULL yields 0.
func (stmt *Stmt) ColumnInt(colIndex int) int {
	return int(stmt.ColumnInt64(colIndex))
}

// ColumnInt64 returns the column value as an int64, applying the engine's
// type coercion. NULL yields 0.
func (stmt *Stmt) ColumnInt64(colIndex int) int64 {
	return lib.Xsqlite3_column_int64(stmt.conn.tls, stmt.stmt, int32(colIndex))
}

// ColumnFloat64 returns the column value as a float64, applying the
// engine's type coercion. NULL yields 0.
func (stmt *Stmt) ColumnFloat64(colIndex int) float64 {
	return lib.Xsqlite3_column_double(stmt.conn.tls, stmt.stmt, int32(colIndex))
}

// ColumnBlob returns the column value as a byte slice copied into Go
// memory. NULL yields nil.
func (stmt *Stmt) ColumnBlob(colIndex int) []byte {
	size := int(lib.Xsqlite3_column_bytes(stmt.conn.tls, stmt.stmt, int32(colIndex)))
	if size <= 0 {
		return nil
	}
	dataPtr := lib.Xsqlite3_column_blob(stmt.conn.tls, stmt.stmt, int32(colIndex))
	if dataPtr == 0 {
		return nil
	}
	return append([]byte(nil), libc.GoBytes(dataPtr, size)...)
}

// ColumnValue returns the column value typed by its storage class: int64,
// float64, string, []byte, or nil for NULL.
func (stmt *Stmt) ColumnValue(colIndex int) any {
	switch stmt.ColumnType(colIndex) {
	case TypeInteger:
		return stmt.ColumnInt64(colIndex)
	case TypeFloat:
		return stmt.ColumnFloat64(colIndex)
	case TypeText:
		return stmt.ColumnText(colIndex)
	case TypeBlob:
		return stmt.ColumnBlob(colIndex)
	default:
		return nil
	}
}
