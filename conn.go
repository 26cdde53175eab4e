package sqlic

import (
	"errors"
	"sync"
	"unsafe"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"
)

// MemoryPath is the reserved path that opens a private in-memory database.
const MemoryPath = ":memory:"

var initOnce sync.Once

func initlib(tls *libc.TLS) {
	initOnce.Do(func() {
		lib.Xsqlite3_initialize(tls)
	})
}

// Conn represents a connection to a SQLite database. It owns the underlying
// sqlite3 handle for its entire lifetime and must be released with exactly
// one Close.
//
// https://www.sqlite.org/c3ref/sqlite3.html
type Conn struct {
	tls    *libc.TLS
	db     uintptr
	closed bool
}

// lastErrorMessage reads the connection's current error text. It reflects
// only the most recent failed call, so it must be read at the failure site.
//
// https://www.sqlite.org/c3ref/errcode.html
func (conn *Conn) lastErrorMessage() string {
	if conn.db == 0 {
		return "database connection is nil"
	}
	return libc.GoString(lib.Xsqlite3_errmsg(conn.tls, conn.db))
}

// Open opens a SQLite database at the given filesystem path, creating the
// file if needed. The reserved path ":memory:" opens a private in-memory
// database. Failures are reported as *OpenError.
//
// https://www.sqlite.org/c3ref/open.html
func Open(path string) (*Conn, error) {
	tls := libc.NewTLS()
	initlib(tls)

	cpath, err := libc.CString(path)
	if err != nil {
		tls.Close()
		return nil, err
	}
	defer libc.Xfree(tls, cpath)

	dbPtr, err := malloc(tls, ptrSize)
	if err != nil {
		tls.Close()
		return nil, err
	}
	defer libc.Xfree(tls, dbPtr)

	flags := int32(lib.SQLITE_OPEN_READWRITE | lib.SQLITE_OPEN_CREATE)
	resCode := lib.Xsqlite3_open_v2(tls, cpath, dbPtr, flags, 0)
	db := *(*uintptr)(unsafe.Pointer(dbPtr))
	if resCode != lib.SQLITE_OK {
		// The engine may allocate a handle on failure solely so the error
		// message can be read from it. It must still be closed.
		openErr := &OpenError{Code: int(resCode), Message: (&Conn{tls: tls, db: db}).lastErrorMessage()}
		if db != 0 {
			lib.Xsqlite3_close_v2(tls, db)
		}
		tls.Close()
		return nil, openErr
	}

	return &Conn{tls: tls, db: db}, nil
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory() (*Conn, error) {
	return Open(MemoryPath)
}

// Close releases the connection handle. All statements prepared from this
// connection must be finalized first. Closing twice is an error.
//
// https://www.sqlite.org/c3ref/close.html
func (conn *Conn) Close() error {
	if conn.closed {
		return errors.New("sqlic: connection already closed")
	}
	conn.closed = true

	resCode := lib.Xsqlite3_close_v2(conn.tls, conn.db)
	msg := ""
	if resCode != lib.SQLITE_OK {
		msg = conn.lastErrorMessage()
	}
	conn.db = 0
	conn.tls.Close()
	conn.tls = nil
	if resCode != lib.SQLITE_OK {
		return &ExecError{Code: int(resCode), Message: msg}
	}
	return nil
}

// Prepare compiles a single SQL statement. The returned Stmt must be
// released with Finalize before the connection is closed. Failures are
// reported as *PrepareError.
//
// https://www.sqlite.org/c3ref/prepare.html
func (conn *Conn) Prepare(sql string) (*Stmt, error) {
	stmt, _, err := conn.prepare(sql)
	return stmt, err
}

// prepare compiles the first statement in sql and returns the byte offset of
// the unconsumed tail.
func (conn *Conn) prepare(sql string) (*Stmt, int, error) {
	csql, err := libc.CString(sql)
	if err != nil {
		return nil, 0, err
	}
	defer libc.Xfree(conn.tls, csql)

	stmtPtr, err := malloc(conn.tls, ptrSize)
	if err != nil {
		return nil, 0, err
	}
	defer libc.Xfree(conn.tls, stmtPtr)

	tailPtr, err := malloc(conn.tls, ptrSize)
	if err != nil {
		return nil, 0, err
	}
	defer libc.Xfree(conn.tls, tailPtr)

	resCode := lib.Xsqlite3_prepare_v2(conn.tls, conn.db, csql, int32(-1), stmtPtr, tailPtr)
	if resCode != lib.SQLITE_OK {
		return nil, 0, &PrepareError{Code: int(resCode), Message: conn.lastErrorMessage()}
	}

	ctail := *(*uintptr)(unsafe.Pointer(tailPtr))
	tail := len(sql) - int(ctail-csql)

	cstmt := *(*uintptr)(unsafe.Pointer(stmtPtr))
	if cstmt == 0 {
		// sql contained only whitespace or comments.
		return nil, tail, nil
	}
	return &Stmt{conn: conn, stmt: cstmt}, tail, nil
}

// Exec executes sql from start to finish without binding parameters and
// without retrieving rows. Unlike Prepare, it accepts multiple
// semicolon-separated statements in one call. Failures are reported as
// *ExecError.
//
// https://www.sqlite.org/c3ref/exec.html
func (conn *Conn) Exec(sql string) error {
	csql, err := libc.CString(sql)
	if err != nil {
		return err
	}
	defer libc.Xfree(conn.tls, csql)

	errMsgPtr, err := malloc(conn.tls, ptrSize)
	if err != nil {
		return err
	}
	defer libc.Xfree(conn.tls, errMsgPtr)
	*(*uintptr)(unsafe.Pointer(errMsgPtr)) = 0

	resCode := lib.Xsqlite3_exec(conn.tls, conn.db, csql, 0, 0, errMsgPtr)
	cerrMsg := *(*uintptr)(unsafe.Pointer(errMsgPtr))
	if resCode != lib.SQLITE_OK {
		msg := libc.GoString(cerrMsg)
		if cerrMsg != 0 {
			lib.Xsqlite3_free(conn.tls, cerrMsg)
		}
		return &ExecError{Code: int(resCode), Message: msg}
	}
	return nil
}

// Begin starts an explicit transaction. Nested transactions and savepoints
// are not supported.
func (conn *Conn) Begin() error {
	return conn.Exec("BEGIN TRANSACTION")
}

// Commit commits the current explicit transaction.
func (conn *Conn) Commit() error {
	return conn.Exec("COMMIT")
}

// Rollback rolls back the current explicit transaction.
func (conn *Conn) Rollback() error {
	return conn.Exec("ROLLBACK")
}

// LastInsertRowID returns the row ID of the most recent successful INSERT
// on this connection.
//
// https://www.sqlite.org/c3ref/last_insert_rowid.html
func (conn *Conn) LastInsertRowID() int64 {
	return lib.Xsqlite3_last_insert_rowid(conn.tls, conn.db)
}

// Changes returns the number of rows modified, inserted, or deleted by the
// most recent statement on this connection.
//
// https://www.sqlite.org/c3ref/changes.html
func (conn *Conn) Changes() int64 {
	return int64(lib.Xsqlite3_changes(conn.tls, conn.db))
}

// AutocommitEnabled reports whether the connection is in autocommit mode,
// which is the default outside an explicit Begin/Commit bracket.
//
// https://www.sqlite.org/c3ref/get_autocommit.html
func (conn *Conn) AutocommitEnabled() bool {
	return lib.Xsqlite3_get_autocommit(conn.tls, conn.db) != 0
}
