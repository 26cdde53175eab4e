// Package sqlic provides Go bindings for the SQLite C API.
//
// The engine is the SQLite amalgamation translated to Go by
// modernc.org/sqlite/lib, so no cgo is required. This package wraps the raw
// entry points (sqlite3_open_v2, sqlite3_prepare_v2, sqlite3_bind_*,
// sqlite3_step, sqlite3_column_*, sqlite3_finalize, ...) behind two handle
// types:
//
//   - Conn owns one open database handle. It is created by Open or
//     OpenInMemory and released by exactly one Close.
//   - Stmt owns one prepared statement handle, created by Conn.Prepare and
//     released by exactly one Finalize. A statement cycles through
//     bind -> step (row|done) -> reset, and may be rebound and stepped again
//     after a Reset.
//
// Bound text and blob values are always copied into engine-owned memory, so
// the caller's value may be reused or discarded immediately after Bind
// returns.
//
// # Caller obligations
//
// A Conn and every Stmt prepared from it must be used from a single goroutine
// at a time; every call blocks until the engine returns and cannot be
// cancelled. A Conn must outlive all statements prepared from it: Finalize
// every Stmt before closing the Conn. Calling Step again after it returned
// done or an error, without an intervening Reset, is undefined by the engine
// and is not guarded here.
//
//   - https://www.sqlite.org/cintro.html
//   - https://www.sqlite.org/c3ref/intro.html
package sqlic
