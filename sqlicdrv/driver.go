// Package sqlicdrv provides a database/sql/driver implementation on top of
// the sqlic bindings.
//
// It exists to take advantage of the connection pooling and the familiar
// query interface provided by database/sql while keeping the underlying
// handles accessible through RawConn. The driver registers itself under the
// name "sqlic".
package sqlicdrv

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"time"

	"github.com/sqlic/sqlic"
)

var (
	_ driver.Driver          = (*Driver)(nil)
	_ driver.Conn            = (*Conn)(nil)
	_ driver.Validator       = (*Conn)(nil)
	_ driver.SessionResetter = (*Conn)(nil)
	_ driver.Connector       = (*Connector)(nil)
	_ driver.Stmt            = (*Stmt)(nil)
	_ driver.Rows            = (*Rows)(nil)
)

func init() {
	sql.Register("sqlic", &Driver{})
}

// Driver implements the database/sql/driver interface.
type Driver struct{}

// Open creates a new connection to the SQLite database at dsn.
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	connector := NewConnector(dsn)
	return connector.Connect(context.Background())
}

type connectorOption func(*Connector)

// WithPostConnectQueries sets a slice of queries to be executed after a
// connection is established.
func WithPostConnectQueries(queries []string) connectorOption {
	return func(connector *Connector) {
		connector.postConnectQueries = queries
	}
}

// Connector implements the database/sql/driver.Connector interface.
type Connector struct {
	dsn                string
	postConnectQueries []string
}

// NewConnector creates a new connector to the SQLite database at dsn.
func NewConnector(dsn string, options ...connectorOption) *Connector {
	connector := &Connector{
		dsn: dsn,
	}

	for _, option := range options {
		option(connector)
	}

	return connector
}

// Connect creates a new connection to the SQLite database.
func (connector *Connector) Connect(_ context.Context) (driver.Conn, error) {
	return newConn(connector.dsn, connector.postConnectQueries)
}

// Driver returns the driver.
func (connector *Connector) Driver() driver.Driver {
	return &Driver{}
}

// Conn implements the database/sql/driver.Conn interface.
type Conn struct {
	conn *sqlic.Conn
}

func newConn(dsn string, postConnectQueries []string) (driver.Conn, error) {
	conn, err := sqlic.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	for _, query := range postConnectQueries {
		if err := conn.Exec(query); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf(`failed to execute "%s" post-connect query: %w`, query, err)
		}
	}

	return &Conn{
		conn: conn,
	}, nil
}

// RawConn returns the underlying sqlic connection.
func (conn *Conn) RawConn() *sqlic.Conn {
	return conn.conn
}

// Close closes the connection to the SQLite database.
func (conn *Conn) Close() error {
	if err := conn.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// Prepare compiles the given query into a prepared statement.
func (conn *Conn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := conn.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &Stmt{conn: conn.conn, stmt: stmt}, nil
}

// Begin starts an explicit transaction.
func (conn *Conn) Begin() (driver.Tx, error) {
	if err := conn.conn.Begin(); err != nil {
		return nil, err
	}
	return &Tx{conn: conn.conn}, nil
}

// ResetSession is a no-op; connections carry no per-session state.
func (conn *Conn) ResetSession(_ context.Context) error {
	return nil
}

// IsValid reports whether the connection can be reused by the pool.
func (conn *Conn) IsValid() bool {
	return true
}

// Tx implements the database/sql/driver.Tx interface.
type Tx struct {
	conn *sqlic.Conn
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	return tx.conn.Commit()
}

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error {
	return tx.conn.Rollback()
}

// Stmt implements the database/sql/driver.Stmt interface.
type Stmt struct {
	conn *sqlic.Conn
	stmt *sqlic.Stmt
}

// Close finalizes the statement.
func (s *Stmt) Close() error {
	return s.stmt.Finalize()
}

// NumInput returns the number of placeholder parameters.
func (s *Stmt) NumInput() int {
	return s.stmt.BindParameterCount()
}

// bindValues rebinds the statement with the given driver values.
func (s *Stmt) bindValues(args []driver.Value) error {
	values := make([]any, len(args))
	for i, arg := range args {
		if t, ok := arg.(time.Time); ok {
			arg = t.Format("2006-01-02 15:04:05.999999999-07:00")
		}
		values[i] = arg
	}
	return s.stmt.BindAll(values...)
}

// Exec runs the statement as DML, discarding any produced rows.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	if err := s.bindValues(args); err != nil {
		return nil, err
	}

	for {
		hasRow, err := s.stmt.Step()
		if err != nil {
			_ = s.stmt.Reset()
			return nil, err
		}
		if !hasRow {
			break
		}
	}

	result := &Result{
		lastInsertID: s.conn.LastInsertRowID(),
		rowsAffected: s.conn.Changes(),
	}
	return result, s.stmt.Reset()
}

// Query runs the statement and returns its rows.
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	if err := s.bindValues(args); err != nil {
		return nil, err
	}
	return &Rows{stmt: s.stmt}, nil
}

// Result implements the database/sql/driver.Result interface.
type Result struct {
	lastInsertID int64
	rowsAffected int64
}

// LastInsertId returns the rowid of the most recent INSERT.
func (r *Result) LastInsertId() (int64, error) {
	return r.lastInsertID, nil
}

// RowsAffected returns the number of rows changed by the statement.
func (r *Result) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}

// Rows implements the database/sql/driver.Rows interface over a stepping
// statement.
type Rows struct {
	stmt *sqlic.Stmt
}

// Columns returns the names of the result columns.
func (rows *Rows) Columns() []string {
	names := make([]string, rows.stmt.ColumnCount())
	for i := range names {
		names[i] = rows.stmt.ColumnName(i)
	}
	return names
}

// Next steps to the next row and scans it into dest. It returns io.EOF when
// the statement is done.
func (rows *Rows) Next(dest []driver.Value) error {
	hasRow, err := rows.stmt.Step()
	if err != nil {
		return err
	}
	if !hasRow {
		return io.EOF
	}
	for i := range dest {
		dest[i] = rows.stmt.ColumnValue(i)
	}
	return nil
}

// Close resets the statement so it can be executed again; the statement
// itself is finalized by Stmt.Close.
func (rows *Rows) Close() error {
	return rows.stmt.Reset()
}
