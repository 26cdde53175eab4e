package sqlic

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// RowFunc is invoked by ExecCallback once per produced row. values holds the
// row's column values rendered as text, nil for SQL NULL, aligned by index
// with names. Returning false stops the iteration early; that is a normal
// outcome, not an error.
type RowFunc func(values []*string, names []string) bool

// asExecError rewraps a typed prepare/bind/step error raised inside an
// execution helper as the *ExecError the helper reports.
func asExecError(err error) error {
	switch e := err.(type) {
	case *PrepareError:
		return &ExecError{Code: e.Code, Message: e.Message}
	case *StepError:
		return &ExecError{Code: e.Code, Message: e.Message}
	default:
		return err
	}
}

// ExecCallback executes sql, which may contain multiple semicolon-separated
// statements, invoking fn synchronously for every produced row. If fn
// returns false the remaining rows and statements are skipped and
// ExecCallback returns nil. Failures are reported as *ExecError.
func (conn *Conn) ExecCallback(sql string, fn RowFunc) error {
	remaining := sql
	for strings.TrimSpace(remaining) != "" {
		stmt, tail, err := conn.prepare(remaining)
		if err != nil {
			return asExecError(err)
		}
		next := remaining[len(remaining)-tail:]
		if stmt == nil {
			// Whitespace or comments between statements.
			remaining = next
			continue
		}

		stopped, err := stmt.eachRow(fn)
		finalizeErr := stmt.Finalize()
		if err != nil {
			return asExecError(err)
		}
		if finalizeErr != nil {
			return asExecError(finalizeErr)
		}
		if stopped {
			return nil
		}
		remaining = next
	}
	return nil
}

// eachRow steps stmt to completion, invoking fn per row. It reports whether
// fn requested an early stop.
func (stmt *Stmt) eachRow(fn RowFunc) (bool, error) {
	columnCount := stmt.ColumnCount()
	names := make([]string, columnCount)
	for i := 0; i < columnCount; i++ {
		names[i] = stmt.ColumnName(i)
	}

	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return false, err
		}
		if !hasRow {
			return false, nil
		}

		values := make([]*string, columnCount)
		for i := 0; i < columnCount; i++ {
			if stmt.ColumnIsNull(i) {
				continue
			}
			text := stmt.ColumnText(i)
			values[i] = &text
		}
		if !fn(values, names) {
			return true, nil
		}
	}
}

// ExecParams prepares sql once, then for each parameter row binds its values
// in order, steps once, and resets. Produced rows are discarded; this path
// is meant for DML, not SELECT. The first bind, step, or reset failure
// aborts the whole operation and is surfaced unchanged; rows already
// executed are not rolled back.
func (conn *Conn) ExecParams(sql string, rows iter.Seq[[]any]) error {
	stmt, err := conn.Prepare(sql)
	if err != nil {
		return err
	}
	if stmt == nil {
		return nil
	}
	defer func() {
		_ = stmt.Finalize()
	}()

	for row := range rows {
		if err := stmt.execRow(row); err != nil {
			return err
		}
	}
	return nil
}

// execRow runs one bind/step/reset cycle.
func (stmt *Stmt) execRow(row []any) error {
	if err := stmt.BindAll(row...); err != nil {
		return err
	}
	if _, err := stmt.Step(); err != nil {
		return err
	}
	return stmt.Reset()
}

// ExecBatched is ExecParams with explicit transaction bracketing. The
// commitEvery policy is:
//
//   - commitEvery < 1: one transaction around the entire parameter stream.
//   - commitEvery == 1: no explicit transaction; every statement runs in the
//     engine's default autocommit mode.
//   - commitEvery > 1: BEGIN, execute up to commitEvery rows, COMMIT,
//     repeat; a final COMMIT covers a partial last group.
//
// A BEGIN or COMMIT failure inside the batching loop is propagated as
// *ExecError. Rows committed by earlier groups stay committed; there is no
// recovery from a mid-batch failure.
func (conn *Conn) ExecBatched(sql string, commitEvery int, rows iter.Seq[[]any]) error {
	stmt, err := conn.Prepare(sql)
	if err != nil {
		return err
	}
	if stmt == nil {
		return nil
	}
	defer func() {
		_ = stmt.Finalize()
	}()

	if commitEvery < 1 {
		if err := conn.Begin(); err != nil {
			return err
		}
		for row := range rows {
			if err := stmt.execRow(row); err != nil {
				return err
			}
		}
		return conn.Commit()
	}

	if commitEvery == 1 {
		for row := range rows {
			if err := stmt.execRow(row); err != nil {
				return err
			}
		}
		return nil
	}

	inTx := false
	executed := 0
	for row := range rows {
		if !inTx {
			if err := conn.Begin(); err != nil {
				return err
			}
			inTx = true
		}
		if err := stmt.execRow(row); err != nil {
			return err
		}
		executed++
		if executed%commitEvery == 0 {
			if err := conn.Commit(); err != nil {
				return err
			}
			inTx = false
		}
	}
	if inTx {
		return conn.Commit()
	}
	return nil
}

// Dump executes sql and writes every produced row to w as "name: value"
// lines, with NULL for absent values and a blank line after each row. It is
// a debugging utility, not part of the binding contract.
func (conn *Conn) Dump(sql string, w io.Writer) error {
	return conn.ExecCallback(sql, func(values []*string, names []string) bool {
		for i, name := range names {
			if values[i] == nil {
				fmt.Fprintf(w, "%s: NULL\n", name)
				continue
			}
			fmt.Fprintf(w, "%s: %s\n", name, *values[i])
		}
		fmt.Fprintln(w)
		return true
	})
}
