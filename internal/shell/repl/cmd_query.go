package repl

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sqlic/sqlic"
	"github.com/sqlic/sqlic/internal/styled"
)

func cmdQuery(r *Repl, input string) {
	tw := styled.NewTableWriter()
	start := time.Now()

	kind, err := classifyStatement(r.conn, input)
	if err != nil {
		tw.AppendHeader(table.Row{"Error"})
		tw.AppendRow(table.Row{cleanError(err)})
		fmt.Println(tw.Render())
		return
	}

	switch kind {
	case StmtKindBegin:
		if err := r.conn.Begin(); err != nil {
			tw.AppendHeader(table.Row{"Error"})
			tw.AppendRow(table.Row{cleanError(err)})
			break
		}
		tw.AppendHeader(table.Row{"OK"})
		tw.AppendRow(table.Row{"Transaction started"})

	case StmtKindCommit:
		if err := r.conn.Commit(); err != nil {
			tw.AppendHeader(table.Row{"Error"})
			tw.AppendRow(table.Row{cleanError(err)})
			break
		}
		tw.AppendHeader(table.Row{"OK"})
		tw.AppendRow(table.Row{"Transaction committed"})

	case StmtKindRollback:
		if err := r.conn.Rollback(); err != nil {
			tw.AppendHeader(table.Row{"Error"})
			tw.AppendRow(table.Row{cleanError(err)})
			break
		}
		tw.AppendHeader(table.Row{"OK"})
		tw.AppendRow(table.Row{"Transaction rolled back"})

	case StmtKindRead:
		if err := queryRead(r.conn, input, tw); err != nil {
			tw = styled.NewTableWriter()
			tw.AppendHeader(table.Row{"Error"})
			tw.AppendRow(table.Row{cleanError(err)})
		}

	default:
		if err := r.conn.Exec(input); err != nil {
			tw.AppendHeader(table.Row{"Error"})
			tw.AppendRow(table.Row{cleanError(err)})
			break
		}
		tw.AppendHeader(table.Row{"-", "Rows Affected", "Last Insert ID"})
		tw.AppendRow(table.Row{"OK", r.conn.Changes(), r.conn.LastInsertRowID()})
	}

	fmt.Println(tw.Render())
	styled.DimmedColor().Printf("Took %s\n\n", time.Since(start).Round(time.Microsecond))
}

// queryRead runs a read statement and appends its result rows to tw.
func queryRead(conn *sqlic.Conn, input string, tw table.Writer) error {
	stmt, err := conn.Prepare(input)
	if err != nil {
		return err
	}
	if stmt == nil {
		return nil
	}
	defer func() { _ = stmt.Finalize() }()

	header := table.Row{}
	for col := range stmt.ColumnCount() {
		header = append(header, stmt.ColumnName(col))
	}
	tw.AppendHeader(header)

	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return err
		}
		if !hasRow {
			return nil
		}

		row := table.Row{}
		for col := range stmt.ColumnCount() {
			if stmt.ColumnIsNull(col) {
				row = append(row, "NULL")
				continue
			}
			row = append(row, stmt.ColumnValue(col))
		}
		tw.AppendRow(row)
	}
}

// cleanError removes the unwanted text from the error message. So, the error
// is more readable.
func cleanError(err error) string {
	var prepareErr *sqlic.PrepareError
	if errors.As(err, &prepareErr) {
		return prepareErr.Message
	}

	var execErr *sqlic.ExecError
	if errors.As(err, &execErr) {
		return execErr.Message
	}

	return err.Error()
}
