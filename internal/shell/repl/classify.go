package repl

import (
	"fmt"
	"strings"

	"github.com/orsinium-labs/enum"
	"github.com/sqlic/sqlic"
)

type stmtKind enum.Member[string]

var (
	StmtKindUnknown  = stmtKind{Value: "unknown"}
	StmtKindRead     = stmtKind{Value: "read"}
	StmtKindWrite    = stmtKind{Value: "write"}
	StmtKindBegin    = stmtKind{Value: "begin"}
	StmtKindCommit   = stmtKind{Value: "commit"}
	StmtKindRollback = stmtKind{Value: "rollback"}
)

// classifyStatement detects the kind of statement between read, write, begin,
// commit, and rollback.
func classifyStatement(conn *sqlic.Conn, query string) (stmtKind, error) {
	trimmed := strings.ToLower(strings.TrimSpace(query))

	switch {
	case strings.HasPrefix(trimmed, "begin"):
		return StmtKindBegin, nil
	case strings.HasPrefix(trimmed, "commit"):
		return StmtKindCommit, nil
	case strings.HasPrefix(trimmed, "rollback"), strings.HasPrefix(trimmed, "end transaction"):
		return StmtKindRollback, nil
	}

	stmt, err := conn.Prepare(query)
	if err != nil {
		return StmtKindUnknown, fmt.Errorf("failed to prepare statement: %w", err)
	}
	if stmt == nil {
		return StmtKindUnknown, nil
	}

	isReadOnly := stmt.ReadOnly()
	if err := stmt.Finalize(); err != nil {
		return StmtKindUnknown, err
	}

	if isReadOnly {
		return StmtKindRead, nil
	}
	return StmtKindWrite, nil
}
