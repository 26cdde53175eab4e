package sqlic

import (
	"fmt"

	lib "modernc.org/sqlite/lib"
)

// OpenError is returned when opening a database fails.
type OpenError struct {
	Code    int
	Message string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("sqlic: failed to open database: %s: %s", codeName(e.Code), e.Message)
}

// PrepareError is returned when compiling a statement fails.
type PrepareError struct {
	Code    int
	Message string
}

func (e *PrepareError) Error() string {
	return fmt.Sprintf("sqlic: failed to prepare statement: %s: %s", codeName(e.Code), e.Message)
}

// ExecError is returned when a direct, callback, parameterized, or batched
// execution fails.
type ExecError struct {
	Code    int
	Message string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("sqlic: failed to execute query: %s: %s", codeName(e.Code), e.Message)
}

// BindError is returned when binding a parameter fails at the engine level.
// Binding an unknown parameter name is not an error, see Stmt.BindName.
type BindError struct {
	Code    int
	Message string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("sqlic: failed to bind parameter: %s: %s", codeName(e.Code), e.Message)
}

// StepError is returned when stepping a statement fails.
type StepError struct {
	Code    int
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sqlic: failed to step statement: %s: %s", codeName(e.Code), e.Message)
}

// ResetError is returned when resetting a statement fails.
type ResetError struct {
	Code    int
	Message string
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("sqlic: failed to reset statement: %s: %s", codeName(e.Code), e.Message)
}

// codeName returns the SQLITE_* constant name for a primary result code.
//
// https://www.sqlite.org/rescode.html
func codeName(code int) string {
	switch int32(code) & 0xff {
	case lib.SQLITE_OK:
		return "SQLITE_OK"
	case lib.SQLITE_ERROR:
		return "SQLITE_ERROR"
	case lib.SQLITE_INTERNAL:
		return "SQLITE_INTERNAL"
	case lib.SQLITE_PERM:
		return "SQLITE_PERM"
	case lib.SQLITE_ABORT:
		return "SQLITE_ABORT"
	case lib.SQLITE_BUSY:
		return "SQLITE_BUSY"
	case lib.SQLITE_LOCKED:
		return "SQLITE_LOCKED"
	case lib.SQLITE_NOMEM:
		return "SQLITE_NOMEM"
	case lib.SQLITE_READONLY:
		return "SQLITE_READONLY"
	case lib.SQLITE_INTERRUPT:
		return "SQLITE_INTERRUPT"
	case lib.SQLITE_IOERR:
		return "SQLITE_IOERR"
	case lib.SQLITE_CORRUPT:
		return "SQLITE_CORRUPT"
	case lib.SQLITE_NOTFOUND:
		return "SQLITE_NOTFOUND"
	case lib.SQLITE_FULL:
		return "SQLITE_FULL"
	case lib.SQLITE_CANTOPEN:
		return "SQLITE_CANTOPEN"
	case lib.SQLITE_PROTOCOL:
		return "SQLITE_PROTOCOL"
	case lib.SQLITE_EMPTY:
		return "SQLITE_EMPTY"
	case lib.SQLITE_SCHEMA:
		return "SQLITE_SCHEMA"
	case lib.SQLITE_TOOBIG:
		return "SQLITE_TOOBIG"
	case lib.SQLITE_CONSTRAINT:
		return "SQLITE_CONSTRAINT"
	case lib.SQLITE_MISMATCH:
		return "SQLITE_MISMATCH"
	case lib.SQLITE_MISUSE:
		return "SQLITE_MISUSE"
	case lib.SQLITE_NOLFS:
		return "SQLITE_NOLFS"
	case lib.SQLITE_AUTH:
		return "SQLITE_AUTH"
	case lib.SQLITE_FORMAT:
		return "SQLITE_FORMAT"
	case lib.SQLITE_RANGE:
		return "SQLITE_RANGE"
	case lib.SQLITE_NOTADB:
		return "SQLITE_NOTADB"
	case lib.SQLITE_NOTICE:
		return "SQLITE_NOTICE"
	case lib.SQLITE_WARNING:
		return "SQLITE_WARNING"
	case lib.SQLITE_ROW:
		return "SQLITE_ROW"
	case lib.SQLITE_DONE:
		return "SQLITE_DONE"
	default:
		return fmt.Sprintf("SQLITE_UNKNOWN(%d)", code)
	}
}
