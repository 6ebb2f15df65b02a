// Package dberr classifies database driver errors into the small taxonomy
// the migration engine cares about: missing schema objects and missing
// privileges. Everything else passes through with the operation name
// prepended and the original error preserved for errors.Is / errors.As.
package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// postgres SQLSTATE codes.
const (
	pgUndefinedTable        = "42P01"
	pgInsufficientPrivilege = "42501"
)

// mysql server error numbers.
const (
	myNoSuchTable       = 1146
	myTableAccessDenied = 1142
	myDBAccessDenied    = 1044
)

// SchemaError reports that a statement referenced a table or relation that
// does not exist in the target database.
type SchemaError struct {
	Table string // table name when it could be recovered from the driver error
	Op    string // operation that failed, e.g. "apply 20260219083455_add_profile_fields_to_users"
	Err   error  // original driver error
}

// Error returns the error message.
func (e *SchemaError) Error() string {
	msg := "relation does not exist"
	if e.Table != "" {
		msg = fmt.Sprintf("table %q does not exist", e.Table)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying driver error for errors.As/errors.Is support.
func (e *SchemaError) Unwrap() error { return e.Err }

// PermissionError reports that the connected principal lacks the privilege
// required to run a statement, typically DDL rights on the target table.
type PermissionError struct {
	Op  string // operation that failed
	Err error  // original driver error
}

// Error returns the error message.
func (e *PermissionError) Error() string {
	msg := "permission denied"
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying driver error for errors.As/errors.Is support.
func (e *PermissionError) Unwrap() error { return e.Err }

// IsSchema reports whether err is or wraps a SchemaError.
func IsSchema(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsPermission reports whether err is or wraps a PermissionError.
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// Classify maps a driver error onto the taxonomy. Postgres errors are matched
// by SQLSTATE, mysql errors by server error number, and sqlite errors by
// message text since modernc.org/sqlite reports "no such table" under the
// generic SQLITE_ERROR code. Errors that are already classified come back
// unchanged, and unrecognized errors come back wrapped with op only.
// A nil err returns nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var schemaErr *SchemaError
	var permErr *PermissionError
	if errors.As(err, &schemaErr) || errors.As(err, &permErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable:
			return &SchemaError{Table: quotedIdent(pgErr.Message), Op: op, Err: err}
		case pgInsufficientPrivilege:
			return &PermissionError{Op: op, Err: err}
		}
		return passthrough(op, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case myNoSuchTable:
			return &SchemaError{Table: quotedIdent(myErr.Message), Op: op, Err: err}
		case myTableAccessDenied, myDBAccessDenied:
			return &PermissionError{Op: op, Err: err}
		}
		return passthrough(op, err)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no such table") {
		return &SchemaError{Table: tableAfterMarker(err.Error()), Op: op, Err: err}
	}
	if strings.Contains(msg, "readonly database") || strings.Contains(msg, "access permission denied") {
		return &PermissionError{Op: op, Err: err}
	}

	return passthrough(op, err)
}

func passthrough(op string, err error) error {
	if op == "" {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// quotedIdent extracts the first single- or double-quoted identifier from a
// driver message, stripping any schema or database qualifier.
// `relation "public.users" does not exist` and `Table 'app.users' doesn't
// exist` both yield "users".
func quotedIdent(msg string) string {
	for _, q := range []byte{'"', '\''} {
		start := strings.IndexByte(msg, q)
		if start < 0 {
			continue
		}
		rest := msg[start+1:]
		end := strings.IndexByte(rest, q)
		if end < 0 {
			continue
		}
		ident := rest[:end]
		if dot := strings.LastIndexByte(ident, '.'); dot >= 0 {
			ident = ident[dot+1:]
		}
		return ident
	}
	return ""
}

// tableAfterMarker extracts the table name from sqlite's unquoted
// "no such table: users" message form.
func tableAfterMarker(msg string) string {
	const marker = "no such table: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexByte(rest, '('); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}
