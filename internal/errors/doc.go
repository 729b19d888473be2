// Package errors provides error handling conventions for iconvault.
//
// This package defines sentinel errors for the replacement failure taxonomy,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific failure conditions
// using [errors.Is]:
//
//	if errors.Is(err, iverrors.ErrNotFound) {
//	    // target or resource missing
//	}
//
// Apply failures never corrupt the pending ledger (nothing is appended on
// failure). A rollback that fails partway is reported with
// [ErrRollbackPartial]; the steps already reverted are not re-applied.
//
// # Exit Codes
//
// The package defines standard exit codes for CLI applications:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion for CLI applications. It supports error unwrapping via
// [errors.Unwrap] and [errors.As]:
//
//	var exitErr *iverrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
