// Package errors provides the classified error primitives used across ion.
//
// Components never terminate the process themselves. They return errors built
// with this package and the command layer hands them to a CLIErrorAdapter,
// which prints a single-line diagnostic and picks the exit code.
//
// Key features:
//   - ErrorCategory: broad classification (config, validation, not_found, render, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: presentation and exit codes for the command line
//
// Example usage:
//
//	err := errors.TemplateNotFound(themePath).
//		WithContext("theme", name).
//		Build()
package errors
