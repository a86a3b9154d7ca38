// Package errors provides the classified error primitives used across docmark.
//
// A ClassifiedError carries a category, a severity, a retry hint and a small
// context map. Errors are created through the fluent ErrorBuilder:
//
//	err := errors.WrapError(cause, errors.CategoryRender, "renderer failed").
//		WithContext("operation", "Paragraph").
//		Build()
//
// The CLI and HTTP adapters turn classified errors into exit codes and
// status codes respectively.
package errors
