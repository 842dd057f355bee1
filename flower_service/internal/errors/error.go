// Package errors provides custom error types for flower catalog operations.
package errors

import "errors"

var ErrFlowerNotFound = errors.New("flower not found")
