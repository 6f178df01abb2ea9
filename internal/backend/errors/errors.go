// Package errors holds the sentinel errors of the demo data backend.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
