package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

// gte returns a ParamValidator that checks if the argument is greater than or equal to bound.
func gte(bound int64) ParamValidator {
	return func(v int64) bool { return v >= bound }
}

// gt returns a ParamValidator that checks if the argument is greater than bound.
func gt(bound int64) ParamValidator {
	return func(v int64) bool { return v > bound }
}

// QueryIntGte reads an optional integer query parameter that must be >= bound.
// A missing parameter yields def.
func QueryIntGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, bound, def int64) (int, bool) {
	return parseValidate(r, w, logger, key, def, gte(bound))
}

// QueryIntGt reads an optional integer query parameter that must be > bound.
// A missing parameter yields def.
func QueryIntGt(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, bound, def int64) (int, bool) {
	return parseValidate(r, w, logger, key, def, gt(bound))
}

func parseValidate(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, def int64, pValidator ParamValidator) (int, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return int(def), true
	}
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return 0, false
	}
	return int(intValue), true
}
