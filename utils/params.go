package utils

import (
	"net/http"
	"strconv"
	"strings"
)

// QueryInt reads a positive integer query parameter, falling back to def.
func QueryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil || v < 1 {
		return def
	}
	return v
}
