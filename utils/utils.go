package utils

import (
	"errors"
	"strings"
)

var errTrailingData = errors.New("unexpected data after JSON body")

// NormalizeCity lowercases and trims a city name so it can be used as a cache key.
func NormalizeCity(city string) string {
	return strings.Join(strings.Fields(strings.ToLower(city)), " ")
}
