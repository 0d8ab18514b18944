package models

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeCustomerID trims the id and drops a zero fractional part, so that
// "12347.0" read from a float column matches "12347" read from an int column.
func NormalizeCustomerID(raw string) string {
	s := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}
