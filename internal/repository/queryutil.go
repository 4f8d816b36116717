package repository

import "strings"

// placeholders returns n comma-separated SQL placeholders ("?, ?, ?")
// for use in IN clauses and bulk inserts.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ",")
}

// idArgs converts a slice of IDs into the []interface{} form expected
// by database/sql query methods.
func idArgs(ids []uint64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
