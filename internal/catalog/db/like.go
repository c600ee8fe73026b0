package db

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike lowercases s and neutralizes LIKE wildcards typed by the caller.
func escapeLike(s string) string {
	return likeEscaper.Replace(strings.ToLower(s))
}
