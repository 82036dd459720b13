package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	sqlPlaceholderRegex = regexp.MustCompile(`\$(\d+)`)
	sqlSpaceRegex       = regexp.MustCompile(`\s+`)
)

// FormatSQL substitutes PostgreSQL placeholders ($1, $2, ...) with their
// argument values and collapses whitespace, producing a single-line query
// suitable for debug logs. The result is for reading, not for execution.
func FormatSQL(query string, args ...interface{}) string {
	result := sqlPlaceholderRegex.ReplaceAllStringFunc(query, func(ph string) string {
		i, err := strconv.Atoi(ph[1:])
		if err != nil || i < 1 || i > len(args) {
			return ph
		}
		return formatSQLValue(args[i-1])
	})
	return strings.TrimSpace(sqlSpaceRegex.ReplaceAllString(result, " "))
}

func formatSQLValue(arg interface{}) string {
	switch v := arg.(type) {
	case string:
		return fmt.Sprintf("'%s'", strings.ReplaceAll(v, "'", "''"))
	case []string:
		quoted := make([]string, len(v))
		for j, s := range v {
			quoted[j] = fmt.Sprintf("'%s'", strings.ReplaceAll(s, "'", "''"))
		}
		return fmt.Sprintf("[%s]", strings.Join(quoted, ", "))
	case bool:
		return fmt.Sprintf("%t", v)
	case nil:
		return "NULL"
	default:
		return fmt.Sprintf("%v", v)
	}
}
