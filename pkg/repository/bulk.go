package repository

import (
	"fmt"
	"strings"
)

// BulkInsert builds a single multi-row INSERT statement for table with the
// given columns. Each row must supply exactly len(columns) values. Returns
// an empty query when rows is empty.
func BulkInsert(table string, columns []string, rows [][]any) (string, []any, error) {
	if len(rows) == 0 {
		return "", nil, nil
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("bulk insert %s: no columns", table)
	}

	var sb strings.Builder
	args := make([]any, 0, len(rows)*len(columns))

	fmt.Fprintf(&sb, "INSERT INTO %s(%s) VALUES ", table, strings.Join(columns, ", "))

	param := 1
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf(
				"bulk insert %s: row %d has %d values, want %d",
				table, i, len(row), len(columns),
			)
		}

		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteByte('(')
		for j := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", param)
			param++
		}
		sb.WriteByte(')')

		args = append(args, row...)
	}

	return sb.String(), args, nil
}
