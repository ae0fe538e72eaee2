package export

import (
	"fmt"
	"io"
	"strings"
)

// WriteCSV renders rows in the report's inherited CSV dialect: every
// field wrapped in double quotes, fields comma-joined, rows joined by a
// bare newline with no trailing one.
//
// Known defect, kept on purpose: embedded double quotes in field values
// are NOT escaped, so such values produce malformed CSV. The quoting and
// column layout are the compatibility contract with existing consumers;
// do not "fix" this without coordinating a format change.
func WriteCSV(w io.Writer, rows [][]string) error {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, field := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(field)
			b.WriteByte('"')
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
