package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumns is returned when a dataset lacks required columns.
// Construction must fail hard in this case, never proceed with partial
// data.
var ErrMissingColumns = errors.New("missing required columns")

func missingColumnsError(cols []string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(cols, ", "))
}
