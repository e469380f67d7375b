package errors_test

import (
	"fmt"

	"github.com/astrolab/starschema/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := errors.NewValidationError("columns[3].type", "", "type cannot be empty")

	if errors.IsValidationError(err) {
		fmt.Println("Target schema is invalid")
	}

	// Output: Target schema is invalid
}

// Example_statementError shows how engine errors surface unmodified.
func Example_statementError() {
	engineErr := errors.New("pq: must be owner of table astrology_charts")
	err := errors.NewStatementError("create index", "astrology_charts", "idx_charts_yogas", engineErr)

	fmt.Println(err)

	// Output: create index idx_charts_yogas on astrology_charts: pq: must be owner of table astrology_charts
}

// Example_wrapHelpers demonstrates nil-safe wrapping.
func Example_wrapHelpers() {
	// Wrapping nil returns nil, so call sites stay unconditional.
	if errors.WrapIO("read", "target.yaml", nil) == nil {
		fmt.Println("no error")
	}

	// Output: no error
}
