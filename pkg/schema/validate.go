package schema

import (
	"fmt"
	"regexp"

	"github.com/astrolab/starschema/pkg/constants"
	"github.com/astrolab/starschema/pkg/errors"
)

// Identifier and type shapes accepted in target documents. Names are kept to
// unquoted lowercase identifiers so catalog lookups by name behave the same
// on every engine; types admit the usual multi-word and parameterized forms
// ("double precision", "numeric(10,2)", "text[]").
var (
	identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	typePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 _(),\[\]]*$`)
)

// Validate checks the target for structural problems: missing or malformed
// names, identifiers over the engine limit, duplicate declarations, column
// additions that could not be applied to a populated table, and index
// methods that do not fit their columns. It does not touch a database.
func (t *Table) Validate() error {
	if err := validateIdent("table", t.Name); err != nil {
		return err
	}

	if t.Structures() == 0 {
		return errors.NewValidationError("table", t.Name, "target declares no columns, indexes, or trigger")
	}

	seenColumns := make(map[string]bool, len(t.Columns))
	for i, c := range t.Columns {
		field := fmt.Sprintf("columns[%d]", i)
		if err := validateIdent(field+".name", c.Name); err != nil {
			return err
		}
		if c.Type == "" {
			return errors.NewValidationError(field+".type", "", "type cannot be empty")
		}
		if !typePattern.MatchString(c.Type) {
			return errors.NewValidationError(field+".type", c.Type, "malformed type")
		}
		if c.NotNull && c.Default == nil {
			return errors.NewValidationError(field, c.Name, "NOT NULL addition requires a default on a populated table")
		}
		if seenColumns[c.Name] {
			return errors.NewValidationError(field+".name", c.Name, "duplicate column")
		}
		seenColumns[c.Name] = true
	}

	seenIndexes := make(map[string]bool, len(t.Indexes))
	for i, idx := range t.Indexes {
		field := fmt.Sprintf("indexes[%d]", i)
		if err := validateIdent(field+".name", idx.Name); err != nil {
			return err
		}
		if len(idx.Columns) == 0 {
			return errors.NewValidationError(field+".columns", "", "index must cover at least one column")
		}
		switch idx.EffectiveMethod() {
		case MethodBTree, MethodGIN:
		default:
			return errors.NewValidationError(field+".method", string(idx.Method), "unknown index method")
		}
		for _, col := range idx.Columns {
			if err := validateIdent(field+".columns", col); err != nil {
				return err
			}
			// Columns the target does not declare are assumed to pre-exist
			// on the live table; only declared columns can be checked here.
			c, declared := t.Column(col)
			if declared && idx.EffectiveMethod() == MethodGIN && !c.JSON() {
				return errors.NewValidationError(field, idx.Name,
					fmt.Sprintf("gin index requires a JSON-typed column, %s is %s", col, c.Type))
			}
		}
		if seenIndexes[idx.Name] {
			return errors.NewValidationError(field+".name", idx.Name, "duplicate index")
		}
		seenIndexes[idx.Name] = true
	}

	if t.Trigger != nil {
		if err := validateIdent("trigger.name", t.Trigger.Name); err != nil {
			return err
		}
		if err := validateIdent("trigger.function", t.Trigger.Function); err != nil {
			return err
		}
		if err := validateIdent("trigger.column", t.Trigger.Column); err != nil {
			return err
		}
	}

	return nil
}

func validateIdent(field, name string) error {
	if name == "" {
		return errors.NewValidationError(field, "", "name cannot be empty")
	}
	if len(name) > constants.MaxIdentifierLength {
		return errors.NewValidationError(field, name,
			fmt.Sprintf("name exceeds %d bytes", constants.MaxIdentifierLength))
	}
	if !identPattern.MatchString(name) {
		return errors.NewValidationError(field, name, "name must be a lowercase identifier")
	}
	return nil
}
