//go:generate go run ./internal/tools/schemadoc -output docs/SCHEMA.md

package starschema
