package embedded

import (
	"embed"
)

// FS embeds the canonical target documents at build time.
//
//go:embed targets/*
var FS embed.FS

// CanonicalTarget is the embedded path of the astrology_charts target: the
// additive migration that brings production tables up to the enhanced chart
// shape (house positions, JSON feature columns, update trigger).
const CanonicalTarget = "targets/astrology_charts.yaml"

// ReadCanonicalTarget returns the raw canonical target document.
func ReadCanonicalTarget() ([]byte, error) {
	return FS.ReadFile(CanonicalTarget)
}
