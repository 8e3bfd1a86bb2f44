package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLayoutStrategy(t *testing.T) {
	tests := []struct {
		width    int
		expected string
	}{
		{0, "compact"},
		{99, "compact"},
		{100, "desktop"},
		{240, "desktop"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetLayoutStrategy(tt.width).GetName())
	}
}

func TestGetLayoutStrategyByName(t *testing.T) {
	assert.Equal(t, DesktopStrategy{}, GetLayoutStrategyByName("desktop"))
	assert.Equal(t, CompactStrategy{}, GetLayoutStrategyByName("compact"))
	assert.Nil(t, GetLayoutStrategyByName("tablet"))
}

func TestStrategiesKeepCompactNarrower(t *testing.T) {
	desktop, compact := DesktopStrategy{}, CompactStrategy{}
	assert.Greater(t, desktop.ColumnWidth(), compact.ColumnWidth())
	assert.Greater(t, desktop.LabelWidth(), compact.LabelWidth())
}
