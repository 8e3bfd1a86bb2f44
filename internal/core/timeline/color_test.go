package timeline

import (
	"fmt"
	"testing"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestHashName(t *testing.T) {
	assert.Equal(t, int32(0), HashName(""))
	assert.Equal(t, int32(97), HashName("a"))
	assert.Equal(t, int32(3105), HashName("ab"))
	assert.Equal(t, int32(2035034), HashName("Acme"))
	assert.NotEqual(t, HashName("ab"), HashName("ba"), "hash is order dependent")
}

func TestHashNameWrapsAt32Bits(t *testing.T) {
	name := "International Business Machines Corporation"
	h := HashName(name)
	idx := PaletteIndex(name, 8)
	assert.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, 8)
	if h < 0 {
		assert.Equal(t, int((-int64(h))%8), idx)
	}
}

func TestPaletteIndexMinInt32(t *testing.T) {
	// The absolute value of the most negative hash must not overflow.
	assert.NotPanics(t, func() {
		for i := 0; i < 2000; i++ {
			idx := PaletteIndex(fmt.Sprintf("entity-%d", i), 8)
			assert.True(t, idx >= 0 && idx < 8)
		}
	})
}

func TestPalettes(t *testing.T) {
	work := PaletteFor(model.CategoryWork)
	volunteer := PaletteFor(model.CategoryVolunteer)

	assert.Len(t, work, 8)
	assert.Len(t, volunteer, 8)
	for _, w := range work {
		assert.NotContains(t, volunteer, w, "palettes must be disjoint")
	}
}

func TestColorForKnownValues(t *testing.T) {
	ca := NewColorAssigner()
	assert.Equal(t, model.ColorToken("#8b5cf6"), ca.ColorFor("Acme", model.CategoryWork))
	assert.Equal(t, model.ColorToken("#84cc16"), ca.ColorFor("Acme", model.CategoryVolunteer))
}

func TestColorForDeterministic(t *testing.T) {
	names := []string{"Acme", "Food Bank", "", "Ünïcödé GmbH", "株式会社", "🚀 Rockets"}
	first := NewColorAssigner()
	second := NewColorAssigner()

	for _, name := range names {
		for _, cat := range []model.Category{model.CategoryWork, model.CategoryVolunteer} {
			c1 := first.ColorFor(name, cat)
			c2 := first.ColorFor(name, cat)
			c3 := second.ColorFor(name, cat)
			assert.Equal(t, c1, c2, "%q/%s", name, cat)
			assert.Equal(t, c1, c3, "%q/%s", name, cat)
			assert.Contains(t, PaletteFor(cat), c1)
		}
	}
}

func TestColorSameNameDifferentCategory(t *testing.T) {
	ca := NewColorAssigner()
	assert.NotEqual(t, ca.ColorFor("Acme", model.CategoryWork), ca.ColorFor("Acme", model.CategoryVolunteer))
}

func TestColorCollisionsAreAllowed(t *testing.T) {
	// 9 names into 8 slots: at least two must share a color.
	ca := NewColorAssigner()
	seen := make(map[model.ColorToken]bool)
	collided := false
	for i := 0; i < 9; i++ {
		c := ca.ColorFor(fmt.Sprintf("Company %d", i), model.CategoryWork)
		if seen[c] {
			collided = true
		}
		seen[c] = true
	}
	assert.True(t, collided)
}

func TestColorAssignerMemoizes(t *testing.T) {
	ca := NewColorAssigner()
	ca.ColorFor("Acme", model.CategoryWork)
	ca.ColorFor("Acme", model.CategoryWork)
	ca.ColorFor("Acme", model.CategoryVolunteer)

	stats := ca.CacheStats()
	assert.Equal(t, 2, stats.Entries)
	assert.EqualValues(t, 1, stats.Hits)
}
