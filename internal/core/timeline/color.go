package timeline

import (
	"unicode/utf16"

	"github.com/penwyp/go-career-timeline/internal/core/cache"
	"github.com/penwyp/go-career-timeline/internal/core/model"
)

// Work and volunteer palettes are disjoint so categories stay visually apart.
var (
	workPalette = []model.ColorToken{
		"#3b82f6", "#6366f1", "#8b5cf6", "#0ea5e9",
		"#06b6d4", "#14b8a6", "#2563eb", "#7c3aed",
	}
	volunteerPalette = []model.ColorToken{
		"#10b981", "#22c55e", "#84cc16", "#f59e0b",
		"#f97316", "#ef4444", "#ec4899", "#eab308",
	}
)

// PaletteFor returns the palette used for category
func PaletteFor(category model.Category) []model.ColorToken {
	if category == model.CategoryVolunteer {
		return volunteerPalette
	}
	return workPalette
}

type colorKey struct {
	name     string
	category model.Category
}

// ColorAssigner maps (entity, category) to a palette color by name hash.
// Distinct names may share a color; there is no collision avoidance.
type ColorAssigner struct {
	memo *cache.MemoryCache[colorKey, model.ColorToken]
}

func NewColorAssigner() *ColorAssigner {
	return &ColorAssigner{
		memo: cache.NewMemoryCache[colorKey, model.ColorToken](),
	}
}

// ColorFor returns the color for entityName within category
func (ca *ColorAssigner) ColorFor(entityName string, category model.Category) model.ColorToken {
	return ca.memo.GetOrCompute(colorKey{name: entityName, category: category}, func() model.ColorToken {
		return colorFor(entityName, category)
	})
}

// CacheStats exposes memo effectiveness for debug logging
func (ca *ColorAssigner) CacheStats() cache.Stats {
	return ca.memo.Stats()
}

func colorFor(entityName string, category model.Category) model.ColorToken {
	palette := PaletteFor(category)
	return palette[PaletteIndex(entityName, len(palette))]
}

// HashName is the order-dependent string hash h = (h<<5) - h + c over
// UTF-16 code units, wrapping at 32 bits.
func HashName(name string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(name)) {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// PaletteIndex reduces the absolute hash of name modulo size
func PaletteIndex(name string, size int) int {
	h := int64(HashName(name))
	if h < 0 {
		h = -h
	}
	return int(h % int64(size))
}
