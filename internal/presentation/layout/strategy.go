package layout

// LayoutStrategy picks geometry for a terminal breakpoint
type LayoutStrategy interface {
	// ColumnWidth is the width of one month cell in layout units
	ColumnWidth() float64
	// LabelWidth is the number of terminal columns reserved for row labels
	LabelWidth() int
	GetName() string
}

// CompactBreakpoint is the terminal width below which the compact layout is used
const CompactBreakpoint = 100

// DesktopStrategy is the wide layout
type DesktopStrategy struct{}

func (DesktopStrategy) ColumnWidth() float64 { return 60 }
func (DesktopStrategy) LabelWidth() int      { return 36 }
func (DesktopStrategy) GetName() string      { return "desktop" }

// CompactStrategy is the narrow layout
type CompactStrategy struct{}

func (CompactStrategy) ColumnWidth() float64 { return 40 }
func (CompactStrategy) LabelWidth() int      { return 20 }
func (CompactStrategy) GetName() string      { return "compact" }

// GetLayoutStrategy returns the strategy for a terminal width
func GetLayoutStrategy(terminalWidth int) LayoutStrategy {
	if terminalWidth < CompactBreakpoint {
		return CompactStrategy{}
	}
	return DesktopStrategy{}
}

// GetLayoutStrategyByName resolves "desktop" or "compact"; anything else is nil
func GetLayoutStrategyByName(name string) LayoutStrategy {
	strategies := map[string]LayoutStrategy{
		"desktop": DesktopStrategy{},
		"compact": CompactStrategy{},
	}
	return strategies[name]
}
