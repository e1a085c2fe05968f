package analysis

// SectionType determines which renderer handles a node's own payload.
// Values mirror the report producer's type enumeration; anything else is
// treated as unknown and renders nothing.
type SectionType string

const (
	SectionNormal     SectionType = "section_normal"
	SectionKeyMetrics SectionType = "section_key_metrics"
	SectionContainer  SectionType = "section_container"
	SectionChart      SectionType = "section_chart"
	SectionText       SectionType = "section_text"
	SectionTable      SectionType = "section_table"
	SectionUpload     SectionType = "section_upload"
)

// Known reports whether the type is part of the declared enumeration.
func (t SectionType) Known() bool {
	switch t {
	case SectionNormal, SectionKeyMetrics, SectionContainer, SectionChart, SectionText, SectionTable, SectionUpload:
		return true
	}
	return false
}

// ChartType selects the chart variant for section_chart nodes.
type ChartType string

const (
	ChartBarVertical        ChartType = "bar_vertical"
	ChartBarHorizontal      ChartType = "bar_horizontal"
	ChartBarVerticalStacked ChartType = "bar_vertical_stacked"
	ChartLine               ChartType = "line"
	ChartBubbleGroup        ChartType = "bubble_group"
)

// LayoutPolicy controls how a section lays out its group subsections.
// The producer sets it explicitly via the document's "layout" field; the
// renderer never infers it from display strings.
type LayoutPolicy string

const (
	LayoutStandard           LayoutPolicy = "standard"
	LayoutAlternatingColumns LayoutPolicy = "alternating_columns"
)

// Alignment is a layout hint for subheadings and section stacks.
type Alignment string

const (
	AlignLeft       Alignment = "left"
	AlignRight      Alignment = "right"
	AlignVertical   Alignment = "vertical"
	AlignHorizontal Alignment = "horizontal"
)

// SubMetric is an indented bullet line below a metric row.
type SubMetric struct {
	ID   string
	Text string
}

// TableCell is a single table cell.
type TableCell struct {
	ID   string
	Text string
}

// TableRow is an ordered row of cells.
type TableRow struct {
	ID    string
	Cells []TableCell
}

// BubbleSubgroup is a named non-negative value inside a bubble group.
type BubbleSubgroup struct {
	Text  string
	Value float64
}

// BubbleGroup is one parent circle of the two-level bubble hierarchy.
type BubbleGroup struct {
	Text      string
	Subgroups []BubbleSubgroup
}

// Comment is an annotation anchored to one section. X/Y are pixel
// offsets relative to the anchored section's rendered top-left corner.
// ID zero means the comment is a draft that has never been saved.
type Comment struct {
	ID          int64   `json:"id,omitempty"`
	ComponentID string  `json:"componentId"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Text        string  `json:"text"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Saved reports whether the comment has been stored in the collection.
func (c Comment) Saved() bool { return c.ID != 0 }
