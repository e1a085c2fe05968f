package analysis

// BlockKind identifies what a render-tree node displays.
type BlockKind string

const (
	BlockSection    BlockKind = "section"
	BlockHeading    BlockKind = "heading"
	BlockParagraph  BlockKind = "paragraph"
	BlockMetric     BlockKind = "metric"
	BlockSubMetric  BlockKind = "submetric"
	BlockSubheading BlockKind = "subheading"
	BlockColumns    BlockKind = "columns"
	BlockColumn     BlockKind = "column"
	BlockChart      BlockKind = "chart"
	BlockBubbles    BlockKind = "bubbles"
	BlockTable      BlockKind = "table"
	BlockUpload     BlockKind = "upload"
	BlockDivider    BlockKind = "divider"
	BlockMarker     BlockKind = "marker"
	BlockCommentBox BlockKind = "comment_box"
)

// Block is one node of the pure render tree the section renderer emits.
// Fields beyond Kind are populated only where they make sense for the kind;
// templates walk Children recursively.
type Block struct {
	Kind      BlockKind
	SectionID string
	CSSClass  string
	Text      string
	Icon      string
	Align     Alignment
	Markup    string
	Table     *TableBlock
	Marker    *MarkerBlock
	Comment   *CommentBoxBlock
	Children  []Block
}

// TableBlock is the resolved table payload: a header row plus data rows.
// Empty headers/rows render an empty table, never an error.
type TableBlock struct {
	Headers []string
	Rows    []TableRow
}

// MarkerBlock positions one saved comment's marker inside its section.
type MarkerBlock struct {
	Index int
	X     float64
	Y     float64
}

// CommentBoxBlock positions the active comment editor inside its section.
type CommentBoxBlock struct {
	X           float64
	Y           float64
	Text        string
	Placeholder string
}
