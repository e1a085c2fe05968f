package analysis

import (
	"context"
	"fmt"

	"github.com/ettle/strcase"
)

// RendererOptions configures the section tree renderer. Every collaborator
// is provided via interface so hosts can swap implementations; omitted
// collaborators fall back to safe defaults.
type RendererOptions struct {
	Charts    ChartRenderer
	Bubbles   BubbleRenderer
	Tables    TableRenderer
	Upload    *UploadStub
	Telemetry Telemetry
}

// TreeRenderer interprets a section document and renders it into a pure
// block tree, dispatching typed payloads to the leaf renderers. Rendering
// is total over the type enumeration: unknown types produce no output and
// malformed payloads degrade to empty sub-renders, never an error.
type TreeRenderer struct {
	opts RendererOptions
}

// NewTreeRenderer builds a renderer with safe defaults.
func NewTreeRenderer(opts RendererOptions) *TreeRenderer {
	if opts.Charts == nil {
		opts.Charts = NewEChartsRenderer()
	}
	if opts.Bubbles == nil {
		opts.Bubbles = NewBubblePacker()
	}
	if opts.Tables == nil {
		opts.Tables = BasicTableRenderer{}
	}
	if opts.Upload == nil {
		opts.Upload = NewUploadStub(nil)
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &TreeRenderer{opts: opts}
}

// Render produces the ordered block stack for the document, weaving the
// overlay's comment markers and active editor into their anchored sections.
func (r *TreeRenderer) Render(ctx context.Context, doc *Document, overlay OverlayState) []Block {
	if doc == nil {
		return nil
	}
	var out []Block
	for _, ri := range doc.Roots() {
		root := doc.Node(ri)
		if root == nil || !root.Type.Known() {
			continue
		}
		out = append(out, r.renderSection(ctx, doc, root, overlay))
	}
	return out
}

func (r *TreeRenderer) renderSection(ctx context.Context, doc *Document, node *Node, overlay OverlayState) Block {
	section := Block{
		Kind:      BlockSection,
		SectionID: node.ID,
		CSSClass:  strcase.ToKebab(string(node.Type)),
	}
	var kids []Block
	if node.Title != "" || node.Icon != "" {
		kids = append(kids, Block{Kind: BlockHeading, Text: node.Title, Icon: node.Icon})
	}
	if node.Description != "" {
		kids = append(kids, Block{Kind: BlockParagraph, Text: node.Description})
	}
	for gi, idx := range node.Groups {
		group := doc.Node(idx)
		if group == nil {
			continue
		}
		kids = append(kids, r.renderGroup(ctx, doc, node, group, gi)...)
	}
	kids = append(kids, Block{Kind: BlockDivider})
	kids = append(kids, overlayBlocks(node, overlay)...)
	section.Children = kids
	return section
}

// renderGroup flattens one group of the section: its metric rows, optional
// subheading and body text, nested chart/text subsections, then the
// group's own typed payload. The upload/table/chart branches are
// independently gated on Type: a group is not consumed by the first match.
func (r *TreeRenderer) renderGroup(ctx context.Context, doc *Document, parent, group *Node, gi int) []Block {
	var out []Block

	for _, idx := range group.Items {
		item := doc.Node(idx)
		if item == nil {
			continue
		}
		out = append(out, Block{Kind: BlockMetric, Text: item.Text, Icon: item.Icon})
		for _, sub := range item.SubMetrics {
			out = append(out, Block{Kind: BlockSubMetric, Text: "-" + sub.Text})
		}
	}

	if group.Title != "" {
		align := AlignLeft
		if parent.Layout == LayoutAlternatingColumns && gi%2 == 1 {
			align = AlignRight
		}
		out = append(out, Block{Kind: BlockSubheading, Text: group.Title, Align: align})
	}
	if group.Description != "" {
		out = append(out, Block{Kind: BlockParagraph, Text: group.Description})
	}

	if parent.Layout == LayoutAlternatingColumns {
		if columns := r.renderColumns(ctx, doc, group, gi); len(columns.Children) > 0 {
			out = append(out, columns)
		}
	} else {
		for _, idx := range group.Groups {
			sub := doc.Node(idx)
			if sub == nil || sub.Type != SectionChart {
				continue
			}
			if block, ok := r.chartBlock(ctx, sub); ok {
				out = append(out, block)
			}
		}
	}

	if group.Type == SectionUpload {
		out = append(out, r.opts.Upload.Block())
	}
	if group.Type == SectionTable {
		table := r.opts.Tables.BuildTable(group.Headers, group.Rows)
		out = append(out, Block{Kind: BlockTable, Table: &table})
	}
	if group.Type == SectionChart {
		if block, ok := r.chartBlock(ctx, group); ok {
			out = append(out, block)
		}
	}
	return out
}

// renderColumns lays out a group's chart/text subsections as column pairs.
// Even group indexes lead each pair with the chart, odd indexes with the
// text; subsections of any other type are dropped silently.
func (r *TreeRenderer) renderColumns(ctx context.Context, doc *Document, group *Node, gi int) Block {
	var cells []Block
	var kinds []SectionType
	for _, idx := range group.Groups {
		sub := doc.Node(idx)
		if sub == nil {
			continue
		}
		switch sub.Type {
		case SectionChart:
			if block, ok := r.chartBlock(ctx, sub); ok {
				cells = append(cells, Block{Kind: BlockColumn, Children: []Block{block}})
				kinds = append(kinds, SectionChart)
			}
		case SectionText:
			cells = append(cells, Block{Kind: BlockColumn, Children: []Block{{Kind: BlockParagraph, Text: sub.Text}}})
			kinds = append(kinds, SectionText)
		}
	}
	chartFirst := gi%2 == 0
	for p := 0; p+1 < len(cells); p += 2 {
		if kinds[p] == kinds[p+1] {
			continue
		}
		firstIsChart := kinds[p] == SectionChart
		if firstIsChart != chartFirst {
			cells[p], cells[p+1] = cells[p+1], cells[p]
			kinds[p], kinds[p+1] = kinds[p+1], kinds[p]
		}
	}
	return Block{Kind: BlockColumns, Children: cells}
}

// chartBlock renders the node's chart payload. bubble_group payloads go to
// the bubble renderer, everything else to the chart renderer. Render
// failures are recorded and the block is skipped; the tree survives.
func (r *TreeRenderer) chartBlock(ctx context.Context, node *Node) (Block, bool) {
	if node.ChartType == ChartBubbleGroup {
		markup, err := r.opts.Bubbles.RenderBubbles(node.Bubbles)
		if err != nil {
			r.opts.Telemetry.Record(ctx, "analysis.render.bubble_error", map[string]any{
				"section_id": node.ID,
				"error":      err.Error(),
			})
			return Block{}, false
		}
		return Block{Kind: BlockBubbles, SectionID: node.ID, Markup: markup}, true
	}
	markup, err := r.opts.Charts.RenderChart(ChartSpec{
		Title:      node.Title,
		Type:       node.ChartType,
		Legend:     node.Legend,
		Categories: node.Categories,
		Series:     node.Series,
	})
	if err != nil {
		r.opts.Telemetry.Record(ctx, "analysis.render.chart_error", map[string]any{
			"section_id": node.ID,
			"chart_type": string(node.ChartType),
			"error":      err.Error(),
		})
		return Block{}, false
	}
	return Block{Kind: BlockChart, SectionID: node.ID, Markup: markup}, true
}

// overlayBlocks positions the section's comment markers and, when this
// section owns the active comment, the editor box. Coordinates are relative
// to the section's own box, so markers follow the section through reflows.
func overlayBlocks(node *Node, overlay OverlayState) []Block {
	var out []Block
	if active := overlay.Active; active != nil && active.ComponentID == node.ID {
		out = append(out, Block{
			Kind:      BlockCommentBox,
			SectionID: node.ID,
			Comment: &CommentBoxBlock{
				X:           active.X,
				Y:           active.Y,
				Text:        active.Text,
				Placeholder: fmt.Sprintf("Add your comment on %q", active.Title),
			},
		})
	}
	for index, comment := range overlay.Comments {
		if comment.ComponentID != node.ID {
			continue
		}
		out = append(out, Block{
			Kind:      BlockMarker,
			SectionID: node.ID,
			Marker:    &MarkerBlock{Index: index, X: comment.X, Y: comment.Y},
		})
	}
	return out
}
