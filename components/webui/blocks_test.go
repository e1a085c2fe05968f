package webui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/billdhq/admin-console/components/analysis"
)

func TestRenderBlocksSection(t *testing.T) {
	html := RenderBlocks([]analysis.Block{
		{
			Kind:      analysis.BlockSection,
			SectionID: "sec-1",
			CSSClass:  "section-normal",
			Children: []analysis.Block{
				{Kind: analysis.BlockHeading, Text: "Overview", Icon: "📊"},
				{Kind: analysis.BlockParagraph, Text: "All lines grew."},
				{Kind: analysis.BlockDivider},
			},
		},
	})

	assert.Contains(t, html, `<section class="report-section section-normal" data-section-id="sec-1">`)
	assert.Contains(t, html, "Overview")
	assert.Contains(t, html, "<p>All lines grew.</p>")
	assert.Contains(t, html, `<hr class="section-divider"/>`)
}

func TestRenderBlocksEscapesText(t *testing.T) {
	html := RenderBlocks([]analysis.Block{
		{Kind: analysis.BlockParagraph, Text: `<script>alert("x")</script>`},
	})
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderBlocksChartMarkupIsRaw(t *testing.T) {
	html := RenderBlocks([]analysis.Block{
		{Kind: analysis.BlockChart, Markup: `<div id="echart-1"></div>`},
		{Kind: analysis.BlockBubbles, Markup: `<svg class="bubble-hierarchy"></svg>`},
	})
	assert.Contains(t, html, `<div id="echart-1"></div>`)
	assert.Contains(t, html, `<svg class="bubble-hierarchy">`)
}

func TestRenderBlocksTable(t *testing.T) {
	html := RenderBlocks([]analysis.Block{
		{Kind: analysis.BlockTable, Table: &analysis.TableBlock{
			Headers: []string{"Carrier", "Share"},
			Rows: []analysis.TableRow{
				{ID: "r1", Cells: []analysis.TableCell{{Text: "Acme"}, {Text: "22%"}}},
			},
		}},
	})
	assert.Contains(t, html, "<th>Carrier</th>")
	assert.Contains(t, html, "<td>Acme</td>")
	assert.Contains(t, html, "<td>22%</td>")

	assert.Empty(t, RenderBlocks([]analysis.Block{{Kind: analysis.BlockTable}}),
		"a table block without a payload renders nothing")
}

func TestRenderBlocksOverlay(t *testing.T) {
	html := RenderBlocks([]analysis.Block{
		{Kind: analysis.BlockMarker, Marker: &analysis.MarkerBlock{Index: 2, X: 15, Y: 25}},
		{Kind: analysis.BlockCommentBox, Comment: &analysis.CommentBoxBlock{
			X: 5, Y: 6, Text: "draft text", Placeholder: `Add your comment on "Beta"`,
		}},
	})
	assert.Contains(t, html, `data-comment-index="2"`)
	assert.Contains(t, html, ">3</button>", "markers display a one-based number")
	assert.Contains(t, html, "draft text")
	assert.Contains(t, html, "Add your comment on &#34;Beta&#34;")
}

func TestRenderBlocksColumns(t *testing.T) {
	html := RenderBlocks([]analysis.Block{
		{Kind: analysis.BlockColumns, Children: []analysis.Block{
			{Kind: analysis.BlockColumn, Children: []analysis.Block{{Kind: analysis.BlockParagraph, Text: "left"}}},
			{Kind: analysis.BlockColumn, Children: []analysis.Block{{Kind: analysis.BlockParagraph, Text: "right"}}},
		}},
	})
	assert.Contains(t, html, `<div class="columns">`)
	assert.Contains(t, html, "left")
	assert.Contains(t, html, "right")
}
