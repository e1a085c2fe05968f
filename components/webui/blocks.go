package webui

import (
	"fmt"
	"html"
	"strings"

	"github.com/billdhq/admin-console/components/analysis"
)

// RenderBlocks converts a render tree into HTML markup. Chart and bubble
// blocks carry pre-rendered markup and are injected as-is; every other text
// field is escaped here.
func RenderBlocks(blocks []analysis.Block) string {
	var b strings.Builder
	for _, block := range blocks {
		writeBlock(&b, block)
	}
	return b.String()
}

func writeBlock(b *strings.Builder, block analysis.Block) {
	switch block.Kind {
	case analysis.BlockSection:
		fmt.Fprintf(b, `<section class="report-section %s" data-section-id="%s">`,
			html.EscapeString(block.CSSClass), html.EscapeString(block.SectionID))
		writeChildren(b, block)
		b.WriteString(`</section>`)
	case analysis.BlockHeading:
		b.WriteString(`<h2 class="section-heading">`)
		if block.Icon != "" {
			fmt.Fprintf(b, `<span class="section-icon">%s</span>`, html.EscapeString(block.Icon))
		}
		b.WriteString(html.EscapeString(block.Text))
		b.WriteString(`</h2>`)
	case analysis.BlockParagraph:
		fmt.Fprintf(b, `<p>%s</p>`, html.EscapeString(block.Text))
	case analysis.BlockMetric:
		fmt.Fprintf(b, `<div class="metric">%s</div>`, html.EscapeString(block.Text))
	case analysis.BlockSubMetric:
		fmt.Fprintf(b, `<div class="submetric">%s</div>`, html.EscapeString(block.Text))
	case analysis.BlockSubheading:
		fmt.Fprintf(b, `<h3 class="align-%s">%s</h3>`,
			html.EscapeString(string(block.Align)), html.EscapeString(block.Text))
	case analysis.BlockColumns:
		b.WriteString(`<div class="columns">`)
		writeChildren(b, block)
		b.WriteString(`</div>`)
	case analysis.BlockColumn:
		b.WriteString(`<div class="column">`)
		writeChildren(b, block)
		b.WriteString(`</div>`)
	case analysis.BlockChart:
		fmt.Fprintf(b, `<div class="chart">%s</div>`, block.Markup)
	case analysis.BlockBubbles:
		fmt.Fprintf(b, `<div class="bubbles">%s</div>`, block.Markup)
	case analysis.BlockTable:
		writeTable(b, block.Table)
	case analysis.BlockUpload:
		fmt.Fprintf(b, `<div class="upload-stub"><button type="button">%s</button></div>`,
			html.EscapeString(block.Text))
	case analysis.BlockDivider:
		b.WriteString(`<hr class="section-divider"/>`)
	case analysis.BlockMarker:
		if block.Marker != nil {
			fmt.Fprintf(b,
				`<button type="button" class="comment-marker" data-comment-index="%d" style="left:%.2fpx;top:%.2fpx">%d</button>`,
				block.Marker.Index, block.Marker.X, block.Marker.Y, block.Marker.Index+1)
		}
	case analysis.BlockCommentBox:
		writeCommentBox(b, block.Comment)
	}
}

func writeChildren(b *strings.Builder, block analysis.Block) {
	for _, child := range block.Children {
		writeBlock(b, child)
	}
}

func writeTable(b *strings.Builder, table *analysis.TableBlock) {
	if table == nil {
		return
	}
	b.WriteString(`<table class="report-table"><thead><tr>`)
	for _, header := range table.Headers {
		fmt.Fprintf(b, `<th>%s</th>`, html.EscapeString(header))
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, row := range table.Rows {
		b.WriteString(`<tr>`)
		for _, cell := range row.Cells {
			fmt.Fprintf(b, `<td>%s</td>`, html.EscapeString(cell.Text))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

func writeCommentBox(b *strings.Builder, box *analysis.CommentBoxBlock) {
	if box == nil {
		return
	}
	fmt.Fprintf(b, `<form class="comment-box" method="post" style="left:%.2fpx;top:%.2fpx">`, box.X, box.Y)
	fmt.Fprintf(b, `<textarea name="text" placeholder="%s">%s</textarea>`,
		html.EscapeString(box.Placeholder), html.EscapeString(box.Text))
	b.WriteString(`<button type="submit">Save</button>`)
	b.WriteString(`<button type="button" class="dismiss">Cancel</button>`)
	b.WriteString(`</form>`)
}
