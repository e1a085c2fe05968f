package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// legacyAlternatingTitle is the section title the original report producer
// used to request the two-column alternating layout before the explicit
// "layout" field existed. Decoding maps it onto LayoutAlternatingColumns so
// older documents keep rendering the same way.
const legacyAlternatingTitle = "Billd Insurance Pricing"

// Node is one entry in the document arena. Top-level sections, their
// groups, group items and item subsections all share this shape; a node's
// Type decides which payload fields are meaningful and everything else is
// carried but ignored.
type Node struct {
	ID          string
	Type        SectionType
	Title       string
	Description string
	Icon        string
	Text        string
	Layout      LayoutPolicy
	Align       Alignment
	Legend      []string
	Categories  []string
	Series      map[string][]float64
	Bubbles     []BubbleGroup
	ChartType   ChartType
	Headers     []string
	Rows        []TableRow
	SubMetrics  []SubMetric

	// Child node indexes into the owning Document arena. Groups holds the
	// node's "sections" children, Items its "items" children.
	Groups []int
	Items  []int
}

// Document is an arena of section nodes addressed by index, with explicit
// child index lists instead of nested owned structures. Traversal never
// recurses deeper than the arena is wide, so pathological nesting cannot
// exhaust the call stack.
type Document struct {
	nodes []Node
	roots []int
}

// DecodeDocument parses a JSON array of top-level sections into an arena.
// Decoding is tolerant: missing arrays become empty, payload fields with
// the wrong shape are dropped, and unknown section types are preserved so
// the renderer can skip them. Only malformed JSON returns an error.
func DecodeDocument(data []byte) (*Document, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("analysis: decode document: %w", err)
	}
	doc := &Document{}
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		doc.roots = append(doc.roots, doc.addNode(m))
	}
	return doc, nil
}

// Roots returns the indexes of the top-level sections in document order.
func (d *Document) Roots() []int { return d.roots }

// Node returns the arena node at the given index, or nil when out of range.
func (d *Document) Node(idx int) *Node {
	if idx < 0 || idx >= len(d.nodes) {
		return nil
	}
	return &d.nodes[idx]
}

// Len reports how many nodes the arena holds.
func (d *Document) Len() int { return len(d.nodes) }

func (d *Document) addNode(m map[string]any) int {
	node := Node{
		ID:          idValue(m["id"]),
		Type:        SectionType(stringValue(m["type"], "")),
		Title:       stringValue(m["title"], ""),
		Description: stringValue(m["description"], ""),
		Icon:        stringValue(m["icon"], ""),
		Text:        stringValue(m["text"], ""),
		Align:       Alignment(stringValue(m["alignSections"], "")),
		ChartType:   ChartType(stringValue(m["chartType"], "")),
		Legend:      stringSliceValue(m["legend"]),
		Categories:  stringSliceValue(m["categories"]),
		Headers:     stringSliceValue(m["headers"]),
		Rows:        parseTableRows(m["rows"]),
		SubMetrics:  parseSubMetrics(m["subMetrics"]),
	}
	node.Series, node.Bubbles = parseChartData(m["data"])
	node.Layout = layoutPolicy(m)

	idx := len(d.nodes)
	d.nodes = append(d.nodes, node)

	for _, child := range anySlice(m["sections"]) {
		cm, ok := child.(map[string]any)
		if !ok {
			continue
		}
		ci := d.addNode(cm)
		d.nodes[idx].Groups = append(d.nodes[idx].Groups, ci)
	}
	for _, child := range anySlice(m["items"]) {
		cm, ok := child.(map[string]any)
		if !ok {
			continue
		}
		ci := d.addNode(cm)
		d.nodes[idx].Items = append(d.nodes[idx].Items, ci)
	}
	return idx
}

func layoutPolicy(m map[string]any) LayoutPolicy {
	switch LayoutPolicy(stringValue(m["layout"], "")) {
	case LayoutAlternatingColumns:
		return LayoutAlternatingColumns
	case LayoutStandard:
		return LayoutStandard
	}
	if stringValue(m["title"], "") == legacyAlternatingTitle {
		return LayoutAlternatingColumns
	}
	return LayoutStandard
}

// parseChartData interprets the polymorphic "data" payload: an object maps
// series names to numeric sequences, an array is a bubble hierarchy.
func parseChartData(v any) (map[string][]float64, []BubbleGroup) {
	switch val := v.(type) {
	case map[string]any:
		series := make(map[string][]float64, len(val))
		for name, points := range val {
			series[name] = floatSliceValue(points)
		}
		if len(series) == 0 {
			return nil, nil
		}
		return series, nil
	case []any:
		return nil, parseBubbleGroups(val)
	default:
		return nil, nil
	}
}

func parseBubbleGroups(items []any) []BubbleGroup {
	groups := make([]BubbleGroup, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		group := BubbleGroup{Text: stringValue(m["text"], "")}
		for _, sub := range anySlice(m["subgroups"]) {
			sm, ok := sub.(map[string]any)
			if !ok {
				continue
			}
			value := float64Value(sm["value"])
			if value < 0 {
				value = 0
			}
			group.Subgroups = append(group.Subgroups, BubbleSubgroup{
				Text:  stringValue(sm["text"], ""),
				Value: value,
			})
		}
		groups = append(groups, group)
	}
	if len(groups) == 0 {
		return nil
	}
	return groups
}

func parseTableRows(v any) []TableRow {
	var rows []TableRow
	for _, item := range anySlice(v) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		row := TableRow{ID: idValue(m["id"])}
		cells := anySlice(m["data"])
		if cells == nil {
			cells = anySlice(m["cells"])
		}
		for _, cell := range cells {
			cm, ok := cell.(map[string]any)
			if !ok {
				continue
			}
			row.Cells = append(row.Cells, TableCell{
				ID:   idValue(cm["id"]),
				Text: stringValue(cm["text"], ""),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func parseSubMetrics(v any) []SubMetric {
	var subs []SubMetric
	for _, item := range anySlice(v) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		subs = append(subs, SubMetric{
			ID:   idValue(m["id"]),
			Text: stringValue(m["text"], ""),
		})
	}
	return subs
}

// seriesNames returns the node's series keys in legend order when the legend
// covers them, otherwise sorted for deterministic output.
func seriesNames(legend []string, series map[string][]float64) []string {
	if len(series) == 0 {
		return nil
	}
	if len(legend) > 0 {
		covered := true
		for _, name := range legend {
			if _, ok := series[name]; !ok {
				covered = false
				break
			}
		}
		if covered {
			return legend
		}
	}
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func anySlice(v any) []any {
	items, _ := v.([]any)
	return items
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

// idValue coerces identifiers that producers emit as either numbers or
// strings into their canonical string form.
func idValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

func stringSliceValue(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

func floatSliceValue(v any) []float64 {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		out = append(out, float64Value(item))
	}
	return out
}
