package analysis

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
	"sync"
)

// BubbleRenderer renders a two-level grouped metric as nested circles.
type BubbleRenderer interface {
	RenderBubbles(groups []BubbleGroup) (string, error)
}

// ResizeEvent carries the new viewport dimensions.
type ResizeEvent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ResizeNotifier fans viewport-size changes out to subscribed renderers.
// Subscriptions are scoped: the cancel func must be called on teardown.
type ResizeNotifier struct {
	mu   sync.Mutex
	subs map[int]func(ResizeEvent)
	next int
}

// NewResizeNotifier builds an empty notifier.
func NewResizeNotifier() *ResizeNotifier {
	return &ResizeNotifier{subs: make(map[int]func(ResizeEvent))}
}

// Subscribe registers a listener and returns its cancel func.
func (n *ResizeNotifier) Subscribe(fn func(ResizeEvent)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Notify delivers the event to every subscriber.
func (n *ResizeNotifier) Notify(ev ResizeEvent) {
	n.mu.Lock()
	listeners := make([]func(ResizeEvent), 0, len(n.subs))
	for _, fn := range n.subs {
		listeners = append(listeners, fn)
	}
	n.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

// Subscribers reports the current listener count.
func (n *ResizeNotifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// BubblePacker lays out a bubble hierarchy with a deterministic circle
// packing (area proportional to value) and renders it as inline SVG. The
// layout recomputes on every render, so a Resize between renders reflows
// the diagram.
type BubblePacker struct {
	mu      sync.Mutex
	width   float64
	height  float64
	padding float64
	cache   RenderCache
}

// BubbleOption customizes packer behavior.
type BubbleOption func(*BubblePacker)

// WithViewport sets the initial layout dimensions.
func WithViewport(width, height float64) BubbleOption {
	return func(p *BubblePacker) {
		p.width = width
		p.height = height
	}
}

// WithBubbleCache injects a markup cache.
func WithBubbleCache(cache RenderCache) BubbleOption {
	return func(p *BubblePacker) {
		p.cache = cache
	}
}

// NewBubblePacker builds a packer with the default 800x600 viewport.
func NewBubblePacker(options ...BubbleOption) *BubblePacker {
	p := &BubblePacker{
		width:   800,
		height:  600,
		padding: 10,
		cache:   sharedMarkupCache,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Resize updates the layout viewport. Non-positive dimensions are ignored.
func (p *BubblePacker) Resize(ev ResizeEvent) {
	if ev.Width <= 0 || ev.Height <= 0 {
		return
	}
	p.mu.Lock()
	p.width = ev.Width
	p.height = ev.Height
	p.mu.Unlock()
}

// Viewport returns the current layout dimensions.
func (p *BubblePacker) Viewport() (float64, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// RenderBubbles packs the hierarchy and renders it to SVG. Zero-value
// subgroups become zero-radius nodes; an entirely empty hierarchy renders
// an empty SVG. The packing never divides by a total of zero.
func (p *BubblePacker) RenderBubbles(groups []BubbleGroup) (string, error) {
	width, height := p.Viewport()
	renderFn := func() (string, error) {
		circles := packHierarchy(groups, width, height, p.padding)
		return renderSVG(circles, width, height), nil
	}
	if p.cache != nil {
		key := fmt.Sprintf("bubbles:%.0fx%.0f:%s", width, height, specHash(groups))
		return p.cache.GetOrRender(key, renderFn)
	}
	return renderFn()
}

type packedCircle struct {
	X     float64
	Y     float64
	R     float64
	Label string
	Value float64
	// Depth 1 is a parent group, depth 2 a subgroup.
	Depth int
}

// packHierarchy computes circle positions for the two-level hierarchy.
// Sibling circles are placed greedily around the origin (largest first,
// each new circle tangent to an already placed one, as close to the center
// as possible), then the whole arrangement is scaled to fit the viewport.
func packHierarchy(groups []BubbleGroup, width, height, padding float64) []packedCircle {
	parents := make([]packedCircle, 0, len(groups))
	children := make(map[int][]packedCircle, len(groups))

	for gi, group := range groups {
		subs := make([]packedCircle, 0, len(group.Subgroups))
		for _, sub := range group.Subgroups {
			subs = append(subs, packedCircle{
				R:     math.Sqrt(math.Max(sub.Value, 0)),
				Label: sub.Text,
				Value: sub.Value,
				Depth: 2,
			})
		}
		placed := packSiblings(subs, padding)
		parents = append(parents, packedCircle{
			R:     enclosingRadius(placed) + padding,
			Label: group.Text,
			Value: groupTotal(group),
			Depth: 1,
		})
		children[gi] = placed
	}

	placedParents := packSiblings(parents, padding)

	// Scale the top-level arrangement into the viewport.
	outer := enclosingRadius(placedParents)
	scale := 1.0
	if outer > 0 {
		scale = math.Min(width, height) / 2 / outer
	}
	cx, cy := width/2, height/2

	out := make([]packedCircle, 0, len(placedParents)*2)
	for gi, parent := range placedParents {
		px := cx + parent.X*scale
		py := cy + parent.Y*scale
		out = append(out, packedCircle{
			X: px, Y: py, R: parent.R * scale,
			Label: parent.Label, Value: parent.Value, Depth: 1,
		})
		for _, child := range children[gi] {
			out = append(out, packedCircle{
				X: px + child.X*scale, Y: py + child.Y*scale, R: child.R * scale,
				Label: child.Label, Value: child.Value, Depth: 2,
			})
		}
	}
	return out
}

// packSiblings positions the circles without overlap. Placement order is by
// descending radius; candidate positions are sampled tangent to each placed
// circle and the one closest to the origin wins.
func packSiblings(circles []packedCircle, padding float64) []packedCircle {
	if len(circles) == 0 {
		return nil
	}
	order := make([]int, len(circles))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return circles[order[a]].R > circles[order[b]].R
	})

	placed := make([]packedCircle, len(circles))
	var done []int
	for n, idx := range order {
		c := circles[idx]
		if n == 0 {
			placed[idx] = c
			done = append(done, idx)
			continue
		}
		best := math.Inf(1)
		var bx, by float64
		const samples = 64
		for _, pi := range done {
			anchor := placed[pi]
			dist := anchor.R + c.R + padding
			for s := 0; s < samples; s++ {
				angle := 2 * math.Pi * float64(s) / samples
				x := anchor.X + dist*math.Cos(angle)
				y := anchor.Y + dist*math.Sin(angle)
				if overlaps(placed, done, x, y, c.R, padding) {
					continue
				}
				if d := math.Hypot(x, y); d < best {
					best = d
					bx, by = x, y
				}
			}
		}
		if math.IsInf(best, 1) {
			// Every sampled spot collided; fall back to stacking rightwards.
			last := placed[done[len(done)-1]]
			bx = last.X + last.R + c.R + padding
			by = last.Y
		}
		c.X, c.Y = bx, by
		placed[idx] = c
		done = append(done, idx)
	}
	return placed
}

func overlaps(placed []packedCircle, done []int, x, y, r, padding float64) bool {
	const eps = 1e-6
	for _, pi := range done {
		other := placed[pi]
		if math.Hypot(x-other.X, y-other.Y)+eps < r+other.R+padding {
			return true
		}
	}
	return false
}

func enclosingRadius(circles []packedCircle) float64 {
	var max float64
	for _, c := range circles {
		if extent := math.Hypot(c.X, c.Y) + c.R; extent > max {
			max = extent
		}
	}
	return max
}

func groupTotal(group BubbleGroup) float64 {
	var total float64
	for _, sub := range group.Subgroups {
		total += math.Max(sub.Value, 0)
	}
	return total
}

func renderSVG(circles []packedCircle, width, height float64) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg class="bubble-hierarchy" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" xmlns="http://www.w3.org/2000/svg">`,
		width, height, width, height)
	for _, c := range circles {
		fill := "rgba(177, 192, 207, 1)"
		opacity := "1"
		if c.Depth == 1 {
			fill = "rgba(42, 56, 82, 0.8)"
			opacity = "0.8"
		}
		fmt.Fprintf(&b, `<g transform="translate(%.2f,%.2f)">`, c.X, c.Y)
		fmt.Fprintf(&b,
			`<circle r="%.2f" fill="%s" stroke="#fff" stroke-width="2" opacity="%s"/>`,
			c.R, fill, opacity)
		if label := labelMarkup(c); label != "" {
			b.WriteString(label)
		}
		if c.Depth == 1 {
			fmt.Fprintf(&b, `<title>%s Total Value: %s</title>`, html.EscapeString(c.Label), formatValue(c.Value))
		} else {
			fmt.Fprintf(&b, `<title>%s Value: %s</title>`, html.EscapeString(c.Label), formatValue(c.Value))
		}
		b.WriteString(`</g>`)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func labelMarkup(c packedCircle) string {
	if c.Label == "" || c.R <= 0 {
		return ""
	}
	size := math.Min(2*c.R/float64(len(c.Label)), 12)
	if size < 1 {
		return ""
	}
	if c.Depth == 1 {
		// Parent labels sit near the top of the circle.
		return fmt.Sprintf(
			`<text text-anchor="middle" dy="-%.2f" font-size="%.1f" fill="#333">%s</text>`,
			c.R-10, size, html.EscapeString(c.Label))
	}
	return fmt.Sprintf(
		`<text text-anchor="middle" dy="0.35em" font-size="%.1f" fill="#333">%s</text>`,
		size, html.EscapeString(c.Label))
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
