package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bubbleFixture() []BubbleGroup {
	return []BubbleGroup{
		{Text: "Small Business", Subgroups: []BubbleSubgroup{
			{Text: "Contractors", Value: 48},
			{Text: "Retail", Value: 30},
		}},
		{Text: "Enterprise", Subgroups: []BubbleSubgroup{
			{Text: "Logistics", Value: 64},
		}},
	}
}

func TestBubblePackerRendersSVG(t *testing.T) {
	packer := NewBubblePacker(WithBubbleCache(nil))

	svg, err := packer.RenderBubbles(bubbleFixture())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(svg, `<svg class="bubble-hierarchy"`))
	assert.Contains(t, svg, "Small Business Total Value: 78")
	assert.Contains(t, svg, "Logistics Value: 64")
}

func TestBubblePackerZeroValues(t *testing.T) {
	packer := NewBubblePacker(WithBubbleCache(nil))

	svg, err := packer.RenderBubbles([]BubbleGroup{
		{Text: "Empty", Subgroups: []BubbleSubgroup{{Text: "Nothing", Value: 0}}},
	})
	require.NoError(t, err)
	assert.Contains(t, svg, "Empty Total Value: 0")
	assert.NotContains(t, svg, "NaN")
	assert.NotContains(t, svg, "Inf")

	svg, err = packer.RenderBubbles(nil)
	require.NoError(t, err)
	assert.Contains(t, svg, "</svg>", "an empty hierarchy still renders a well-formed SVG")
}

func TestPackSiblingsNoOverlap(t *testing.T) {
	circles := []packedCircle{{R: 10}, {R: 8}, {R: 6}, {R: 4}, {R: 2}}
	placed := packSiblings(circles, 2)
	require.Len(t, placed, len(circles))

	for i := range placed {
		for j := i + 1; j < len(placed); j++ {
			dist := math.Hypot(placed[i].X-placed[j].X, placed[i].Y-placed[j].Y)
			min := placed[i].R + placed[j].R
			assert.GreaterOrEqual(t, dist+1e-6, min, "circles %d and %d overlap", i, j)
		}
	}
}

func TestPackHierarchyChildrenInsideParents(t *testing.T) {
	circles := packHierarchy(bubbleFixture(), 800, 600, 10)

	var parent *packedCircle
	for i := range circles {
		c := circles[i]
		switch c.Depth {
		case 1:
			parent = &circles[i]
		case 2:
			require.NotNil(t, parent)
			dist := math.Hypot(c.X-parent.X, c.Y-parent.Y)
			assert.LessOrEqual(t, dist+c.R, parent.R+1e-6,
				"child %q escapes parent %q", c.Label, parent.Label)
		}
	}
}

func TestBubblePackerResize(t *testing.T) {
	packer := NewBubblePacker(WithBubbleCache(nil), WithViewport(800, 600))

	packer.Resize(ResizeEvent{Width: 400, Height: 300})
	w, h := packer.Viewport()
	assert.Equal(t, float64(400), w)
	assert.Equal(t, float64(300), h)

	packer.Resize(ResizeEvent{Width: -1, Height: 300})
	w, _ = packer.Viewport()
	assert.Equal(t, float64(400), w, "non-positive dimensions are ignored")

	svg, err := packer.RenderBubbles(bubbleFixture())
	require.NoError(t, err)
	assert.Contains(t, svg, `width="400"`)
}

func TestResizeNotifierSubscribeCancel(t *testing.T) {
	notifier := NewResizeNotifier()
	var got []ResizeEvent
	cancel := notifier.Subscribe(func(ev ResizeEvent) { got = append(got, ev) })
	assert.Equal(t, 1, notifier.Subscribers())

	notifier.Notify(ResizeEvent{Width: 100, Height: 50})
	require.Len(t, got, 1)
	assert.Equal(t, float64(100), got[0].Width)

	cancel()
	assert.Equal(t, 0, notifier.Subscribers())
	notifier.Notify(ResizeEvent{Width: 1, Height: 1})
	assert.Len(t, got, 1)
}
