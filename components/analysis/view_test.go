package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	payload []byte
	err     error
	calls   int
}

func (s *stubFetcher) FetchAnalysis(_ context.Context, _ string) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

const viewDocument = `[
	{"id": "root", "type": "section_normal", "title": "Overview", "sections": [
		{"id": "grp", "type": "section_text", "title": "Notes", "description": "All good."}
	]}
]`

func TestViewLoadReady(t *testing.T) {
	view := OpenView(ViewOptions{
		RequestID: "42",
		Client:    &stubFetcher{payload: []byte(viewDocument)},
	})

	state, _ := view.State()
	assert.Equal(t, StateLoading, state)

	view.Load(context.Background())
	state, msg := view.State()
	assert.Equal(t, StateReady, state)
	assert.Empty(t, msg)
	require.NotNil(t, view.Document())

	blocks := view.Render(context.Background())
	require.Len(t, blocks, 1)
	assert.Equal(t, "root", blocks[0].SectionID)
}

func TestViewLoadFetchFailure(t *testing.T) {
	view := OpenView(ViewOptions{
		RequestID: "42",
		Client:    &stubFetcher{err: errors.New("boom")},
	})

	view.Load(context.Background())
	state, msg := view.State()
	assert.Equal(t, StateError, state)
	assert.Equal(t, "Failed to fetch analysis data.", msg)
	assert.Nil(t, view.Document())
	assert.Nil(t, view.Render(context.Background()))
}

func TestViewLoadDegradesTypelessNodes(t *testing.T) {
	view := OpenView(ViewOptions{
		RequestID: "42",
		Client:    &stubFetcher{payload: []byte(`[{"id": "good", "type": "section_normal"}, {"id": "bad"}]`)},
	})

	view.Load(context.Background())
	state, _ := view.State()
	require.Equal(t, StateReady, state, "one typeless node must not fail the document")

	blocks := view.Render(context.Background())
	require.Len(t, blocks, 1)
	assert.Equal(t, "good", blocks[0].SectionID)
}

func TestViewLoadInvalidDocument(t *testing.T) {
	view := OpenView(ViewOptions{
		RequestID: "42",
		Client:    &stubFetcher{payload: []byte(`{"sections": "not an array"}`)},
	})

	view.Load(context.Background())
	state, msg := view.State()
	assert.Equal(t, StateError, state)
	assert.Equal(t, "Failed to fetch analysis data.", msg)
}

func TestViewMissingClient(t *testing.T) {
	view := OpenView(ViewOptions{RequestID: "42"})
	view.Load(context.Background())
	state, _ := view.State()
	assert.Equal(t, StateError, state)
}

func TestViewSectionLookup(t *testing.T) {
	view := OpenView(ViewOptions{
		RequestID: "42",
		Client:    &stubFetcher{payload: []byte(viewDocument)},
	})
	view.Load(context.Background())

	section := view.Section("grp")
	require.NotNil(t, section)
	assert.Equal(t, "Notes", section.Title)
	assert.Nil(t, view.Section("missing"))
}

func TestViewCloseReleasesSubscription(t *testing.T) {
	notifier := NewResizeNotifier()
	view := OpenView(ViewOptions{
		RequestID: "42",
		Client:    &stubFetcher{payload: []byte(viewDocument)},
		Resize:    notifier,
	})
	assert.Equal(t, 1, notifier.Subscribers())

	view.Close()
	assert.Equal(t, 0, notifier.Subscribers())
	view.Close()
	assert.Equal(t, 0, notifier.Subscribers(), "second close is a no-op")
}

func TestViewBoardRoundTrip(t *testing.T) {
	view := OpenView(ViewOptions{
		RequestID: "42",
		Client:    &stubFetcher{payload: []byte(viewDocument)},
	})
	view.Load(context.Background())

	board := view.Board()
	board.Annotate(view.Section("grp"), 12, 34)
	board.SetText("check this")
	board.Submit()

	blocks := view.Render(context.Background())
	markers := findBlocks(blocks, BlockMarker)
	require.Len(t, markers, 1)
	assert.Equal(t, float64(12), markers[0].Marker.X)
}
