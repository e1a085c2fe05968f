package analysis

import (
	"context"
	"errors"
	"sync"
)

// ViewState is the fetch lifecycle exposed to the view's host.
type ViewState int

const (
	StateLoading ViewState = iota
	StateError
	StateReady
)

// DocumentFetcher retrieves the raw section document for a request id.
type DocumentFetcher interface {
	FetchAnalysis(ctx context.Context, requestID string) ([]byte, error)
}

// ViewOptions configures an analysis view instance.
type ViewOptions struct {
	RequestID string
	Client    DocumentFetcher
	Validator *DocumentValidator
	Renderer  *TreeRenderer
	Packer    *BubblePacker
	Resize    *ResizeNotifier
	Telemetry Telemetry
}

// View orchestrates one analysis page: it fetches and validates the
// section document, tracks loading/error/ready, and owns the comment board
// and the bubble packer's viewport subscription for its lifetime.
type View struct {
	mu        sync.Mutex
	requestID string
	state     ViewState
	errMsg    string
	doc       *Document

	client    DocumentFetcher
	validator *DocumentValidator
	renderer  *TreeRenderer
	packer    *BubblePacker
	board     *Board
	telemetry Telemetry

	cancelResize func()
	closed       bool
}

var errMissingClient = errors.New("analysis: document fetcher not configured")

// OpenView builds a view in the loading state and subscribes its bubble
// packer to viewport resizes. Close releases the subscription.
func OpenView(opts ViewOptions) *View {
	if opts.Validator == nil {
		opts.Validator = NewDocumentValidator()
	}
	if opts.Packer == nil {
		opts.Packer = NewBubblePacker()
	}
	if opts.Renderer == nil {
		opts.Renderer = NewTreeRenderer(RendererOptions{Bubbles: opts.Packer})
	}
	v := &View{
		requestID: opts.RequestID,
		state:     StateLoading,
		client:    opts.Client,
		validator: opts.Validator,
		renderer:  opts.Renderer,
		packer:    opts.Packer,
		board:     NewBoard(),
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
	if opts.Resize != nil {
		v.cancelResize = opts.Resize.Subscribe(v.packer.Resize)
	}
	return v
}

// Load fetches, validates, and decodes the section document, moving the
// view to ready or error. A fetch failure becomes a single user-visible
// message; the renderer is never handed a partial document.
func (v *View) Load(ctx context.Context) {
	if v.client == nil {
		v.fail(ctx, errMissingClient)
		return
	}
	raw, err := v.client.FetchAnalysis(ctx, v.requestID)
	if err != nil {
		v.fail(ctx, err)
		return
	}
	if err := v.validator.Validate(raw); err != nil {
		v.fail(ctx, err)
		return
	}
	doc, err := DecodeDocument(raw)
	if err != nil {
		v.fail(ctx, err)
		return
	}
	v.mu.Lock()
	v.state = StateReady
	v.doc = doc
	v.errMsg = ""
	v.mu.Unlock()
	v.telemetry.Record(ctx, "analysis.view.ready", map[string]any{
		"request_id": v.requestID,
		"sections":   len(doc.Roots()),
	})
}

func (v *View) fail(ctx context.Context, err error) {
	v.mu.Lock()
	v.state = StateError
	v.errMsg = "Failed to fetch analysis data."
	v.mu.Unlock()
	v.telemetry.Record(ctx, "analysis.view.error", map[string]any{
		"request_id": v.requestID,
		"error":      err.Error(),
	})
}

// State returns the current lifecycle state and the user-visible error
// message when in the error state.
func (v *View) State() (ViewState, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state, v.errMsg
}

// RequestID identifies the order under analysis.
func (v *View) RequestID() string { return v.requestID }

// Board exposes the view's comment board.
func (v *View) Board() *Board { return v.board }

// Document returns the decoded document, or nil before ready.
func (v *View) Document() *Document {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.doc
}

// Section finds the arena node with the given id, or nil.
func (v *View) Section(id string) *Node {
	doc := v.Document()
	if doc == nil {
		return nil
	}
	for i := 0; i < doc.Len(); i++ {
		if node := doc.Node(i); node.ID == id {
			return node
		}
	}
	return nil
}

// Render produces the block tree for the current document and overlay.
func (v *View) Render(ctx context.Context) []Block {
	return v.renderer.Render(ctx, v.Document(), v.board.Snapshot())
}

// Close releases the viewport subscription. Safe to call more than once
// and on views that never finished loading.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.cancelResize != nil {
		v.cancelResize()
		v.cancelResize = nil
	}
}
