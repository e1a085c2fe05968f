package analysis

import (
	"strings"
	"sync"
	"time"
)

// OverlayState is the comment-overlay state machine as a pure value: the
// saved comment collection plus the single active slot. Nil Active is the
// idle state; an Active comment with a zero ID is an unsaved draft, a
// non-zero ID means an existing comment is being edited. Transition methods
// return a new state and never mutate the receiver's slices in place.
type OverlayState struct {
	Comments []Comment
	Active   *Comment
}

// Annotate starts a draft anchored to the given section at the pointer
// offset, pre-filling title and description from the section for context.
// Any previously active comment is replaced; there is never more than one.
func (s OverlayState) Annotate(section *Node, x, y float64) OverlayState {
	if section == nil {
		return s
	}
	s.Active = &Comment{
		ComponentID: section.ID,
		X:           x,
		Y:           y,
		Title:       section.Title,
		Description: section.Description,
	}
	return s
}

// Activate loads the saved comment at the given collection index into the
// active slot for editing. Out-of-range indexes leave the state unchanged.
func (s OverlayState) Activate(index int) OverlayState {
	if index < 0 || index >= len(s.Comments) {
		return s
	}
	loaded := s.Comments[index]
	s.Active = &loaded
	return s
}

// SetText replaces the active comment's text. No-op while idle.
func (s OverlayState) SetText(text string) OverlayState {
	if s.Active == nil {
		return s
	}
	edited := *s.Active
	edited.Text = text
	s.Active = &edited
	return s
}

// Submit commits the active comment and returns to idle. Non-empty text
// either appends a newly identified comment or replaces the saved entry in
// place; empty text deletes a previously saved comment. Drafts submitted
// empty simply vanish.
func (s OverlayState) Submit(now int64) OverlayState {
	if s.Active == nil {
		return s
	}
	active := *s.Active
	out := OverlayState{Comments: s.Comments}
	if strings.TrimSpace(active.Text) != "" {
		if !active.Saved() {
			active.ID = nextCommentID(s.Comments, now)
			out.Comments = append(cloneComments(s.Comments), active)
		} else {
			cloned := cloneComments(s.Comments)
			for i := range cloned {
				if cloned[i].ID == active.ID {
					cloned[i] = active
				}
			}
			out.Comments = cloned
		}
	} else if active.Saved() {
		out.Comments = dropComment(s.Comments, active.ID)
	}
	return out
}

// Dismiss abandons the active comment without the submit logic: in-progress
// edits are lost but the saved collection is untouched.
func (s OverlayState) Dismiss() OverlayState {
	s.Active = nil
	return s
}

// nextCommentID derives a fresh id from the creation timestamp, stepping
// past any collisions so ids stay unique within the collection.
func nextCommentID(comments []Comment, now int64) int64 {
	if now <= 0 {
		now = 1
	}
	id := now
	for taken(comments, id) {
		id++
	}
	return id
}

func taken(comments []Comment, id int64) bool {
	for _, c := range comments {
		if c.ID == id {
			return true
		}
	}
	return false
}

func cloneComments(comments []Comment) []Comment {
	if len(comments) == 0 {
		return nil
	}
	return append([]Comment(nil), comments...)
}

func dropComment(comments []Comment, id int64) []Comment {
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if c.ID != id {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Board wraps the overlay reducer with a mutex so HTTP handlers can drive
// it concurrently. Each analysis view owns exactly one board; boards are
// discarded with their view and never persisted.
type Board struct {
	mu    sync.Mutex
	state OverlayState
	now   func() int64
}

// NewBoard builds an idle board using creation timestamps for comment ids.
func NewBoard() *Board {
	return &Board{now: func() int64 { return time.Now().UnixMilli() }}
}

// Annotate starts a draft on the given section.
func (b *Board) Annotate(section *Node, x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = b.state.Annotate(section, x, y)
}

// Activate loads a saved comment by collection index.
func (b *Board) Activate(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = b.state.Activate(index)
}

// SetText updates the active comment's text.
func (b *Board) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = b.state.SetText(text)
}

// Submit commits the active comment.
func (b *Board) Submit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = b.state.Submit(b.now())
}

// Dismiss abandons the active comment.
func (b *Board) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = b.state.Dismiss()
}

// Snapshot returns a copy of the current overlay state for rendering.
func (b *Board) Snapshot() OverlayState {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := OverlayState{Comments: cloneComments(b.state.Comments)}
	if b.state.Active != nil {
		active := *b.state.Active
		snap.Active = &active
	}
	return snap
}
