// Package history keeps a linear undo/redo log of whole-document snapshots.
package history

import (
	"bytes"
	"fmt"
)

// Snapshot is a serialized document.
type Snapshot []byte

// Equal reports whether two snapshots hold the same bytes.
func (s Snapshot) Equal(o Snapshot) bool { return bytes.Equal(s, o) }

// Source is the document the history snapshots and restores.
type Source interface {
	Snapshot() (Snapshot, error)
	Restore(Snapshot) error
}

// Entry is one committed change. It is never mutated after creation.
type Entry struct {
	pre  Snapshot
	post Snapshot
}

func (e Entry) Pre() Snapshot  { return e.pre }
func (e Entry) Post() Snapshot { return e.post }

// History is a list of entries and a pointer p to the last applied one,
// with -1 <= p < len(entries).
type History struct {
	src      Source
	entries  []Entry
	ptr      int
	saved    Snapshot
	limit    int
	onChange func()
}

// Option configures a History.
type Option func(*History)

// WithLimit caps the number of entries kept. Older entries are dropped
// first. Zero means unlimited.
func WithLimit(n int) Option { return func(h *History) { h.limit = n } }

// WithOnChange registers a callback run after every append, undo or redo.
func WithOnChange(fn func()) Option { return func(h *History) { h.onChange = fn } }

// New creates an empty history whose baseline is the current state of src.
func New(src Source, opts ...Option) (*History, error) {
	h := &History{src: src, ptr: -1}
	for _, o := range opts {
		o(h)
	}
	if err := h.ReloadState(); err != nil {
		return nil, err
	}
	return h, nil
}

// OnChange replaces the change callback.
func (h *History) OnChange(fn func()) { h.onChange = fn }

// SavedState is the baseline the next default entry starts from.
func (h *History) SavedState() Snapshot { return h.saved }

// State returns the current snapshot of the source.
func (h *History) State() (Snapshot, error) {
	s, err := h.src.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return s, nil
}

// AppendAction records a change from pre to post. Entries after the pointer
// are discarded first so the redo tail cannot be reached any more.
func (h *History) AppendAction(pre, post Snapshot) {
	if h.ptr < len(h.entries)-1 {
		h.entries = h.entries[:h.ptr+1]
	}
	h.entries = append(h.entries, Entry{pre: pre, post: post})
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append([]Entry(nil), h.entries[drop:]...)
	}
	h.ptr = len(h.entries) - 1
	h.saved = post
	h.changed()
}

// AppendDefault records a change from the saved baseline to the current state.
func (h *History) AppendDefault() error {
	post, err := h.State()
	if err != nil {
		return err
	}
	h.AppendAction(h.saved, post)
	return nil
}

// StepBackward restores the pre state of the current entry. It is a no-op
// when there is nothing to undo.
func (h *History) StepBackward() error {
	if !h.CanUndo() {
		return nil
	}
	e := h.entries[h.ptr]
	if err := h.src.Restore(e.pre); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	h.ptr--
	h.saved = e.pre
	h.changed()
	return nil
}

// StepForward re-applies the next entry. It is a no-op when there is
// nothing to redo.
func (h *History) StepForward() error {
	if !h.CanRedo() {
		return nil
	}
	e := h.entries[h.ptr+1]
	if err := h.src.Restore(e.post); err != nil {
		return fmt.Errorf("redo: %w", err)
	}
	h.ptr++
	h.saved = e.post
	h.changed()
	return nil
}

// ReloadState resets the baseline to the current state without recording
// an entry.
func (h *History) ReloadState() error {
	s, err := h.State()
	if err != nil {
		return err
	}
	h.saved = s
	return nil
}

// Reset drops every entry and rebases on the current state.
func (h *History) Reset() error {
	h.entries = nil
	h.ptr = -1
	if err := h.ReloadState(); err != nil {
		return err
	}
	h.changed()
	return nil
}

func (h *History) CanUndo() bool { return h.ptr >= 0 && h.ptr < len(h.entries) }
func (h *History) CanRedo() bool { return h.ptr+1 < len(h.entries) }

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Pointer returns the index of the last applied entry, or -1.
func (h *History) Pointer() int { return h.ptr }

// Entries returns a copy of the log.
func (h *History) Entries() []Entry {
	return append([]Entry(nil), h.entries...)
}

func (h *History) changed() {
	if h.onChange != nil {
		h.onChange()
	}
}
