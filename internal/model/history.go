package model

// Observer is notified synchronously with the new current snapshot after
// every operation that moves the history cursor. Used to persist edits.
type Observer func(Snapshot)

// Producer computes the next snapshot from the current one.
type Producer func(Snapshot) Snapshot

// History is a linear undo/redo stack of snapshots with a cursor. It is
// the single authoritative state of an editing session; all reads and
// mutations of tabular data go through it.
//
// History is not safe for concurrent use. All mutation enters from the
// single UI event loop.
type History struct {
	snaps    []Snapshot
	cursor   int
	maxDepth int
	observer Observer
}

// DefaultMaxDepth bounds how many snapshots a session retains. Trimming
// only ever drops entries strictly before the cursor, so redo is never
// affected.
const DefaultMaxDepth = 200

// NewHistory seeds a history with a single snapshot.
func NewHistory(seed Snapshot) *History {
	return &History{snaps: []Snapshot{seed}, maxDepth: DefaultMaxDepth}
}

// SetObserver registers the persistence observer. Passing nil disables it.
func (h *History) SetObserver(fn Observer) { h.observer = fn }

// SetMaxDepth overrides the retained snapshot count. Values below 2
// are ignored: the current snapshot plus one undo step is the floor.
func (h *History) SetMaxDepth(n int) {
	if n >= 2 {
		h.maxDepth = n
	}
}

// Current returns the snapshot at the cursor.
func (h *History) Current() Snapshot { return h.snaps[h.cursor] }

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.snaps)-1 }
func (h *History) Len() int      { return len(h.snaps) }

// Commit applies producer to the current snapshot. A result deep-equal to
// the current snapshot is a no-op so null edits never pollute the undo
// stack. Otherwise everything after the cursor is discarded, the result is
// appended and the cursor advances. Reports whether state changed.
func (h *History) Commit(produce Producer) bool {
	next := produce(h.Current())
	return h.CommitSnapshot(next)
}

// CommitSnapshot is Commit with a precomputed snapshot.
func (h *History) CommitSnapshot(next Snapshot) bool {
	if next.Equal(h.Current()) {
		return false
	}
	h.snaps = append(h.snaps[:h.cursor+1], next)
	h.cursor++
	h.trim()
	h.notify()
	return true
}

// Undo moves the cursor back one step. No-op at the beginning.
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	h.cursor--
	h.notify()
	return true
}

// Redo moves the cursor forward one step. No-op at the end.
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.cursor++
	h.notify()
	return true
}

// Reset discards the entire history and reseeds it with a single
// snapshot. Used when the data source changes identity (new file loaded,
// explicit reset). Unlike Commit it intentionally throws undo state away.
func (h *History) Reset(seed Snapshot) {
	h.snaps = []Snapshot{seed}
	h.cursor = 0
	h.notify()
}

func (h *History) trim() {
	for len(h.snaps) > h.maxDepth && h.cursor > 0 {
		h.snaps = h.snaps[1:]
		h.cursor--
	}
}

func (h *History) notify() {
	if h.observer != nil {
		h.observer(h.Current())
	}
}
