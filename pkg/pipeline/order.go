package pipeline

// reorderBuffer releases results in index order. Results that arrive
// early wait until every earlier index has been released.
type reorderBuffer struct {
	next    int
	pending map[int]Result
	emit    func(Result) error
}

func newReorderBuffer(emit func(Result) error) *reorderBuffer {
	if emit == nil {
		emit = func(Result) error { return nil }
	}
	return &reorderBuffer{pending: make(map[int]Result), emit: emit}
}

func (b *reorderBuffer) add(r Result) error {
	b.pending[r.Index] = r
	for {
		next, ok := b.pending[b.next]
		if !ok {
			return nil
		}
		delete(b.pending, b.next)
		b.next++
		if err := b.emit(next); err != nil {
			return err
		}
	}
}
