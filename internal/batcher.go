package internal

type Batcher struct {
	// each nested turn increases the depth by 1
	// onComplete only runs once the outermost turn returns
	depth int
}

func NewBatcher() *Batcher {
	return &Batcher{
		depth: 0,
	}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

// Batch runs fn one level deeper. onComplete is skipped if fn panics so that
// deferred work never runs while a panic is unwinding.
func (b *Batcher) Batch(fn, onComplete func()) {
	b.depth++
	func() {
		defer func() { b.depth-- }()
		fn()
	}()

	if b.depth == 0 && onComplete != nil {
		onComplete()
	}
}
