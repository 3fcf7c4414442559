package internal

import (
	"slices"
	"weak"
)

// listenerRef is one listener identity in the registry. In weak mode it only
// holds a weak pointer, so the registry never keeps a listener alive.
type listenerRef struct {
	id     uint64
	strong *Listener
	weak   weak.Pointer[Listener]

	// registrations of this identity
	count int
}

func newListenerRef(l *Listener, weakRef bool) *listenerRef {
	ref := &listenerRef{id: l.id}
	if weakRef {
		ref.weak = weak.Make(l)
	} else {
		ref.strong = l
	}

	return ref
}

// get returns the listener, or nil once it has been collected.
func (r *listenerRef) get() *Listener {
	if r.strong != nil {
		return r.strong
	}

	return r.weak.Value()
}

// Registry is an ordered multiset of listeners. While a dispatch iterates it,
// adds and removes are logged and applied by EndDispatch.
type Registry struct {
	weak bool

	// iteration order; an identity appears once per registration
	entries []*listenerRef
	refs    map[uint64]*listenerRef

	dispatching     bool
	pendingAdds     []*Listener
	pendingRemovals map[uint64]int

	// a snapshot skipped a collected ref
	sawReclaimed bool
}

func NewRegistry(weakRefs bool) *Registry {
	return &Registry{
		weak: weakRefs,
		refs: make(map[uint64]*listenerRef),
	}
}

func (r *Registry) Add(l *Listener) {
	if r.dispatching {
		r.pendingAdds = append(r.pendingAdds, l)
		return
	}

	r.entries = append(r.entries, r.refFor(l))
	r.refs[l.id].count++
}

func (r *Registry) Remove(l *Listener) {
	if r.dispatching {
		if r.pendingRemovals == nil {
			r.pendingRemovals = make(map[uint64]int)
		}
		r.pendingRemovals[l.id]++
		return
	}

	ref, ok := r.refs[l.id]
	if !ok {
		return
	}

	if i := slices.Index(r.entries, ref); i >= 0 {
		r.entries = slices.Delete(r.entries, i, i+1)
	}

	ref.count--
	if ref.count <= 0 {
		delete(r.refs, l.id)
	}
}

// refFor returns the ref registered for l's identity, creating it if needed.
func (r *Registry) refFor(l *Listener) *listenerRef {
	ref, ok := r.refs[l.id]
	if !ok {
		ref = newListenerRef(l, r.weak)
		r.refs[l.id] = ref
	}

	return ref
}

// Live returns the listeners that are still reachable, in registration order.
// Outside a dispatch it also compacts away collected refs and reports how
// many entries were dropped.
func (r *Registry) Live() ([]*Listener, int) {
	live := make([]*Listener, 0, len(r.entries))
	dead := false
	for _, ref := range r.entries {
		if l := ref.get(); l != nil {
			live = append(live, l)
		} else {
			dead = true
		}
	}

	if !dead || r.dispatching {
		return live, 0
	}

	return live, r.compact()
}

// BeginDispatch snapshots the live listeners and starts logging mutations.
// The stored entries are left untouched.
func (r *Registry) BeginDispatch() []*Listener {
	r.dispatching = true

	snapshot := make([]*Listener, 0, len(r.entries))
	for _, ref := range r.entries {
		l := ref.get()
		if l == nil {
			r.sawReclaimed = true
			continue
		}

		snapshot = append(snapshot, l)
	}

	return snapshot
}

// EndDispatch applies the mutation log and drops collected refs. It returns
// the number of collected entries removed.
func (r *Registry) EndDispatch(disposed bool) int {
	r.dispatching = false

	if disposed {
		r.Clear()
		return 0
	}

	if !r.sawReclaimed && len(r.pendingAdds) == 0 && len(r.pendingRemovals) == 0 {
		return 0
	}

	// each pending removal consumes one occurrence of its identity, whether
	// that occurrence was registered before or during the dispatch
	removals := r.pendingRemovals
	consume := func(id uint64) bool {
		if removals[id] > 0 {
			removals[id]--
			return true
		}
		return false
	}

	next := make([]*listenerRef, 0, len(r.entries)+len(r.pendingAdds))
	reclaimed := 0
	for _, ref := range r.entries {
		if ref.get() == nil {
			reclaimed++
			continue
		}
		if consume(ref.id) {
			continue
		}

		next = append(next, ref)
	}

	for _, l := range r.pendingAdds {
		if consume(l.id) {
			continue
		}

		next = append(next, r.refFor(l))
	}

	r.rebuild(next)

	r.pendingAdds = nil
	r.pendingRemovals = nil
	r.sawReclaimed = false

	return reclaimed
}

// Clear drops every registration and the mutation log.
func (r *Registry) Clear() {
	r.entries = nil
	r.refs = make(map[uint64]*listenerRef)

	r.pendingAdds = nil
	r.pendingRemovals = nil
	r.sawReclaimed = false
}

func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) compact() int {
	next := make([]*listenerRef, 0, len(r.entries))
	for _, ref := range r.entries {
		if ref.get() != nil {
			next = append(next, ref)
		}
	}

	dropped := len(r.entries) - len(next)
	r.rebuild(next)
	r.sawReclaimed = false

	return dropped
}

// rebuild installs entries and recomputes the per-identity counts from them.
func (r *Registry) rebuild(entries []*listenerRef) {
	for _, ref := range entries {
		ref.count = 0
	}

	refs := make(map[uint64]*listenerRef, len(entries))
	for _, ref := range entries {
		ref.count++
		refs[ref.id] = ref
	}

	r.entries = entries
	r.refs = refs
}
