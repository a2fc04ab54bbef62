// Package collection provides the ordered-list editing primitive behind the
// form builder. Items are addressed by stable, caller-supplied ids rather
// than positions, so drag-reordering and duplication never invalidate
// references held by an open editor panel. Every operation is copy-on-write:
// it returns a new List and leaves the receiver untouched.
package collection

import (
	"errors"
	"fmt"
)

// ErrNotFound is reported when an operation references an id that is not in
// the collection. Callers treat it as a local no-op, not a crash.
var ErrNotFound = errors.New("collection: item not found")

// KeyFunc extracts the stable identifier for an item.
type KeyFunc[T any] func(T) string

// Target names the destination of a Move: before or after an existing item,
// or the end of the list.
type Target struct {
	before string
	after  string
	toEnd  bool
}

// Before targets the position immediately before the item with the given id.
func Before(id string) Target { return Target{before: id} }

// After targets the position immediately after the item with the given id.
func After(id string) Target { return Target{after: id} }

// ToEnd targets the end of the list.
func ToEnd() Target { return Target{toEnd: true} }

// List is an immutable ordered collection keyed by item ids.
type List[T any] struct {
	key   KeyFunc[T]
	items []T
}

// New builds a list over the given items. The key function must yield a
// unique id per item for the lifetime of the collection.
func New[T any](key KeyFunc[T], items ...T) List[T] {
	return List[T]{key: key, items: append([]T(nil), items...)}
}

// Len returns the number of items.
func (l List[T]) Len() int { return len(l.items) }

// Items returns a copy of the items in order.
func (l List[T]) Items() []T {
	return append([]T(nil), l.items...)
}

// IDs returns the item ids in order.
func (l List[T]) IDs() []string {
	ids := make([]string, 0, len(l.items))
	for _, item := range l.items {
		ids = append(ids, l.key(item))
	}
	return ids
}

// Get returns the item with the given id.
func (l List[T]) Get(id string) (T, bool) {
	if idx := l.index(id); idx >= 0 {
		return l.items[idx], true
	}
	var zero T
	return zero, false
}

// Contains reports whether an item with the given id exists.
func (l List[T]) Contains(id string) bool { return l.index(id) >= 0 }

// Append returns a list with the item added at the end.
func (l List[T]) Append(item T) List[T] {
	items := make([]T, 0, len(l.items)+1)
	items = append(items, l.items...)
	items = append(items, item)
	return List[T]{key: l.key, items: items}
}

// Insert returns a list with the item added at the target position.
func (l List[T]) Insert(item T, target Target) (List[T], error) {
	at := len(l.items)
	switch {
	case target.toEnd:
	case target.before != "":
		at = l.index(target.before)
		if at < 0 {
			return l, fmt.Errorf("%w: %q", ErrNotFound, target.before)
		}
	case target.after != "":
		at = l.index(target.after)
		if at < 0 {
			return l, fmt.Errorf("%w: %q", ErrNotFound, target.after)
		}
		at++
	}

	items := make([]T, 0, len(l.items)+1)
	items = append(items, l.items[:at]...)
	items = append(items, item)
	items = append(items, l.items[at:]...)
	return List[T]{key: l.key, items: items}, nil
}

// Update returns a list with the identified item replaced by fn's result.
func (l List[T]) Update(id string, fn func(T) T) (List[T], error) {
	idx := l.index(id)
	if idx < 0 {
		return l, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	items := append([]T(nil), l.items...)
	items[idx] = fn(items[idx])
	return List[T]{key: l.key, items: items}, nil
}

// Remove returns a list without the identified item.
func (l List[T]) Remove(id string) (List[T], error) {
	idx := l.index(id)
	if idx < 0 {
		return l, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	items := make([]T, 0, len(l.items)-1)
	items = append(items, l.items[:idx]...)
	items = append(items, l.items[idx+1:]...)
	return List[T]{key: l.key, items: items}, nil
}

// Move removes the identified item and reinserts it at the target position.
// The id multiset is preserved: no item is lost or duplicated. Moving an item
// relative to itself is a no-op.
func (l List[T]) Move(id string, target Target) (List[T], error) {
	idx := l.index(id)
	if idx < 0 {
		return l, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if target.before == id || target.after == id {
		return l, nil
	}

	item := l.items[idx]
	rest := make([]T, 0, len(l.items)-1)
	rest = append(rest, l.items[:idx]...)
	rest = append(rest, l.items[idx+1:]...)

	at := len(rest)
	switch {
	case target.toEnd:
	case target.before != "":
		at = indexOf(rest, l.key, target.before)
		if at < 0 {
			return l, fmt.Errorf("%w: %q", ErrNotFound, target.before)
		}
	case target.after != "":
		at = indexOf(rest, l.key, target.after)
		if at < 0 {
			return l, fmt.Errorf("%w: %q", ErrNotFound, target.after)
		}
		at++
	}

	items := make([]T, 0, len(l.items))
	items = append(items, rest[:at]...)
	items = append(items, item)
	items = append(items, rest[at:]...)
	return List[T]{key: l.key, items: items}, nil
}

// Duplicate clones the identified item via the clone callback, hands it a
// freshly generated id guaranteed not to collide with any id already in the
// collection, and inserts the clone immediately after the source.
func (l List[T]) Duplicate(id string, clone func(src T, newID string) T) (List[T], T, error) {
	var zero T
	idx := l.index(id)
	if idx < 0 {
		return l, zero, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	copied := clone(l.items[idx], l.NewID())
	items := make([]T, 0, len(l.items)+1)
	items = append(items, l.items[:idx+1]...)
	items = append(items, copied)
	items = append(items, l.items[idx+1:]...)
	return List[T]{key: l.key, items: items}, copied, nil
}

// NewID generates an id that is not present in the collection. Generation is
// collision-checked rather than time-based, so two ids requested within the
// same instant are still distinct.
func (l List[T]) NewID() string {
	return NewID(l.Contains)
}

func (l List[T]) index(id string) int {
	return indexOf(l.items, l.key, id)
}

func indexOf[T any](items []T, key KeyFunc[T], id string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}
