package fhirjson

import (
	"iter"
	"strings"
)

// Find returns the node at a dot-qualified path below node. An array
// met along the path implicitly selects its first element. The second
// result is false if any path segment is absent.
func Find(node any, path string) (any, bool) {
	cur := node
	for _, seg := range strings.Split(path, ".") {
		if arr, ok := cur.([]any); ok {
			if len(arr) == 0 {
				return nil, false
			}
			cur = arr[0]
		}
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	if arr, ok := cur.([]any); ok {
		if len(arr) == 0 {
			return nil, false
		}
		cur = arr[0]
	}
	return cur, true
}

// FindAll returns a lazy sequence of every node matching the
// dot-qualified path below node. Arrays fan out at each segment and at
// the leaf, preserving document order. The sequence is finite and
// restartable.
func FindAll(node any, path string) iter.Seq[any] {
	segs := strings.Split(path, ".")
	return func(yield func(any) bool) {
		walkAll(node, segs, yield)
	}
}

func walkAll(node any, segs []string, yield func(any) bool) bool {
	if arr, ok := node.([]any); ok {
		for _, item := range arr {
			if !walkAll(item, segs, yield) {
				return false
			}
		}
		return true
	}
	if len(segs) == 0 {
		return yield(node)
	}
	obj, ok := node.(map[string]any)
	if !ok {
		return true
	}
	child, ok := obj[segs[0]]
	if !ok {
		return true
	}
	return walkAll(child, segs[1:], yield)
}

// Predicate tests a leaf node.
type Predicate func(node any) bool

// StringValue matches a string leaf equal to want.
func StringValue(want string) Predicate {
	return func(node any) bool {
		s, ok := node.(string)
		return ok && s == want
	}
}

// Or matches if any of the predicates match.
func Or(preds ...Predicate) Predicate {
	return func(node any) bool {
		for _, p := range preds {
			if p(node) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(node any) bool {
		return !p(node)
	}
}

// FilterWith narrows seq to the elements whose node at the dot-qualified
// sub-path satisfies pred. Elements missing the sub-path never match.
func FilterWith(seq iter.Seq[any], path string, pred Predicate) iter.Seq[any] {
	return func(yield func(any) bool) {
		for node := range seq {
			leaf, ok := Find(node, path)
			if !ok || !pred(leaf) {
				continue
			}
			if !yield(node) {
				return
			}
		}
	}
}

// First returns the first element of seq.
func First(seq iter.Seq[any]) (any, bool) {
	for node := range seq {
		return node, true
	}
	return nil, false
}

// ProfileString returns the first meta.profile entry of a resource.
func ProfileString(resource any) (string, bool) {
	node, ok := Find(resource, "meta.profile")
	if !ok {
		return "", false
	}
	s, ok := node.(string)
	return s, ok
}
