package memds

import (
	"fmt"
)

// An Env is an immutable ordered sequence of items, the zero value is the empty sequence.
// Operations never mutate an Env: they return a new Env that may share nodes with the
// original one, so old values remain valid.
type Env[T any] struct {
	head *envNode[T]
}

type envNode[T any] struct {
	item   T
	tail   *envNode[T]
	length int //length of the sequence starting at this node
}

func cons[T any](item T, tail *envNode[T]) *envNode[T] {
	length := 1
	if tail != nil {
		length += tail.length
	}
	return &envNode[T]{item: item, tail: tail, length: length}
}

func EmptyEnv[T any]() Env[T] {
	return Env[T]{}
}

// EnvOf returns an Env containing items in the same order.
func EnvOf[T any](items ...T) Env[T] {
	return prependAll(items, nil)
}

// prependAll returns the sequence items ++ tail.
func prependAll[T any](items []T, tail *envNode[T]) Env[T] {
	head := tail
	for i := len(items) - 1; i >= 0; i-- {
		head = cons(items[i], head)
	}
	return Env[T]{head: head}
}

func (env Env[T]) Len() int {
	if env.head == nil {
		return 0
	}
	return env.head.length
}

func (env Env[T]) IsEmpty() bool {
	return env.head == nil
}

// Index returns a Fin for position i, an error wrapping ErrIndexOutOfBounds is returned if i is not
// a valid position.
func (env Env[T]) Index(i int) (Fin, error) {
	return NewFin(i, env.Len())
}

// Append returns a new sequence with item placed after all the items of env.
func (env Env[T]) Append(item T) Env[T] {
	return prependAll(env.ToSlice(), cons(item, nil))
}

// Concat returns the sequence env ++ other, the nodes of other are shared.
func (env Env[T]) Concat(other Env[T]) Env[T] {
	if env.head == nil {
		return other
	}
	return prependAll(env.ToSlice(), other.head)
}

// Get returns the item at position index, Get panics if the index was created for a sequence
// of different length.
func (env Env[T]) Get(index Fin) T {
	index.AssertValidFor(env.Len())

	node := env.head
	for i := 0; i < index.value; i++ {
		node = node.tail
	}
	return node.item
}

// Delete returns a new sequence without the item at position index: the items located after
// index are shifted down by one position. The nodes following the removed item are shared.
func (env Env[T]) Delete(index Fin) Env[T] {
	index.AssertValidFor(env.Len())

	prefix := make([]T, 0, index.value)
	node := env.head
	for i := 0; i < index.value; i++ {
		prefix = append(prefix, node.item)
		node = node.tail
	}
	return prependAll(prefix, node.tail)
}

// Split partitions the items of env: the item at position k goes to left if mask.Test(k) is true,
// otherwise it goes to right. The relative order of items is preserved. Split panics if the
// length of the mask is not equal to the length of env, see SplitChecked.
func (env Env[T]) Split(mask Mask) (left, right Env[T]) {
	left, right, err := env.SplitChecked(mask)
	if err != nil {
		panic(err)
	}
	return
}

func (env Env[T]) SplitChecked(mask Mask) (left, right Env[T], err error) {
	if err = env.CheckMask(mask); err != nil {
		return
	}

	var leftItems, rightItems []T
	i := 0
	for node := env.head; node != nil; node = node.tail {
		if mask.Test(i) {
			leftItems = append(leftItems, node.item)
		} else {
			rightItems = append(rightItems, node.item)
		}
		i++
	}

	return EnvOf(leftItems...), EnvOf(rightItems...), nil
}

// ToSlice returns a new slice containing the items of env in order.
func (env Env[T]) ToSlice() []T {
	items := make([]T, 0, env.Len())
	for node := env.head; node != nil; node = node.tail {
		items = append(items, node.item)
	}
	return items
}

func (env Env[T]) ForEach(fn func(i int, item T) error) error {
	i := 0
	for node := env.head; node != nil; node = node.tail {
		if err := fn(i, node.item); err != nil {
			return err
		}
		i++
	}
	return nil
}

// Contains reports whether at least one item satisfies predicate.
func (env Env[T]) Contains(predicate func(item T) bool) bool {
	for node := env.head; node != nil; node = node.tail {
		if predicate(node.item) {
			return true
		}
	}
	return false
}

// ForAll reports whether all items satisfy predicate, it returns true for an empty sequence.
func (env Env[T]) ForAll(predicate func(item T) bool) bool {
	for node := env.head; node != nil; node = node.tail {
		if !predicate(node.item) {
			return false
		}
	}
	return true
}

func (env Env[T]) String() string {
	return fmt.Sprint(env.ToSlice())
}

func ForAll[T any](env Env[T], predicate func(item T) bool) bool {
	return env.ForAll(predicate)
}

func Any[T any](env Env[T], predicate func(item T) bool) bool {
	return env.Contains(predicate)
}

// EnvIterator iterates over the items of an Env, since Envs are immutable the iteration
// is not affected by operations performed on the Env.
type EnvIterator[T any] struct {
	index int
	next  *envNode[T]
	value T
}

func (env Env[T]) Iterator() *EnvIterator[T] {
	return &EnvIterator[T]{
		index: -1,
		next:  env.head,
	}
}

func (it *EnvIterator[T]) Next() bool {
	if it.next == nil {
		return false
	}
	it.value = it.next.item
	it.next = it.next.tail
	it.index++
	return true
}

func (it *EnvIterator[T]) Value() T {
	return it.value
}

func (it *EnvIterator[T]) Index() int {
	return it.index
}
