package envscript

import (
	"fmt"

	"github.com/inoxlang/hypenv/internal/hypenv"
	"github.com/inoxlang/hypenv/internal/memds"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/btree"
)

// A Session holds the current store of a scenario and named indexes (handles) into it.
// After each operation all handles are rebased so that they keep pointing to the same items,
// handles pointing to removed items are dropped. A Session is not thread safe.
type Session struct {
	id      ulid.ULID
	store   hypenv.Envs[string]
	handles *btree.Map[string, hypenv.Index]
	dropped []string
	logger  zerolog.Logger
}

func NewSession(store hypenv.Envs[string], logger zerolog.Logger) *Session {
	id := ulid.Make()

	return &Session{
		id:      id,
		store:   store,
		handles: new(btree.Map[string, hypenv.Index]),
		logger:  logger.With().Str("session", id.String()).Logger(),
	}
}

func (s *Session) ID() ulid.ULID {
	return s.id
}

func (s *Session) Store() hypenv.Envs[string] {
	return s.store
}

// Handle returns the current index of a handle.
func (s *Session) Handle(name string) (hypenv.Index, bool) {
	return s.handles.Get(name)
}

// HandleNames returns the names of the current handles in lexical order.
func (s *Session) HandleNames() []string {
	return s.handles.Keys()
}

// DroppedHandles returns the names of the handles that have been dropped because their item was removed.
func (s *Session) DroppedHandles() []string {
	return append([]string(nil), s.dropped...)
}

// Bind creates (or overwrites) a handle pointing to the item at position i of region.
func (s *Session) Bind(name string, region hypenv.Region, i int) error {
	index, err := s.store.IndexOf(region, i)
	if err != nil {
		return err
	}
	s.bind(name, index)
	return nil
}

func (s *Session) bind(name string, index hypenv.Index) {
	s.handles.Set(name, index)
	s.logger.Debug().Str("handle", name).Stringer("index", index).Msg("handle bound")
}

// Lookup returns the region and the item a handle points to.
func (s *Session) Lookup(name string) (hypenv.Region, string, error) {
	index, err := s.getHandle(name)
	if err != nil {
		return false, "", err
	}
	region, item := s.store.Lookup(index)
	return region, item, nil
}

// Append appends an item to a region, if as is not empty a handle with this name is bound to the new item.
func (s *Session) Append(region hypenv.Region, item string, as string) {
	newIndex := s.store.IndexAfterAppend(region)
	oldStore := s.store
	s.store = s.store.Append(region, item)

	s.rebaseAll(func(name string, index hypenv.Index) (hypenv.Index, bool) {
		return hypenv.RebaseAfterAppend(oldStore, region, index), true
	})

	if as != "" {
		s.bind(as, newIndex)
	}
}

// Delete deletes the item pointed to by a handle (see hypenv.Envs.Delete).
func (s *Session) Delete(name string, removeFromIntuitionistic bool) error {
	deleted, err := s.getHandle(name)
	if err != nil {
		return err
	}

	oldStore := s.store
	s.store = s.store.Delete(removeFromIntuitionistic, deleted)
	noop := isNoopDeletion(deleted, removeFromIntuitionistic)

	s.rebaseAll(func(name string, index hypenv.Index) (hypenv.Index, bool) {
		if index.SameSlot(deleted) {
			return index, noop
		}
		return hypenv.UpdateIndexAfterDelete(oldStore, removeFromIntuitionistic, deleted, index), true
	})
	return nil
}

// Replace replaces the item pointed to by a handle (see hypenv.Envs.Replace), if as is not empty a handle with
// this name is bound to the new item.
func (s *Session) Replace(name string, removeFromIntuitionistic bool, target hypenv.Region, item string, as string) error {
	replaced, err := s.getHandle(name)
	if err != nil {
		return err
	}

	oldStore := s.store
	newStore, newIndex := s.store.ReplaceIndex(removeFromIntuitionistic, replaced, target, item)
	s.store = newStore
	noop := isNoopDeletion(replaced, removeFromIntuitionistic)

	var rebaseErr error
	s.rebaseAll(func(name string, index hypenv.Index) (hypenv.Index, bool) {
		if index.SameSlot(replaced) {
			if !noop {
				return index, false
			}
			//the kept item may have been moved by the append.
			return hypenv.RebaseAfterAppend(oldStore, target, index), true
		}
		rebased, err := hypenv.RebaseAfterReplace(oldStore, removeFromIntuitionistic, replaced, index, target)
		if err != nil && rebaseErr == nil {
			rebaseErr = err
		}
		return rebased, err == nil
	})

	if as != "" {
		s.bind(as, newIndex)
	}
	return rebaseErr
}

// Split splits the store (see hypenv.Envs.Split) and only keeps one of the two parts.
func (s *Session) Split(mask memds.Mask, keep hypenv.Side) error {
	if keep != hypenv.Left && keep != hypenv.Right {
		return fmt.Errorf("invalid side: %s", keep)
	}

	left, right, err := s.store.SplitChecked(mask)
	if err != nil {
		return err
	}

	oldStore := s.store
	if keep == hypenv.Left {
		s.store = left
	} else {
		s.store = right
	}

	s.rebaseAll(func(name string, index hypenv.Index) (hypenv.Index, bool) {
		side, rebased := hypenv.RebaseAfterSplit(oldStore, mask, index)
		return rebased, side == hypenv.Both || side == keep
	})
	return nil
}

// ClearSpatial empties the spatial region, handles into the spatial region are dropped.
func (s *Session) ClearSpatial() {
	s.store = s.store.ClearSpatial()

	s.rebaseAll(func(name string, index hypenv.Index) (hypenv.Index, bool) {
		return index, index.Region() == hypenv.Intuitionistic
	})
}

// rebaseAll replaces the handle table by a new one, rebase returns the new index of a handle or false if the handle
// should be dropped.
func (s *Session) rebaseAll(rebase func(name string, index hypenv.Index) (hypenv.Index, bool)) {
	handles := new(btree.Map[string, hypenv.Index])

	s.handles.Scan(func(name string, index hypenv.Index) bool {
		newIndex, keep := rebase(name, index)
		if keep {
			handles.Set(name, newIndex)
			if newIndex != index {
				s.logger.Debug().Str("handle", name).Stringer("from", index).Stringer("to", newIndex).Msg("handle rebased")
			}
		} else {
			s.dropped = append(s.dropped, name)
			s.logger.Debug().Str("handle", name).Stringer("index", index).Msg("handle dropped")
		}
		return true
	})

	s.handles = handles
}

func (s *Session) getHandle(name string) (hypenv.Index, error) {
	index, ok := s.handles.Get(name)
	if !ok {
		return hypenv.Index{}, fmt.Errorf("%w %q", ErrUnknownHandle, name)
	}
	return index, nil
}

func isNoopDeletion(deleted hypenv.Index, removeFromIntuitionistic bool) bool {
	return deleted.Region() == hypenv.Intuitionistic && !removeFromIntuitionistic
}
