package ledger

import "github.com/lockvote/lockvote-go/types/xerrors"

type memItems[T ILedgerItem] struct {
	gotItems     map[LedgerKey]T
	updatedItems map[LedgerKey]T
	removedKeys  []LedgerKey
}

func newMemItems[T ILedgerItem]() *memItems[T] {
	return &memItems[T]{
		gotItems:     make(map[LedgerKey]T),
		updatedItems: make(map[LedgerKey]T),
	}
}

func (m *memItems[T]) setGotItem(item T) {
	m.gotItems[item.Key()] = item
}

func (m *memItems[T]) setUpdatedItem(item T) {
	m.updatedItems[item.Key()] = item
}

func (m *memItems[T]) appendRemovedKey(key LedgerKey) {
	m.removedKeys = append(m.removedKeys, key)
}

func (m *memItems[T]) getGotItem(key LedgerKey) (T, bool) {
	item, ok := m.gotItems[key]
	return item, ok
}

func (m *memItems[T]) delGotItem(key LedgerKey) T {
	item, ok := m.gotItems[key]
	if ok {
		delete(m.gotItems, key)
	}
	return item
}

func (m *memItems[T]) delUpdatedItem(key LedgerKey) T {
	item, ok := m.updatedItems[key]
	if ok {
		delete(m.updatedItems, key)
	}
	return item
}

func (m *memItems[T]) iterateUpdatedItems(cb func(T) xerrors.XError) xerrors.XError {
	for _, item := range m.updatedItems {
		if xerr := cb(item); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (m *memItems[T]) reset() {
	m.gotItems = make(map[LedgerKey]T)
	m.updatedItems = make(map[LedgerKey]T)
	m.removedKeys = nil
}
