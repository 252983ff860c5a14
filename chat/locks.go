package chat

import "sync"

// nameLocks hands out one mutex per participant name. Entries are dropped
// once nobody holds or waits for them, so the table only grows with the
// number of names being mutated concurrently.
type nameLocks struct {
	mu    sync.Mutex
	locks map[string]*nameLock
}

type nameLock struct {
	sync.Mutex
	refs int
}

func newNameLocks() *nameLocks {
	return &nameLocks{locks: make(map[string]*nameLock)}
}

// lock blocks until name is free and returns the matching unlock
func (n *nameLocks) lock(name string) func() {
	n.mu.Lock()
	l, ok := n.locks[name]
	if !ok {
		l = &nameLock{}
		n.locks[name] = l
	}
	l.refs++
	n.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		n.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(n.locks, name)
		}
		n.mu.Unlock()
	}
}

func (n *nameLocks) size() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.locks)
}
