package downloadmgr

import "sync"

// inflight is shared by all managers of the process, so two installs that
// use the same library folder never write the same file at the same time
var inflight = newPathLocks()

type pathLock struct {
	sync.Mutex
	refs int
}

// pathLocks is a mutex per path. Entries are removed once nobody holds or waits for them
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

func newPathLocks() *pathLocks {
	return &pathLocks{locks: make(map[string]*pathLock)}
}

// Lock blocks until path is free and returns the unlock function
func (p *pathLocks) Lock(path string) func() {
	p.mu.Lock()
	l, ok := p.locks[path]
	if !ok {
		l = &pathLock{}
		p.locks[path] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, path)
		}
		p.mu.Unlock()
	}
}

func (p *pathLocks) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.locks)
}
