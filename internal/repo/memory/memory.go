package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/labdash/internal/domain"
)

// updateBuffer is the per-subscriber backlog; older pending snapshots are
// dropped in favour of newer ones once it is full.
const updateBuffer = 4

type Store struct {
	mu        sync.RWMutex
	snapshots map[domain.Group]domain.Snapshot

	subMu  sync.Mutex
	subs   map[int]chan domain.Snapshot
	nextID int
}

func New() *Store {
	return &Store{
		snapshots: make(map[domain.Group]domain.Snapshot),
		subs:      make(map[int]chan domain.Snapshot),
	}
}

func (m *Store) Publish(ctx context.Context, g domain.Group, sm domain.StatusMap, checkedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if checkedAt.IsZero() {
		checkedAt = time.Now().UTC()
	}

	m.mu.Lock()
	snap := domain.Snapshot{
		Group:     g,
		Statuses:  sm.Clone(),
		CheckedAt: checkedAt,
		Pass:      m.snapshots[g].Pass + 1,
	}
	m.snapshots[g] = snap
	m.mu.Unlock()

	m.broadcast(snap)
	return nil
}

func (m *Store) Snapshot(ctx context.Context, g domain.Group) (domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[g]
	if !ok {
		return domain.Snapshot{Group: g}, nil
	}
	snap.Statuses = snap.Statuses.Clone()
	return snap, nil
}

func (m *Store) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, updateBuffer)

	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	m.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
			close(ch)
		})
	}
}

func (m *Store) broadcast(snap domain.Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for _, ch := range m.subs {
		out := snap
		out.Statuses = snap.Statuses.Clone()
		for {
			select {
			case ch <- out:
			default:
				// full: drop the oldest pending update and retry
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}
