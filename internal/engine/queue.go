package engine

import (
	"math/rand"

	"github.com/google/uuid"
)

// queueStore holds the per-mode waiting lists. A connection id appears at
// most once across both queues combined; callers enforce that via Contains
// or RemoveByConnection before Enqueue.
type queueStore struct {
	byMode map[Mode][]User
}

func newQueueStore() *queueStore {
	return &queueStore{
		byMode: map[Mode][]User{
			ModeText:  nil,
			ModeVideo: nil,
		},
	}
}

// Enqueue appends u to the tail of its mode's queue.
func (q *queueStore) Enqueue(mode Mode, u User) {
	q.byMode[mode] = append(q.byMode[mode], u)
}

// RemoveByConnection drops connID from whichever queue contains it. Checks
// both queues; silently does nothing if absent.
func (q *queueStore) RemoveByConnection(connID uuid.UUID) {
	for mode, queue := range q.byMode {
		for i, u := range queue {
			if u.ConnID == connID {
				q.byMode[mode] = append(queue[:i:i], queue[i+1:]...)
				break
			}
		}
	}
}

// Contains reports whether connID is waiting in either queue.
func (q *queueStore) Contains(connID uuid.UUID) bool {
	_, ok := q.Lookup(connID)
	return ok
}

// Lookup finds the waiting user with connID in either queue.
func (q *queueStore) Lookup(connID uuid.UUID) (User, bool) {
	for _, queue := range q.byMode {
		for _, u := range queue {
			if u.ConnID == connID {
				return u, true
			}
		}
	}
	return User{}, false
}

// TakeRandomMatch removes excluding from the mode's queue if present, then
// draws a uniformly random remaining waiter, removes it and returns it.
// The shuffle is deliberate: pairing must not be predictable from join
// order, and a queue churned by the same two users must not keep re-pairing
// them by adjacency.
func (q *queueStore) TakeRandomMatch(mode Mode, excluding uuid.UUID, rng *rand.Rand) (User, bool) {
	queue := q.byMode[mode]
	for i, u := range queue {
		if u.ConnID == excluding {
			queue = append(queue[:i:i], queue[i+1:]...)
			break
		}
	}

	if len(queue) == 0 {
		q.byMode[mode] = queue
		return User{}, false
	}

	rng.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})

	match := queue[0]
	q.byMode[mode] = queue[1:]
	return match, true
}

// Len reports the depth of the mode's queue.
func (q *queueStore) Len(mode Mode) int {
	return len(q.byMode[mode])
}
