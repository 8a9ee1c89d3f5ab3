// Package buffer implements the two buffering components at the heart of
// the simulation: Feed, which merges N parallel event streams into one
// chronological stream, and Merge, which folds per-tick transform results
// onto their PASSTHROUGH event. Both are grounded on the same "wait for the
// slowest source" buffering policy: a record is only released once every
// registered source has contributed at least one queued item, or the
// buffer has begun draining after every source reported DONE.
//
// Callers must hold their own lock around queueSet access; queueSet itself
// is not safe for concurrent use.
package buffer

// queueSet holds one FIFO queue per registered source id and implements the
// "is everything we need present" buffering policy shared by Feed and
// Merge.
type queueSet[T any] struct {
	queues   map[string][]T
	order    []string
	draining bool
	doneIDs  map[string]bool
}

func newQueueSet[T any](sourceIDs []string) *queueSet[T] {
	qs := &queueSet[T]{
		queues:  make(map[string][]T, len(sourceIDs)),
		order:   append([]string(nil), sourceIDs...),
		doneIDs: make(map[string]bool, len(sourceIDs)),
	}
	for _, id := range sourceIDs {
		qs.queues[id] = nil
	}
	return qs
}

func (q *queueSet[T]) append(sourceID string, item T) {
	q.queues[sourceID] = append(q.queues[sourceID], item)
}

// isFull reports whether every registered source's queue currently holds at
// least one item.
func (q *queueSet[T]) isFull() bool {
	for _, id := range q.order {
		if len(q.queues[id]) == 0 {
			return false
		}
	}
	return true
}

// readyToPop reports whether a record may be released: the buffer is full,
// or it is already draining (every source has reported DONE).
func (q *queueSet[T]) readyToPop() bool {
	return q.isFull() || q.draining
}

// pendingMessages is the total number of queued items across all sources.
func (q *queueSet[T]) pendingMessages() int {
	total := 0
	for _, id := range q.order {
		total += len(q.queues[id])
	}
	return total
}

// sourceCount is the number of registered sources.
func (q *queueSet[T]) sourceCount() int {
	return len(q.order)
}

// markSourceDone latches id's DONE report and reports whether every
// registered source has now reported DONE at least once. A second DONE
// from the same id is a no-op: it must not advance the count, or a
// cancellation-triggered SignalDone racing a source's own natural DONE
// would drain the buffer one source early and truncate the stream.
func (q *queueSet[T]) markSourceDone(id string) bool {
	q.doneIDs[id] = true
	return len(q.doneIDs) >= len(q.order)
}

// setDraining switches the buffer into drain mode, where readyToPop always
// returns true regardless of which queues are empty.
func (q *queueSet[T]) setDraining() {
	q.draining = true
}
