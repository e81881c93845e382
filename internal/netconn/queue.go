package netconn

import (
	"sync"

	"github.com/gosuda/silkbridge/internal/wire"
)

// messageQueue is a FIFO of Messages guarded by a mutex, shared between a
// connection's owner (via Take/Put) and its read/write goroutines.
type messageQueue struct {
	mu    sync.Mutex
	items []wire.Message
}

func (q *messageQueue) push(m wire.Message) {
	q.mu.Lock()
	q.items = append(q.items, m)
	q.mu.Unlock()
}

func (q *messageQueue) pop() (wire.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return wire.Message{}, false
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m, true
}

// drain removes and returns every queued message in FIFO order.
func (q *messageQueue) drain() []wire.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	items := q.items
	q.items = nil
	return items
}
