package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// userQueues runs each user's updates one at a time in arrival order. A
// worker goroutine exists only while its user has pending updates.
type userQueues struct {
	mu      sync.Mutex
	pending map[int64][]tgbotapi.Update
	wg      sync.WaitGroup
	run     func(context.Context, tgbotapi.Update)
}

func newUserQueues(run func(context.Context, tgbotapi.Update)) *userQueues {
	return &userQueues{pending: make(map[int64][]tgbotapi.Update), run: run}
}

func (q *userQueues) push(ctx context.Context, userID int64, upd tgbotapi.Update) {
	q.mu.Lock()
	queue, running := q.pending[userID]
	q.pending[userID] = append(queue, upd)
	q.mu.Unlock()

	if running {
		return
	}
	q.wg.Add(1)
	go q.drain(ctx, userID)
}

func (q *userQueues) drain(ctx context.Context, userID int64) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		queue := q.pending[userID]
		if len(queue) == 0 {
			delete(q.pending, userID)
			q.mu.Unlock()
			return
		}
		upd := queue[0]
		q.pending[userID] = queue[1:]
		q.mu.Unlock()

		q.run(ctx, upd)
	}
}

func (q *userQueues) wait() {
	q.wg.Wait()
}

func (q *userQueues) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Dispatch queues upd behind earlier updates from the same sender and
// returns without waiting. Updates from different users run in parallel.
func (h *Handler) Dispatch(ctx context.Context, upd tgbotapi.Update) {
	var userID int64
	if upd.Message != nil && upd.Message.From != nil {
		userID = upd.Message.From.ID
	}
	h.queues.push(ctx, userID, upd)
}

// Wait blocks until every dispatched update has been handled.
func (h *Handler) Wait() {
	h.queues.wait()
}
