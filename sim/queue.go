// Implements the WaitQueue, which holds the jobs waiting for a free server at a stage.
// Jobs are enqueued when every server of the stage is busy.

package sim

import (
	"fmt"
	"strings"
)

// WaitQueue is a FIFO queue of job IDs. There is no priority and no
// reneging: the head of the queue is always the next job dispatched.
type WaitQueue struct {
	queue []int // FIFO queue of job IDs
}

// Enqueue adds a job to the back of the wait queue.
func (wq *WaitQueue) Enqueue(jobID int) {
	wq.queue = append(wq.queue, jobID)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range wq.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of jobs in the queue.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// Peek returns the job at the front of the queue without removing it.
// ok is false if the queue is empty.
func (wq *WaitQueue) Peek() (jobID int, ok bool) {
	if len(wq.queue) == 0 {
		return 0, false
	}
	return wq.queue[0], true
}

// Dequeue removes and returns the job at the front of the queue.
// ok is false if the queue is empty.
func (wq *WaitQueue) Dequeue() (jobID int, ok bool) {
	if len(wq.queue) == 0 {
		return 0, false
	}
	jobID = wq.queue[0]
	wq.queue = wq.queue[1:]
	return jobID, true
}

// Items returns the queue contents in dispatch order.
// The returned slice is the queue's internal storage; callers MUST NOT modify it.
func (wq *WaitQueue) Items() []int {
	return wq.queue
}
