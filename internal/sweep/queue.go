package sweep

// Queue is a FIFO of pending scenario names paired with the ordered
// list of names already completed. One Queue exists per technique.
//
// The queue is intentionally not thread-safe: the resume model is a
// single driving control loop that advances one technique at a time,
// never interleaved with lexing or exporting.
type Queue struct {
	pending []string
	done    []string
}

// Push appends a scenario name to the back of the pending queue.
func (q *Queue) Push(name string) {
	q.pending = append(q.pending, name)
}

// Pop removes and returns the front pending name.
// Returns ("", false) when the queue is exhausted.
func (q *Queue) Pop() (string, bool) {
	if len(q.pending) == 0 {
		return "", false
	}
	name := q.pending[0]
	q.pending = q.pending[1:]
	return name, true
}

// Finish records a completed scenario name in enqueue order.
func (q *Queue) Finish(name string) {
	q.done = append(q.done, name)
}

// Len returns the number of pending names.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Pending returns a copy of the pending names in order.
func (q *Queue) Pending() []string {
	out := make([]string, len(q.pending))
	copy(out, q.pending)
	return out
}

// Done returns a copy of the completed names in completion order.
func (q *Queue) Done() []string {
	out := make([]string, len(q.done))
	copy(out, q.done)
	return out
}
