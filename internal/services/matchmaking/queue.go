// Package matchmaking pairs waiting users first-come first-served.
package matchmaking

import "github.com/mcoot/linkplay/internal/model"

// Outcome of an enqueue attempt
type Outcome string

const (
	OutcomeWaiting Outcome = "waiting"
	OutcomeMatched Outcome = "matched"
)

// Entry is a user waiting for an opponent
type Entry struct {
	UserID      model.UserID
	DisplayName string
}

// Result reports what Enqueue did. Waiter and Joiner are set only when matched;
// the waiter plays X.
type Result struct {
	Outcome Outcome
	Waiter  Entry
	Joiner  Entry
}

// Queue is a FIFO of waiting users. It is not safe for concurrent use;
// the game directory serialises access under its own lock.
type Queue struct {
	entries []Entry
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue pairs the entry with the longest-waiting user, or appends it.
// An entry already queued stays where it is.
func (q *Queue) Enqueue(entry Entry) Result {
	if q.Contains(entry.UserID) {
		return Result{Outcome: OutcomeWaiting}
	}

	if len(q.entries) > 0 {
		waiter := q.entries[0]
		q.entries[0] = Entry{}
		q.entries = q.entries[1:]
		return Result{Outcome: OutcomeMatched, Waiter: waiter, Joiner: entry}
	}

	q.entries = append(q.entries, entry)
	return Result{Outcome: OutcomeWaiting}
}

// Leave removes the user from the queue, reporting whether they were in it
func (q *Queue) Leave(userID model.UserID) bool {
	for i, e := range q.entries {
		if e.UserID == userID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the user is waiting
func (q *Queue) Contains(userID model.UserID) bool {
	for _, e := range q.entries {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

// Len returns the number of waiting users
func (q *Queue) Len() int {
	return len(q.entries)
}
