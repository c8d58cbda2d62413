package scheduler

import (
	"time"

	"github.com/google/btree"
	"github.com/robfig/cron/v3"

	"github.com/vnykmshr/schedexec/pkg/scheduling/workerpool"
)

// entry is one live task in the pending set.
type entry struct {
	id       TaskID
	task     workerpool.Task
	delay    time.Duration
	period   time.Duration
	cronExpr string
	cron     cron.Schedule
	nextRun  time.Time
	created  time.Time
	runs     uint64
}

func (e *entry) kind() Kind {
	switch {
	case e.cron != nil:
		return KindCron
	case e.period > 0:
		return KindPeriodic
	default:
		return KindOnce
	}
}

// rearm advances nextRun past the execution that was just dispatched and
// reports whether the task has another execution outstanding.
func (e *entry) rearm() bool {
	switch {
	case e.cron != nil:
		next := e.cron.Next(e.nextRun)
		if next.IsZero() {
			return false
		}
		e.nextRun = next
		return true
	case e.period > 0:
		e.nextRun = e.nextRun.Add(e.period)
		return true
	default:
		return false
	}
}

func (e *entry) info() TaskInfo {
	return TaskInfo{
		ID:      e.id,
		Kind:    e.kind(),
		NextRun: e.nextRun,
		Delay:   e.delay,
		Period:  e.period,
		Cron:    e.cronExpr,
		Created: e.created,
		Runs:    e.runs,
	}
}

// entryLess orders by deadline, then by id so that equal deadlines run in
// registration order.
func entryLess(a, b *entry) bool {
	if !a.nextRun.Equal(b.nextRun) {
		return a.nextRun.Before(b.nextRun)
	}
	return a.id < b.id
}

// pendingSet keeps entries ordered by (nextRun, id) with an id index for
// cancellation. It is not safe for concurrent use; the scheduler mutex
// guards it.
type pendingSet struct {
	tree  *btree.BTreeG[*entry]
	index map[TaskID]*entry
}

const btreeDegree = 16

func newPendingSet() *pendingSet {
	return &pendingSet{
		tree:  btree.NewG(btreeDegree, entryLess),
		index: make(map[TaskID]*entry),
	}
}

func (ps *pendingSet) Len() int {
	return len(ps.index)
}

func (ps *pendingSet) insert(e *entry) {
	ps.tree.ReplaceOrInsert(e)
	ps.index[e.id] = e
}

// remove deletes the entry with the given id and returns it, if present.
func (ps *pendingSet) remove(id TaskID) (*entry, bool) {
	e, ok := ps.index[id]
	if !ok {
		return nil, false
	}
	ps.tree.Delete(e)
	delete(ps.index, id)
	return e, true
}

// peek returns the entry with the smallest (nextRun, id).
func (ps *pendingSet) peek() (*entry, bool) {
	return ps.tree.Min()
}

// dispatch is a due execution taken out of the pending set.
type dispatch struct {
	id       TaskID
	task     workerpool.Task
	deadline time.Time
	last     bool
}

// pop removes the head entry and, if it has a further execution, re-ranks
// it under its new deadline. The entry's key must not change while it is
// in the tree, so it is deleted before rearm mutates nextRun.
func (ps *pendingSet) pop() (dispatch, bool) {
	e, ok := ps.tree.DeleteMin()
	if !ok {
		return dispatch{}, false
	}

	d := dispatch{id: e.id, task: e.task, deadline: e.nextRun}
	e.runs++
	if e.rearm() {
		ps.tree.ReplaceOrInsert(e)
	} else {
		delete(ps.index, e.id)
		d.last = true
	}
	return d, true
}

func (ps *pendingSet) clear() int {
	n := len(ps.index)
	ps.tree.Clear(false)
	ps.index = make(map[TaskID]*entry)
	return n
}

// snapshot returns task descriptions in dispatch order.
func (ps *pendingSet) snapshot() []TaskInfo {
	out := make([]TaskInfo, 0, len(ps.index))
	ps.tree.Ascend(func(e *entry) bool {
		out = append(out, e.info())
		return true
	})
	return out
}
