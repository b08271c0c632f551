// Package sched is the round-robin task scheduler: it owns every
// task's control block, decides which runs next, and drives the
// task-level context switch between them, guarded by the same
// uniprocessor cell the frame allocator uses.
package sched

import (
	"rv39kernel/task"
	"rv39kernel/trapctx"
	"rv39kernel/upcell"
)

// Manager owns every task in the system and which one is current.
type Manager struct {
	tasks   []*task.ControlBlock
	current int
}

var manager = upcell.New(Manager{current: -1})

// idleCx is the boot stack's own saved context: the place RunFirstTask
// switches from, and the place the scheduler switches back to once
// every task has exited.
var idleCx task.Context

// Init installs the full task set, in app order, as the schedulable
// pool. It must be called exactly once, before RunFirstTask.
func Init(tasks []*task.ControlBlock) {
	upcell.Do(manager, func(m *Manager) {
		m.tasks = tasks
		m.current = -1
	})
}

// NumApps returns how many tasks are under management.
func NumApps() int {
	return upcell.With(manager, func(m *Manager) int { return len(m.tasks) })
}

// findNext returns the index of the next Ready task in round-robin
// order starting just after m.current, or ok=false if none is Ready.
func (m *Manager) findNext() (int, bool) {
	n := len(m.tasks)
	for i := 1; i <= n; i++ {
		idx := (m.current + i) % n
		if m.tasks[idx].Status == task.Ready {
			return idx, true
		}
	}
	return 0, false
}

// RunFirstTask marks task 0 Running and switches into it from the boot
// stack. It does not return until every task has exited, at which
// point control returns to Boot to shut the machine down.
func RunFirstTask() {
	nextCx := upcell.With(manager, func(m *Manager) *task.Context {
		m.current = 0
		m.tasks[0].Status = task.Running
		return &m.tasks[0].Cx
	})
	task.Switch(&idleCx, nextCx)
}

// RunNextTask switches from whichever task is current into the next
// Ready task, marking it Running. If no task is Ready, it switches back
// into the idle context instead, letting Boot regain control to shut
// down.
func RunNextTask() {
	var currentCx, nextCx *task.Context
	upcell.Do(manager, func(m *Manager) {
		currentCx = &m.tasks[m.current].Cx
		idx, ok := m.findNext()
		if !ok {
			nextCx = &idleCx
			return
		}
		m.current = idx
		m.tasks[idx].Status = task.Running
		nextCx = &m.tasks[idx].Cx
	})
	task.Switch(currentCx, nextCx)
}

// SuspendCurrentAndRunNext demotes the current task to Ready (it used
// its whole time slice but has more work) and switches to the next
// Ready task, implementing SYS_YIELD and timer-tick preemption.
func SuspendCurrentAndRunNext() {
	upcell.Do(manager, func(m *Manager) {
		m.tasks[m.current].Status = task.Ready
	})
	RunNextTask()
}

// ExitCurrentAndRunNext marks the current task Exited for good and
// switches to the next Ready task, implementing SYS_EXIT and fatal
// fault handling.
func ExitCurrentAndRunNext() {
	upcell.Do(manager, func(m *Manager) {
		m.tasks[m.current].Status = task.Exited
	})
	RunNextTask()
}

// CurrentTask returns the currently running task's control block.
func CurrentTask() *task.ControlBlock {
	return upcell.With(manager, func(m *Manager) *task.ControlBlock { return m.tasks[m.current] })
}

// CurrentToken returns the currently running task's satp token.
func CurrentToken() uint64 {
	return CurrentTask().Token()
}

// CurrentTrapCx returns a pointer into the currently running task's
// trap context page.
func CurrentTrapCx() *trapctx.Context {
	return CurrentTask().TrapCx()
}
