package task

// Switch saves the running task's callee-saved registers into current
// and restores next's into the CPU, the task-level half of a context
// switch (the trap-level half lives in the trampoline). On riscv64 this
// is real assembly and genuinely does not return to its caller until
// some later switch resumes this task (switch_riscv64.s); on every
// other GOARCH there are no real per-task machine stacks to swap, so it
// is a no-op that returns normally (switch_portable.go).
