package proc

import "errors"

var (
	// ErrNoPIDs is returned by Sample when called with no PIDs.
	ErrNoPIDs = errors.New("proc: no pids")

	// ErrBadInterval is returned by Sample for a non-positive interval.
	ErrBadInterval = errors.New("proc: interval must be > 0")

	// ErrAllExited means none of the sampled PIDs is alive.
	ErrAllExited = errors.New("proc: all pids exited")

	// ErrNoStat indicates that /proc/<pid>/stat was empty or malformed.
	ErrNoStat = errors.New("proc: malformed or empty stat")

	// ErrShortStat indicates that /proc/<pid>/stat had fewer fields than expected.
	ErrShortStat = errors.New("proc: short stat")

	// ErrNoRSS indicates that resident set size could not be determined.
	ErrNoRSS = errors.New("proc: no rss")

	// ErrNoCPU indicates that /proc/stat had no aggregate CPU line.
	ErrNoCPU = errors.New("proc: no cpu line")

	// ErrNoChildren indicates that a process has no children.
	ErrNoChildren = errors.New("proc: no children")

	// ErrBadBackend is returned by ParseBackend and NewCollector.
	ErrBadBackend = errors.New("proc: unknown backend")

	// ErrNotUnified means the cgroup root is not a cgroup2 mount.
	ErrNotUnified = errors.New("proc: cgroup root is not cgroup2")

	// ErrNoUsage indicates that cpu.stat had no usage_usec.
	ErrNoUsage = errors.New("proc: cpu.stat has no usage_usec")

	// ErrNoRefault indicates that memory.stat had no workingset_refault.
	ErrNoRefault = errors.New("proc: memory.stat has no workingset_refault")
)
