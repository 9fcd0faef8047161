// Package proc samples per-process resource usage on Linux so it can be fed
// to the power model in pkg/consumption.
//
// A Collector keeps the previous counters for every PID it has seen. Each
// Sample call reads them again and reports the deltas over the interval.
// Two backends exist:
//
// BackendProc reads everything from /proc:
//
//	UVm        system CPU utilization, Δactive/Δtotal jiffies from /proc/stat
//	UProc      Σ Δ(utime+stime) / (NumCPU × interval)
//	Refault    Σ Δminflt × page size (proxy for page cache refaults)
//
// BackendCgroup2 moves the PIDs into a leaf group under /sys/fs/cgroup and
// reads the kernel's own accounting, which needs write access there:
//
//	UVm        Δusage_usec of the root cpu.stat / (NumCPU × interval)
//	UProc      Δusage_usec of the leaf cpu.stat / (NumCPU × interval)
//	Refault    Δworkingset_refault of the leaf memory.stat × page size
//
// Both take IO and RSS per PID from /proc:
//
//	ReadBytes  Σ Δread_bytes  from /proc/<pid>/io
//	WriteBytes Σ Δwrite_bytes from /proc/<pid>/io
//	RSSChurn   Σ |ΔRSS|, RSS from smaps_rollup, else statm
//
// Utilizations are clamped to [0,1]. UVm can be smoothed with an EMA.
//
// The parse* functions take an io.Reader so they can be tested without a
// live /proc; the Read* functions open the real files.
package proc
