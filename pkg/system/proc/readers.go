//go:build linux

package proc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// procRoot is swapped in tests.
var procRoot = "/proc"

func pidPath(pid int, name string) string {
	return filepath.Join(procRoot, strconv.Itoa(pid), name)
}

// ClockTicks returns jiffies per second. CLK_TCK overrides the default of
// 100, which is what sysconf(_SC_CLK_TCK) reports on every mainstream arch.
func ClockTicks() int {
	if v, _ := strconv.Atoi(os.Getenv("CLK_TCK")); v > 0 {
		return v
	}
	return 100
}

// PageSize returns the memory page size; PAGE_SIZE overrides it.
func PageSize() int {
	if v, _ := strconv.Atoi(os.Getenv("PAGE_SIZE")); v > 0 {
		return v
	}
	return unix.Getpagesize()
}

// Exists reports whether /proc/<pid> is present.
func Exists(pid int) bool {
	_, err := os.Stat(filepath.Join(procRoot, strconv.Itoa(pid)))
	return err == nil
}

func readFile[T any](path string, parse func(*os.File) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return parse(f)
}

// ReadProcStat reads /proc/<pid>/stat.
func ReadProcStat(pid int) (Stat, error) {
	return readFile(pidPath(pid, "stat"), func(f *os.File) (Stat, error) { return parseStat(f) })
}

// ReadProcIO reads read_bytes and write_bytes from /proc/<pid>/io. Kernel
// threads and other users' processes may not expose it.
func ReadProcIO(pid int) (read, write uint64, err error) {
	f, err := os.Open(pidPath(pid, "io"))
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	return parseIO(f)
}

// ReadProcRSS returns RSS in bytes, preferring smaps_rollup over statm.
func ReadProcRSS(pid int) (uint64, error) {
	if rss, err := readFile(pidPath(pid, "smaps_rollup"), func(f *os.File) (uint64, error) {
		return parseSmapsRSS(f)
	}); err == nil {
		return rss, nil
	}
	ps := PageSize()
	rss, err := readFile(pidPath(pid, "statm"), func(f *os.File) (uint64, error) {
		return parseStatmRSS(f, ps)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: pid %d: %v", ErrNoRSS, pid, err)
	}
	return rss, nil
}

// ReadProcComm returns the command name from /proc/<pid>/comm.
func ReadProcComm(pid int) (string, error) {
	b, err := os.ReadFile(pidPath(pid, "comm"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// ReadSystemCPU returns active and total jiffies from /proc/stat.
func ReadSystemCPU() (active, total uint64, err error) {
	f, err := os.Open(filepath.Join(procRoot, "stat"))
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	return parseSystemCPU(f)
}

// ReadProcChildren returns the direct children of pid, sorted, from
// /proc/<pid>/task/*/children (kernel 3.5+). Tasks that exit during the walk
// are skipped; other read failures are returned joined, alongside whatever
// children were found.
func ReadProcChildren(pid int) ([]int, error) {
	paths, _ := filepath.Glob(filepath.Join(procRoot, strconv.Itoa(pid), "task", "*", "children"))
	set := map[int]struct{}{}
	var errs []error
	for _, p := range paths {
		err := readChildren(p, set)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	if len(set) == 0 && len(errs) == 0 {
		return nil, ErrNoChildren
	}
	var out []int
	if len(set) > 0 {
		out = make([]int, 0, len(set))
		for id := range set {
			out = append(out, id)
		}
		sort.Ints(out)
	}
	return out, errors.Join(errs...)
}

func readChildren(path string, into map[int]struct{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return parseChildren(f, into)
}

// ExpandTree walks the process tree below roots breadth-first and returns
// roots followed by every descendant found.
func ExpandTree(roots []int, log zerolog.Logger) []int {
	seen := make(map[int]struct{}, len(roots))
	out := make([]int, 0, len(roots))
	queue := append([]int(nil), roots...)
	for len(queue) > 0 {
		pid := queue[0]
		queue = queue[1:]
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		out = append(out, pid)
		kids, err := ReadProcChildren(pid)
		if err != nil && !errors.Is(err, ErrNoChildren) {
			log.Debug().Err(err).Int("pid", pid).Msg("read children")
		}
		queue = append(queue, kids...)
	}
	return out
}
