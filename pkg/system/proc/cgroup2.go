//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ja7ad/emission/pkg/system/cgroup"
	"github.com/ja7ad/emission/pkg/system/util"
	"github.com/ja7ad/emission/pkg/units"
)

// cgroupRoot and isUnified are swapped in tests.
var (
	cgroupRoot = "/sys/fs/cgroup"
	isUnified  = cgroup.IsUnified
)

// cgroup2Collector attributes CPU and memory refaults through a leaf group
// the sampled PIDs are moved into. IO and RSS still come from /proc.
type cgroup2Collector struct {
	pidTable
	pageSize int
	nproc    int
	ema      *util.EMA

	root string
	grp  string

	rootUsage uint64 // usec
	grpUsage  uint64 // usec
	refaults  uint64 // pages
}

// newCgroup2Collector creates the leaf group and seeds the root CPU usage.
func newCgroup2Collector(alpha float64, log zerolog.Logger) (*cgroup2Collector, error) {
	root := cgroupRoot
	ok, err := isUnified(root)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotUnified, root)
	}
	usage, err := readCPUUsage(root)
	if err != nil {
		return nil, fmt.Errorf("root cpu.stat: %w", err)
	}

	grp := filepath.Join(root, fmt.Sprintf("emission.%d.%s", os.Getpid(), uuid.NewString()[:8]))
	if err := os.Mkdir(grp, 0o755); err != nil {
		return nil, fmt.Errorf("create cgroup: %w", err)
	}

	c := &cgroup2Collector{
		pidTable:  pidTable{log: log.With().Str("cgroup", grp).Logger(), prev: make(map[int]pidCounters)},
		pageSize:  PageSize(),
		nproc:     runtime.NumCPU(),
		root:      root,
		grp:       grp,
		rootUsage: usage,
	}
	if alpha > 0 {
		c.ema = util.NewEMA(alpha)
	}
	return c, nil
}

// Sample implements Collector. PIDs are moved into the leaf group on every
// call, so children forked since the last sample are picked up when listed.
// CPU time spent before a PID joined the group is not counted.
func (c *cgroup2Collector) Sample(pids []int, interval units.Time) (Snapshot, error) {
	if err := checkSample(pids, interval); err != nil {
		return Snapshot{}, err
	}
	live := c.alive(pids)
	if len(live) == 0 {
		return Snapshot{}, ErrAllExited
	}
	for _, pid := range live {
		if err := movePID(c.grp, pid); err != nil {
			c.log.Debug().Err(err).Int("pid", pid).Msg("move to cgroup")
		}
	}

	rootNow, err := readCPUUsage(c.root)
	if err != nil {
		return Snapshot{}, fmt.Errorf("root cpu.stat: %w", err)
	}
	grpNow, err := readCPUUsage(c.grp)
	if err != nil {
		return Snapshot{}, fmt.Errorf("group cpu.stat: %w", err)
	}

	capacity := float64(c.nproc) * interval.Seconds()
	uvm := util.SafeDiv(float64(util.DeltaU64(rootNow, c.rootUsage))/1e6, capacity)
	uproc := util.SafeDiv(float64(util.DeltaU64(grpNow, c.grpUsage))/1e6, capacity)
	c.rootUsage, c.grpUsage = rootNow, grpNow
	if c.ema != nil {
		uvm = c.ema.Next(uvm)
	}

	snap := Snapshot{
		Interval: interval,
		UVm:      util.Clamp01(uvm),
		UProc:    util.Clamp01(uproc),
		Alive:    len(live),
	}

	if ref, err := readRefaults(c.grp); err == nil {
		snap.RefaultBytes = units.Bytes(util.DeltaU64(ref, c.refaults) * uint64(c.pageSize))
		c.refaults = ref
	} else {
		c.log.Debug().Err(err).Msg("read memory.stat")
	}

	for _, pid := range live {
		prev := c.prev[pid]
		now := prev
		c.foldIO(pid, prev, &now, &snap)
		c.prev[pid] = now
	}
	return snap, nil
}

// Close moves processes left in the leaf group back to the root and removes
// the group.
func (c *cgroup2Collector) Close() error {
	clear(c.prev)
	if b, err := os.ReadFile(filepath.Join(c.grp, "cgroup.procs")); err == nil {
		for _, s := range strings.Fields(string(b)) {
			pid, err := strconv.Atoi(s)
			if err != nil {
				continue
			}
			if err := movePID(c.root, pid); err != nil {
				c.log.Debug().Err(err).Int("pid", pid).Msg("move to root cgroup")
			}
		}
	}
	return os.Remove(c.grp)
}

func readCPUUsage(dir string) (uint64, error) {
	return readFile(filepath.Join(dir, "cpu.stat"), func(f *os.File) (uint64, error) { return parseCPUUsage(f) })
}

func readRefaults(dir string) (uint64, error) {
	return readFile(filepath.Join(dir, "memory.stat"), func(f *os.File) (uint64, error) { return parseRefaults(f) })
}

// movePID writes pid to <dir>/cgroup.procs.
func movePID(dir string, pid int) error {
	f, err := os.OpenFile(filepath.Join(dir, "cgroup.procs"), os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strconv.Itoa(pid) + "\n"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
