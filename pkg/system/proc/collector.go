//go:build linux

package proc

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ja7ad/emission/pkg/system/cgroup"
	"github.com/ja7ad/emission/pkg/system/util"
	"github.com/ja7ad/emission/pkg/units"
)

// Snapshot is one sampling window.
type Snapshot struct {
	Interval units.Time
	// Utilizations in [0,1]
	UVm   float64
	UProc float64
	// Byte deltas for this window
	ReadBytes     units.Bytes
	WriteBytes    units.Bytes
	RefaultBytes  units.Bytes
	RSSChurnBytes units.Bytes
	// Alive is the number of sampled PIDs still running.
	Alive int
}

// Collector samples a set of PIDs. Implementations are not safe for
// concurrent use.
type Collector interface {
	// Sample reads counters for pids and returns deltas over interval.
	Sample(pids []int, interval units.Time) (Snapshot, error)
	Close() error
}

// Backend selects where CPU and refault counters come from.
type Backend string

const (
	BackendAuto    Backend = "auto"
	BackendProc    Backend = "proc"
	BackendCgroup2 Backend = "cgroup2"
)

// ParseBackend accepts "auto", "proc" or "cgroup2".
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendAuto, BackendProc, BackendCgroup2:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadBackend, s)
}

// detectCgroup is swapped in tests.
var detectCgroup = cgroup.Detect

// NewCollector builds a collector for backend. alpha in (0,1] smooths UVm;
// 0 disables smoothing. BackendAuto tries cgroup2 on v2 and hybrid hosts
// and falls back to /proc when the leaf group cannot be created.
func NewCollector(backend Backend, alpha float64, log zerolog.Logger) (Collector, error) {
	log = log.With().Str("component", "proc").Logger()
	switch backend {
	case BackendProc:
		return orNil(newProcCollector(alpha, log))
	case BackendCgroup2:
		return orNil(newCgroup2Collector(alpha, log))
	case BackendAuto:
		v, detail, err := detectCgroup()
		if err != nil {
			log.Debug().Err(err).Msg("cgroup detect")
		}
		if v == cgroup.V2 || v == cgroup.Hybrid {
			c, err := newCgroup2Collector(alpha, log)
			if err == nil {
				log.Debug().Str("cgroup", detail).Msg("using cgroup2 backend")
				return c, nil
			}
			log.Warn().Err(err).Msg("cgroup2 backend unavailable, using /proc")
		}
		return orNil(newProcCollector(alpha, log))
	}
	return nil, fmt.Errorf("%w: %q", ErrBadBackend, backend)
}

// orNil keeps a failed constructor from yielding a non-nil Collector that
// wraps a nil pointer.
func orNil[C Collector](c C, err error) (Collector, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

// pidCounters are the last-seen monotonic counters of one PID.
type pidCounters struct {
	jiffies uint64
	minflt  uint64
	read    uint64
	write   uint64
	rss     uint64
}

// pidTable tracks per-PID counters across samples.
type pidTable struct {
	log  zerolog.Logger
	prev map[int]pidCounters
}

// alive returns the pids still running and forgets the ones that exited.
func (t *pidTable) alive(pids []int) []int {
	out := make([]int, 0, len(pids))
	for _, pid := range pids {
		if Exists(pid) {
			out = append(out, pid)
			continue
		}
		if _, ok := t.prev[pid]; ok {
			t.log.Debug().Int("pid", pid).Msg("process exited")
			delete(t.prev, pid)
		}
	}
	return out
}

// foldIO adds the IO and RSS deltas of pid into snap.
func (t *pidTable) foldIO(pid int, prev pidCounters, now *pidCounters, snap *Snapshot) {
	if r, w, err := ReadProcIO(pid); err == nil {
		now.read, now.write = r, w
		snap.ReadBytes += units.Bytes(util.DeltaU64(r, prev.read))
		snap.WriteBytes += units.Bytes(util.DeltaU64(w, prev.write))
	}

	if rss, err := ReadProcRSS(pid); err == nil {
		now.rss = rss
		if rss >= prev.rss {
			snap.RSSChurnBytes += units.Bytes(rss - prev.rss)
		} else {
			snap.RSSChurnBytes += units.Bytes(prev.rss - rss)
		}
	}
}

func checkSample(pids []int, interval units.Time) error {
	if len(pids) == 0 {
		return ErrNoPIDs
	}
	if !(interval.Seconds() > 0) {
		return ErrBadInterval
	}
	return nil
}

// procCollector reads CPU and fault counters from /proc.
type procCollector struct {
	pidTable
	clkTck   int
	pageSize int
	nproc    int
	ema      *util.EMA

	vmActive uint64
	vmTotal  uint64
}

// newProcCollector seeds the system CPU counters.
func newProcCollector(alpha float64, log zerolog.Logger) (*procCollector, error) {
	active, total, err := ReadSystemCPU()
	if err != nil {
		return nil, err
	}
	c := &procCollector{
		pidTable: pidTable{log: log, prev: make(map[int]pidCounters)},
		clkTck:   ClockTicks(),
		pageSize: PageSize(),
		nproc:    runtime.NumCPU(),
		vmActive: active,
		vmTotal:  total,
	}
	if alpha > 0 {
		c.ema = util.NewEMA(alpha)
	}
	return c, nil
}

// Sample implements Collector. The first sample of a PID reports its
// counters since process start.
func (c *procCollector) Sample(pids []int, interval units.Time) (Snapshot, error) {
	if err := checkSample(pids, interval); err != nil {
		return Snapshot{}, err
	}

	active, total, err := ReadSystemCPU()
	if err != nil {
		return Snapshot{}, err
	}
	uvm := util.SafeDiv(
		float64(util.DeltaU64(active, c.vmActive)),
		float64(util.DeltaU64(total, c.vmTotal)),
	)
	c.vmActive, c.vmTotal = active, total
	if c.ema != nil {
		uvm = c.ema.Next(uvm)
	}

	live := c.alive(pids)
	if len(live) == 0 {
		return Snapshot{}, ErrAllExited
	}
	snap := Snapshot{Interval: interval, UVm: util.Clamp01(uvm), Alive: len(live)}
	var jiffies uint64
	for _, pid := range live {
		jiffies += c.samplePID(pid, &snap)
	}

	cpuSec := float64(jiffies) / float64(c.clkTck)
	snap.UProc = util.Clamp01(util.SafeDiv(cpuSec, float64(c.nproc)*interval.Seconds()))
	return snap, nil
}

// samplePID folds one PID's deltas into snap and returns its CPU jiffies.
func (c *procCollector) samplePID(pid int, snap *Snapshot) uint64 {
	prev := c.prev[pid]
	now := prev
	var jiffies uint64

	if st, err := ReadProcStat(pid); err == nil {
		now.jiffies, now.minflt = st.Jiffies(), st.MinFlt
		jiffies = util.DeltaU64(now.jiffies, prev.jiffies)
		snap.RefaultBytes += units.Bytes(util.DeltaU64(now.minflt, prev.minflt) * uint64(c.pageSize))
	} else {
		c.log.Debug().Err(err).Int("pid", pid).Msg("read stat")
	}
	c.foldIO(pid, prev, &now, snap)

	c.prev[pid] = now
	return jiffies
}

// Close releases collector state.
func (c *procCollector) Close() error {
	clear(c.prev)
	return nil
}
