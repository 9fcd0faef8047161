package util

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadPID is returned by ParsePIDs for arguments that are not a PID or range.
var ErrBadPID = errors.New("util: bad pid")

// EMA is an exponential moving average. The first sample seeds the state.
type EMA struct {
	alpha, prev float64
	ok          bool
}

func NewEMA(alpha float64) *EMA { return &EMA{alpha: Clamp01(alpha)} }

func (e *EMA) Next(v float64) float64 {
	if !e.ok {
		e.prev, e.ok = v, true
		return v
	}
	e.prev = e.alpha*v + (1-e.alpha)*e.prev
	return e.prev
}

// DeltaU64 returns now-prev for monotonic counters, 0 if the counter went back.
func DeltaU64(now, prev uint64) uint64 {
	if now >= prev {
		return now - prev
	}
	return 0
}

func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

// Clamp01 limits x to [0,1]; NaN maps to 0.
func Clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

// Pow is a^b for a > 0, and 0 otherwise.
func Pow(a, b float64) float64 {
	if a <= 0 {
		return 0
	}
	return math.Exp(b * math.Log(a))
}

// ParsePIDs accepts "123" and inclusive ranges "100..110", deduplicated in
// first-seen order.
func ParsePIDs(args []string) ([]int, error) {
	var (
		out  []int
		seen = map[int]struct{}{}
	)
	add := func(pid int) {
		if _, ok := seen[pid]; !ok {
			seen[pid] = struct{}{}
			out = append(out, pid)
		}
	}

	for _, arg := range args {
		for _, f := range strings.Fields(arg) {
			lo, hi, isRange := strings.Cut(f, "..")
			from, err := parsePID(lo)
			if err != nil {
				return nil, err
			}
			if !isRange {
				add(from)
				continue
			}
			to, err := parsePID(hi)
			if err != nil {
				return nil, err
			}
			if to < from {
				return nil, fmt.Errorf("%w: range %q is reversed", ErrBadPID, f)
			}
			for pid := from; pid <= to; pid++ {
				add(pid)
			}
		}
	}
	return out, nil
}

// MaxPID is PID_MAX_LIMIT on 64-bit Linux, the ceiling pid_max can be
// raised to.
const MaxPID = 1 << 22

func parsePID(s string) (int, error) {
	pid, err := strconv.Atoi(s)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadPID, s)
	}
	if pid > MaxPID {
		return 0, fmt.Errorf("%w: %q exceeds %d", ErrBadPID, s, MaxPID)
	}
	return pid, nil
}

// FmtFloat formats v compactly for CSV cells.
func FmtFloat(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }
