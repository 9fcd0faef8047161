package proc

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Stat holds the /proc/<pid>/stat counters the collector uses.
type Stat struct {
	UTime  uint64 // user jiffies
	STime  uint64 // system jiffies
	MinFlt uint64
	MajFlt uint64
}

// Jiffies is utime+stime.
func (s Stat) Jiffies() uint64 { return s.UTime + s.STime }

// parseStat reads the single stat line. comm is parenthesised and may hold
// spaces, so fields are counted from the last ") ".
func parseStat(r io.Reader) (Stat, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return Stat{}, ErrNoStat
	}
	line := sc.Text()
	i := strings.LastIndex(line, ") ")
	if i < 0 {
		return Stat{}, ErrNoStat
	}
	// fields[0] is state (3rd overall); minflt, majflt, utime, stime are
	// the 10th, 12th, 14th and 15th overall.
	fields := strings.Fields(line[i+2:])
	if len(fields) < 13 {
		return Stat{}, ErrShortStat
	}
	var (
		st  Stat
		err error
	)
	for _, f := range []struct {
		dst *uint64
		idx int
	}{
		{&st.MinFlt, 7},
		{&st.MajFlt, 9},
		{&st.UTime, 11},
		{&st.STime, 12},
	} {
		if *f.dst, err = strconv.ParseUint(fields[f.idx], 10, 64); err != nil {
			return Stat{}, ErrNoStat
		}
	}
	return st, nil
}

// parseIO returns read_bytes and write_bytes from /proc/<pid>/io.
func parseIO(r io.Reader) (read, write uint64, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		switch key {
		case "read_bytes":
			read, _ = strconv.ParseUint(strings.TrimSpace(val), 10, 64)
		case "write_bytes":
			write, _ = strconv.ParseUint(strings.TrimSpace(val), 10, 64)
		}
	}
	return read, write, sc.Err()
}

// parseSmapsRSS returns the Rss line of smaps_rollup in bytes.
func parseSmapsRSS(r io.Reader) (uint64, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fs := strings.Fields(sc.Text())
		if len(fs) >= 2 && fs[0] == "Rss:" {
			kb, err := strconv.ParseUint(fs[1], 10, 64)
			if err != nil {
				return 0, ErrNoRSS
			}
			return kb * 1024, nil
		}
	}
	return 0, ErrNoRSS
}

// parseStatmRSS returns resident pages (2nd field of statm) in bytes.
func parseStatmRSS(r io.Reader, pageSize int) (uint64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	fs := strings.Fields(string(b))
	if len(fs) < 2 {
		return 0, ErrNoRSS
	}
	pages, err := strconv.ParseUint(fs[1], 10, 64)
	if err != nil {
		return 0, ErrNoRSS
	}
	return pages * uint64(pageSize), nil
}

// parseSystemCPU reads the aggregate "cpu" line of /proc/stat.
//
//	active = user + nice + system + irq + softirq + steal
//	total  = active + idle + iowait
func parseSystemCPU(r io.Reader) (active, total uint64, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fs := strings.Fields(sc.Text())
		if len(fs) == 0 || fs[0] != "cpu" {
			continue
		}
		if len(fs) < 9 {
			return 0, 0, ErrNoCPU
		}
		v := make([]uint64, 8)
		for i := range v {
			if v[i], err = strconv.ParseUint(fs[i+1], 10, 64); err != nil {
				return 0, 0, ErrNoCPU
			}
		}
		active = v[0] + v[1] + v[2] + v[5] + v[6] + v[7]
		return active, active + v[3] + v[4], nil
	}
	if err := sc.Err(); err != nil {
		return 0, 0, err
	}
	return 0, 0, ErrNoCPU
}

// parseChildren collects the PIDs listed in a task children file.
func parseChildren(r io.Reader, into map[int]struct{}) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	for _, s := range strings.Fields(string(b)) {
		if id, err := strconv.Atoi(s); err == nil {
			into[id] = struct{}{}
		}
	}
	return nil
}

// parseFlatKeyed reads a cgroup "key value" file into a map.
func parseFlatKeyed(r io.Reader) (map[string]uint64, error) {
	out := make(map[string]uint64)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fs := strings.Fields(sc.Text())
		if len(fs) != 2 {
			continue
		}
		if v, err := strconv.ParseUint(fs[1], 10, 64); err == nil {
			out[fs[0]] = v
		}
	}
	return out, sc.Err()
}

// parseCPUUsage returns usage_usec from a cgroup v2 cpu.stat.
func parseCPUUsage(r io.Reader) (uint64, error) {
	kv, err := parseFlatKeyed(r)
	if err != nil {
		return 0, err
	}
	v, ok := kv["usage_usec"]
	if !ok {
		return 0, ErrNoUsage
	}
	return v, nil
}

// parseRefaults returns refaulted pages from a cgroup v2 memory.stat.
// Kernels since 5.9 split workingset_refault into _anon and _file.
func parseRefaults(r io.Reader) (uint64, error) {
	kv, err := parseFlatKeyed(r)
	if err != nil {
		return 0, err
	}
	if v, ok := kv["workingset_refault"]; ok {
		return v, nil
	}
	anon, okA := kv["workingset_refault_anon"]
	file, okF := kv["workingset_refault_file"]
	if !okA && !okF {
		return 0, ErrNoRefault
	}
	return anon + file, nil
}
