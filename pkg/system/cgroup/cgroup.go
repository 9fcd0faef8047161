// Package cgroup detects which cgroup hierarchies a host mounts.
package cgroup

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type Version int

const (
	Unsupported Version = iota // no cgroup mounts
	V1                         // legacy multi-hierarchy cgroup v1
	V2                         // unified cgroup v2
	Hybrid                     // both v1 and v2 present
)

func (v Version) String() string {
	switch v {
	case V1:
		return "cgroup v1"
	case V2:
		return "cgroup v2"
	case Hybrid:
		return "cgroup hybrid"
	default:
		return "unsupported"
	}
}

// FS types as they appear in mountinfo.
const (
	FSTypeV1 = "cgroup"
	FSTypeV2 = "cgroup2"
)

// Mount is one cgroup filesystem mount.
type Mount struct {
	Point  string
	FSType string
}

// ParseMountinfo returns the cgroup mounts listed in a mountinfo file.
//
// A line reads "<fields> - <fstype> <source> <superopts>"; the mount point
// is the 5th field before the separator (proc(5)).
func ParseMountinfo(r io.Reader) ([]Mount, error) {
	var mounts []Mount
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		i := strings.LastIndex(line, " - ")
		if i < 0 {
			continue
		}
		tail := strings.Fields(line[i+3:])
		pre := strings.Fields(line[:i])
		if len(tail) < 1 || len(pre) < 5 {
			continue
		}
		if fs := tail[0]; fs == FSTypeV1 || fs == FSTypeV2 {
			mounts = append(mounts, Mount{Point: pre[4], FSType: fs})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan mountinfo: %w", err)
	}
	return mounts, nil
}

// Classify reports the version implied by mounts and a human-readable
// detail string.
func Classify(mounts []Mount) (Version, string) {
	var v1, v2 []string
	for _, m := range mounts {
		switch m.FSType {
		case FSTypeV2:
			v2 = append(v2, m.Point)
		case FSTypeV1:
			v1 = append(v1, m.Point)
		}
	}
	switch {
	case len(v1) > 0 && len(v2) > 0:
		return Hybrid, fmt.Sprintf("cgroup2 on %s; cgroup v1 on %s",
			strings.Join(v2, ","), strings.Join(v1, ","))
	case len(v2) > 0:
		return V2, "cgroup2 on " + strings.Join(v2, ",")
	case len(v1) > 0:
		return V1, "cgroup v1 on " + strings.Join(v1, ",")
	default:
		return Unsupported, "no cgroup mounts found"
	}
}

// Unified reports whether path is a cgroup2 mount point in mounts.
func Unified(mounts []Mount, path string) bool {
	for _, m := range mounts {
		if m.Point == path && m.FSType == FSTypeV2 {
			return true
		}
	}
	return false
}
