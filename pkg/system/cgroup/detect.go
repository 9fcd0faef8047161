//go:build linux

package cgroup

import (
	"fmt"
	"os"
)

// mountinfoPath is swapped in tests.
var mountinfoPath = "/proc/self/mountinfo"

func readMounts() ([]Mount, error) {
	f, err := os.Open(mountinfoPath)
	if err != nil {
		return nil, fmt.Errorf("open mountinfo: %w", err)
	}
	defer f.Close()
	return ParseMountinfo(f)
}

// Detect returns the cgroup version of the running host and a
// human-readable detail string.
func Detect() (Version, string, error) {
	mounts, err := readMounts()
	if err != nil {
		return Unsupported, "", err
	}
	v, detail := Classify(mounts)
	return v, detail, nil
}

// IsUnified reports whether path is mounted as cgroup2 on this host.
func IsUnified(path string) (bool, error) {
	mounts, err := readMounts()
	if err != nil {
		return false, err
	}
	return Unified(mounts, path), nil
}
