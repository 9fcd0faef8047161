package cgroup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mountV2 = `22 1 0:21 / /proc rw,nosuid,nodev,noexec,relatime shared:12 - proc proc rw
25 22 0:23 / /sys/fs/cgroup rw,nosuid,nodev,noexec,relatime shared:4 - cgroup2 cgroup2 rw,nsdelegate,memory_recursiveprot
26 1 8:1 / / rw,relatime shared:1 - ext4 /dev/sda1 rw
`
	mountV1 = `30 25 0:26 / /sys/fs/cgroup/cpu,cpuacct rw,nosuid shared:9 - cgroup cgroup rw,cpu,cpuacct
31 25 0:27 / /sys/fs/cgroup/memory rw,nosuid shared:10 - cgroup cgroup rw,memory
`
	mountHybrid = `25 1 0:23 / /sys/fs/cgroup/unified rw,nosuid shared:4 - cgroup2 cgroup2 rw
31 25 0:27 / /sys/fs/cgroup/memory rw,nosuid shared:10 - cgroup cgroup rw,memory
`
)

func TestParseMountinfo(t *testing.T) {
	mounts, err := ParseMountinfo(strings.NewReader(mountV2 + "garbage line\n"))
	require.NoError(t, err)
	assert.Equal(t, []Mount{{Point: "/sys/fs/cgroup", FSType: FSTypeV2}}, mounts)

	mounts, err = ParseMountinfo(strings.NewReader(mountV1))
	require.NoError(t, err)
	require.Len(t, mounts, 2)
	assert.Equal(t, "/sys/fs/cgroup/memory", mounts[1].Point)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		info   string
		want   Version
		detail string
	}{
		{"v2", mountV2, V2, "cgroup2 on /sys/fs/cgroup"},
		{"v1", mountV1, V1, "cgroup v1 on /sys/fs/cgroup/cpu,cpuacct,/sys/fs/cgroup/memory"},
		{"hybrid", mountHybrid, Hybrid, "cgroup2 on /sys/fs/cgroup/unified; cgroup v1 on /sys/fs/cgroup/memory"},
		{"none", "26 1 8:1 / / rw - ext4 /dev/sda1 rw\n", Unsupported, "no cgroup mounts found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mounts, err := ParseMountinfo(strings.NewReader(tt.info))
			require.NoError(t, err)
			v, detail := Classify(mounts)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.detail, detail)
		})
	}
}

func TestUnified(t *testing.T) {
	mounts, err := ParseMountinfo(strings.NewReader(mountHybrid))
	require.NoError(t, err)
	assert.True(t, Unified(mounts, "/sys/fs/cgroup/unified"))
	assert.False(t, Unified(mounts, "/sys/fs/cgroup"))
	assert.False(t, Unified(mounts, "/sys/fs/cgroup/memory"))
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "cgroup v1", V1.String())
	assert.Equal(t, "cgroup v2", V2.String())
	assert.Equal(t, "cgroup hybrid", Hybrid.String())
	assert.Equal(t, "unsupported", Unsupported.String())
}
