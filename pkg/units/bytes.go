package units

import "fmt"

// Bytes is a byte count reported by the process sampler (1024 base).
type Bytes uint64

const (
	KiB Bytes = 1 << (10 * (iota + 1))
	MiB
	GiB
	TiB
)

var byteSuffixes = []struct {
	size Bytes
	name string
}{
	{TiB, "TB"},
	{GiB, "GB"},
	{MiB, "MB"},
	{KiB, "KB"},
}

// Humanized picks the largest unit the count reaches, with two decimals.
func (b Bytes) Humanized() string {
	for _, s := range byteSuffixes {
		if b >= s.size {
			return fmt.Sprintf("%.2f %s", float64(b)/float64(s.size), s.name)
		}
	}
	return fmt.Sprintf("%d B", uint64(b))
}

// KB returns the number of kilobytes.
func (b Bytes) KB() float64 { return float64(b) / float64(KiB) }

// MB returns the number of megabytes.
func (b Bytes) MB() float64 { return float64(b) / float64(MiB) }

// GB returns the number of gigabytes.
func (b Bytes) GB() float64 { return float64(b) / float64(GiB) }

// Uint64 returns the raw count.
func (b Bytes) Uint64() uint64 { return uint64(b) }
