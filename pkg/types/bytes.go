package types

import "fmt"

// Bytes is a uint64 wrapper representing a size in bytes.
type Bytes uint64

// FromKB converts a kilobyte counter (1024 base) into Bytes.
func FromKB(kb uint64) Bytes { return Bytes(kb << 10) }

// FromPages converts a page count into Bytes for the given page size in KB.
func FromPages(pages, pageSizeKB uint64) Bytes { return FromKB(pages * pageSizeKB) }

var units = []struct {
	shift uint
	name  string
}{
	{40, "TB"},
	{30, "GB"},
	{20, "MB"},
	{10, "KB"},
}

// Humanized returns a human-readable string with automatic unit (B, KB, MB, GB, TB).
func (b Bytes) Humanized() string {
	for _, u := range units {
		if b >= 1<<u.shift {
			return fmt.Sprintf("%.2f %s", float64(b)/float64(uint64(1)<<u.shift), u.name)
		}
	}
	return fmt.Sprintf("%d B", b)
}

// KB returns the number of kilobytes (1024 base).
func (b Bytes) KB() float64 { return float64(b) / 1024 }

// MB returns the number of megabytes (1024 base).
func (b Bytes) MB() float64 { return float64(b) / (1024 * 1024) }
