package proctab

import (
	"strings"

	"github.com/ja7ad/proctab/pkg/snapshot"
	"github.com/ja7ad/proctab/pkg/system/util"
)

// ResolveName joins args with single spaces into the display command and
// returns it with the basename offset: the length of args[0], capped to the
// joined length minus one.
//
// When args is empty, or the joined text would need more than limit bytes
// (limit > 0), comm is returned verbatim with its own length as the offset.
func ResolveName(args []string, comm string, limit int) (string, int) {
	if len(args) == 0 {
		return comm, len(comm)
	}

	size := 0
	for _, a := range args {
		size += len(a) + 1
	}
	if limit > 0 && size-1 > limit {
		return comm, len(comm)
	}

	var b strings.Builder
	b.Grow(size - 1)
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a)
	}
	return b.String(), util.MinInt(len(args[0]), size-1)
}

// ResolveName resolves the display command of d. The argument list comes from
// the source when it can supply one; any failure falls back to the short name.
func (t *Table) ResolveName(d snapshot.Descriptor) (string, int) {
	var args []string
	if t.argv != nil {
		a, err := t.argv.Argv(d)
		if err != nil {
			t.log.Debug("argv unavailable, using short name", "pid", d.PID, "err", err)
		} else {
			args = a
		}
	}
	return ResolveName(args, d.Comm, t.opts.MaxArgvBytes)
}
