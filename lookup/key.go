package lookup

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// keyWriter builds canonical structural keys. Every significant field is
// written as name=value joined by '|'; set-valued criteria are sorted so
// the key is order-independent. No runtime hashing is involved, so keys are
// stable across processes.
type keyWriter struct {
	sb strings.Builder
}

func newKey(entityType string) *keyWriter {
	k := &keyWriter{}
	k.sb.WriteString(entityType)
	return k
}

func (k *keyWriter) field(name string) {
	k.sb.WriteByte('|')
	k.sb.WriteString(name)
	k.sb.WriteByte('=')
}

func (k *keyWriter) Str(name, v string) {
	if v == "" {
		return
	}
	k.field(name)
	k.sb.WriteString(v)
}

func (k *keyWriter) Strs(name string, vs []string) {
	if len(vs) == 0 {
		return
	}
	sorted := make([]string, len(vs))
	copy(sorted, vs)
	sort.Strings(sorted)
	k.field(name)
	k.sb.WriteString(strings.Join(sorted, ","))
}

func (k *keyWriter) Int(name string, v int) {
	if v == 0 {
		return
	}
	k.field(name)
	k.sb.WriteString(strconv.Itoa(v))
}

func (k *keyWriter) Bool(name string, v bool) {
	if !v {
		return
	}
	k.field(name)
	k.sb.WriteString("true")
}

func (k *keyWriter) Time(name string, v *time.Time) {
	if v == nil {
		return
	}
	k.field(name)
	k.sb.WriteString(v.UTC().Format(time.RFC3339Nano))
}

func (k *keyWriter) String() string { return k.sb.String() }
