package audioscrobbler

import (
	"fmt"
	"net/url"
	"strings"
)

// FormBuilder accumulates a URL query string or POST body as a single
// string, matching the escaping discipline the protocol expects: the
// first key is joined with "?" (unless the base already has one) or, for
// a bare body, with no separator at all; every subsequent key is joined
// with "&". Values are percent-encoded; keys are written verbatim.
type FormBuilder struct {
	b       strings.Builder
	wrote   bool
	hasBase bool
}

// NewFormBuilder starts a builder seeded with base (a URL, or "" for a
// standalone POST body).
func NewFormBuilder(base string) *FormBuilder {
	f := &FormBuilder{}
	f.b.WriteString(base)
	f.hasBase = strings.Contains(base, "?")
	return f
}

func (f *FormBuilder) separator() byte {
	if !f.wrote {
		if f.b.Len() == 0 {
			return 0
		}
		if f.hasBase {
			return '&'
		}
		return '?'
	}
	return '&'
}

// Add appends key=value, percent-encoding value.
func (f *FormBuilder) Add(key, value string) *FormBuilder {
	if sep := f.separator(); sep != 0 {
		f.b.WriteByte(sep)
	}
	f.b.WriteString(key)
	f.b.WriteByte('=')
	f.b.WriteString(url.QueryEscape(value))
	f.wrote = true
	return f
}

// AddIndexed appends key[index]=value, for the batched submit request's
// per-record fields.
func (f *FormBuilder) AddIndexed(key string, index int, value string) *FormBuilder {
	return f.Add(fmt.Sprintf("%s[%d]", key, index), value)
}

// String returns the accumulated URL or body.
func (f *FormBuilder) String() string {
	return f.b.String()
}
