package s3file

import "fmt"

// Range is a byte window within an object. Begin is inclusive, End is
// exclusive. End < 0 means the window extends to the end of the object.
type Range struct {
	Begin int64
	End   int64
}

// entire covers the whole object.
var entire = Range{Begin: 0, End: -1}

func (r Range) isEntire() bool { return r.Begin == 0 && r.End < 0 }

// slice composes a relative window onto r. begin and end are offsets from
// r.Begin; end < 0 leaves the current end untouched. A supplied end never
// extends past the existing one, so repeated slicing narrows monotonically
// and composes associatively.
func (r Range) slice(begin, end int64) Range {
	out := Range{Begin: r.Begin + begin, End: r.End}
	if end >= 0 {
		out.End = r.Begin + end
		if r.End >= 0 && r.End < out.End {
			out.End = r.End
		}
	}
	return out
}

// header renders the window as an HTTP Range header value, or "" when the
// window covers the entire object and no header should be sent. A degenerate
// empty window renders as-is and is rejected by the backend.
func (r Range) header() string {
	if r.isEntire() {
		return ""
	}
	if r.End >= 0 {
		return fmt.Sprintf("bytes=%d-%d", r.Begin, r.End-1)
	}
	return fmt.Sprintf("bytes=%d-", r.Begin)
}
