package s3file

import "testing"

func TestRangeSliceComposition(t *testing.T) {
	tests := []struct {
		name   string
		start  Range
		begin  int64
		end    int64
		want   Range
	}{
		{"begin only on entire", entire, 5, -1, Range{5, -1}},
		{"begin and end on entire", entire, 5, 10, Range{5, 10}},
		{"begin shifts by current begin", Range{100, -1}, 5, -1, Range{105, -1}},
		{"end is relative to current begin", Range{100, -1}, 0, 50, Range{100, 150}},
		{"end clamped to existing end", Range{100, 120}, 0, 50, Range{100, 120}},
		{"end within existing end", Range{100, 120}, 5, 15, Range{105, 115}},
		{"no-op slice", Range{10, 20}, 0, -1, Range{10, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.slice(tt.begin, tt.end)
			if got != tt.want {
				t.Errorf("slice(%d, %d) on %+v = %+v, want %+v", tt.begin, tt.end, tt.start, got, tt.want)
			}
		})
	}
}

// Slicing twice must equal slicing once with the composed offsets:
// R.Slice(a, d).Slice(b-a, c-a) == R.Slice(b, c) for a <= b <= c <= d.
func TestSliceAssociativity(t *testing.T) {
	tuples := [][4]int64{
		{0, 0, 10, 10},
		{0, 2, 8, 10},
		{5, 5, 5, 5},
		{1, 3, 7, 20},
		{0, 1, 2, 3},
	}
	for _, tp := range tuples {
		a, b, c, d := tp[0], tp[1], tp[2], tp[3]
		f := &File{rng: entire}

		twice := f.Slice(a, d).Slice(b-a, c-a)
		once := f.Slice(b, c)
		if twice.rng != once.rng {
			t.Errorf("a=%d b=%d c=%d d=%d: sliced twice %+v, once %+v", a, b, c, d, twice.rng, once.rng)
		}
	}
}

func TestWithContentTypePreservesRange(t *testing.T) {
	f := &File{rng: entire, opts: Options{ContentType: "application/octet-stream"}}
	sliced := f.Slice(10, 20)

	retyped := sliced.WithContentType("text/plain")
	if retyped.rng != sliced.rng {
		t.Errorf("WithContentType changed range: %+v -> %+v", sliced.rng, retyped.rng)
	}
	if retyped.opts.ContentType != "text/plain" {
		t.Errorf("content type = %q, want text/plain", retyped.opts.ContentType)
	}
	if sliced.opts.ContentType != "application/octet-stream" {
		t.Errorf("original mutated: content type = %q", sliced.opts.ContentType)
	}
}

func TestSliceDoesNotMutateOriginal(t *testing.T) {
	f := &File{rng: entire}
	_ = f.Slice(3, 9)
	if f.rng != entire {
		t.Errorf("Slice mutated the original: %+v", f.rng)
	}
}

func TestRangeHeader(t *testing.T) {
	tests := []struct {
		rng  Range
		want string
	}{
		{entire, ""},
		{Range{0, 10}, "bytes=0-9"},
		{Range{5, -1}, "bytes=5-"},
		{Range{3, 7}, "bytes=3-6"},
	}
	for _, tt := range tests {
		if got := tt.rng.header(); got != tt.want {
			t.Errorf("header(%+v) = %q, want %q", tt.rng, got, tt.want)
		}
	}
}
