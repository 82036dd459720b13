package utils

import (
	"testing"
	"time"
)

func TestParseIntDef(t *testing.T) {
	tests := []struct {
		name string
		s    string
		def  int
		want int
	}{
		{name: "plain number", s: "42", def: 0, want: 42},
		{name: "thousands separator", s: "1,204", def: 0, want: 1204},
		{name: "surrounding whitespace", s: " 12 ", def: 0, want: 12},
		{name: "signed", s: "+12", def: 0, want: 12},
		{name: "negative", s: "-50", def: 0, want: -50},
		{name: "garbage", s: "twelve", def: 7, want: 7},
		{name: "empty", s: "", def: -1, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseIntDef(tt.s, tt.def); got != tt.want {
				t.Errorf("ParseIntDef(%q, %d) = %d, want %d", tt.s, tt.def, got, tt.want)
			}
		})
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		name string
		s    string
		def  int
		want int
	}{
		{name: "pages", s: "123 pages", def: 1, want: 123},
		{name: "times", s: "57 times", def: 0, want: 57},
		{name: "no space", s: "123", def: 1, want: 1},
		{name: "word prefix", s: "about 5", def: 0, want: 0},
		{name: "empty", s: "", def: 9, want: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LeadingInt(tt.s, tt.def); got != tt.want {
				t.Errorf("LeadingInt(%q, %d) = %d, want %d", tt.s, tt.def, got, tt.want)
			}
		})
	}
}

func TestHumanReadableBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{26_214_400, "25.0 MiB"},
		{3_221_225_472, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := HumanReadableBytes(tt.n); got != tt.want {
			t.Errorf("HumanReadableBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestShortDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 s"},
		{90 * time.Second, "1 m"},
		{2 * time.Hour, "2 h"},
		{49 * time.Hour, "2 d"},
	}
	for _, tt := range tests {
		if got := ShortDuration(tt.d); got != tt.want {
			t.Errorf("ShortDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
