package gui

import (
	"testing"

	"github.com/Weixin07/Webm2Gif/internal/config"
)

func TestParseOptionalNumber(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		def     int
		lo, hi  int
		want    int
		wantErr bool
	}{
		{"empty picks default", "", 15, 1, 120, 15, false},
		{"whitespace picks default", "  ", 15, 1, 120, 15, false},
		{"in range", "24", 15, 1, 120, 24, false},
		{"zero always allowed", "0", 15, 1, 120, 0, false},
		{"lower bound", "1", 15, 1, 120, 1, false},
		{"upper bound", "120", 15, 1, 120, 120, false},
		{"below range", "-3", 15, 1, 120, 0, true},
		{"above range", "240", 15, 1, 120, 0, true},
		{"not a number", "fast", 15, 1, 120, 0, true},
		{"trailing junk", "12fps", 15, 1, 120, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOptionalNumber(tt.answer, tt.def, tt.lo, tt.hi)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseOptionalNumber(%q) = %d, want error", tt.answer, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOptionalNumber(%q) error = %v", tt.answer, err)
			}
			if got != tt.want {
				t.Errorf("parseOptionalNumber(%q) = %d, want %d", tt.answer, got, tt.want)
			}
		})
	}
}

func TestNewPicksBackend(t *testing.T) {
	if _, ok := New(&config.Config{NoGUI: true}).(*termDialogs); !ok {
		t.Error("NoGUI should select terminal prompts")
	}
	if _, ok := New(&config.Config{}).(*zenityDialogs); !ok {
		t.Error("default should select native dialogs")
	}
}
