package models

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"8:00 AM", 480, false},
		{"12:00 PM", 720, false},
		{"12:00 AM", 0, false},
		{"12:30 AM", 30, false},
		{"1:00 PM", 780, false},
		{"9:00 PM", 1260, false},
		{"11:59 PM", 1439, false},
		{"7 PM", 1140, false},
		{"7:15pm", 1155, false},
		{"7:00 PM", 1140, false},
		{"7:00 PM", 1140, false},
		{"13:00 PM", 0, true},
		{"0:30 AM", 0, true},
		{"7:60 PM", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClock(%q) expected error, got %d", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseClock24(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"08:00", 480, false},
		{"21:00", 1260, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"8am", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock24(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClock24(%q) expected error, got %d", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock24(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock24(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{480, "8:00 AM"},
		{0, "12:00 AM"},
		{720, "12:00 PM"},
		{1140, "7:00 PM"},
		{1439, "11:59 PM"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	for minutes := 0; minutes < 1440; minutes += 15 {
		parsed, err := ParseClock(FormatClock(minutes))
		if err != nil {
			t.Fatalf("round trip failed at %d: %v", minutes, err)
		}
		if parsed != minutes {
			t.Fatalf("round trip %d -> %q -> %d", minutes, FormatClock(minutes), parsed)
		}
	}
}
