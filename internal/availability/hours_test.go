package availability

import (
	"testing"
)

func TestParseWorkingHours(t *testing.T) {
	tests := []struct {
		template string
		open     int
		close    int
		wantErr  bool
	}{
		{"9:00am-8:00pm", 9 * 60, 20 * 60, false},
		{"10:30am-6:15pm", 10*60 + 30, 18*60 + 15, false},
		{"12:00pm-11:59pm", 12 * 60, 23*60 + 59, false},
		{"12:00am-1:00am", 0, 60, false},
		{" 9:00am - 8:00pm ", 9 * 60, 20 * 60, false},
		{"9:00-20:00", 0, 0, true},
		{"9am-8pm", 0, 0, true},
		{"8:00pm-9:00am", 0, 0, true}, // закрытие раньше открытия
		{"13:00am-8:00pm", 0, 0, true},
		{"9:61am-8:00pm", 0, 0, true},
		{"", 0, 0, true},
		{"выходной", 0, 0, true},
	}

	for _, tc := range tests {
		open, close, err := ParseWorkingHours(tc.template)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseWorkingHours(%q): expected error, got %d-%d", tc.template, open, close)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseWorkingHours(%q): unexpected error: %v", tc.template, err)
			continue
		}
		if open != tc.open || close != tc.close {
			t.Errorf("ParseWorkingHours(%q) = %d-%d, want %d-%d", tc.template, open, close, tc.open, tc.close)
		}
	}
}

func TestWithinWorkingHours(t *testing.T) {
	hours := "9:00am-8:00pm"

	tests := []struct {
		minute int
		want   bool
	}{
		{9 * 60, true},
		{8*60 + 59, false},
		{19*60 + 59, true},
		{20 * 60, false}, // правая граница не включается
		{0, false},
	}

	for _, tc := range tests {
		if got := WithinWorkingHours(tc.minute, &hours); got != tc.want {
			t.Errorf("WithinWorkingHours(%d) = %v, want %v", tc.minute, got, tc.want)
		}
	}

	if WithinWorkingHours(10*60, nil) {
		t.Errorf("nil template must mean closed")
	}

	empty := "   "
	if WithinWorkingHours(10*60, &empty) {
		t.Errorf("blank template must mean closed")
	}

	bad := "09:00-20:00"
	if WithinWorkingHours(10*60, &bad) {
		t.Errorf("malformed template must fail closed")
	}
}
