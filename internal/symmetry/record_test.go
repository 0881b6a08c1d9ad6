package symmetry

import (
	"errors"
	"testing"

	"github.com/volumetry/dehnscan/internal/filling"
)

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		ok   bool
	}{
		{"identity", Record{1, 0, 0, 1, 1}, true},
		{"m136 first", Record{0, 4, 1, 0, 2}, true},   // det -4 = -n^2, orientation-reversing
		{"m136 second", Record{1, 0, 0, -1, 1}, true}, // det -1
		{"m136 third", Record{0, -4, 1, 0, 2}, true},  // det 4
		{"scaled identity", Record{2, 0, 0, 2, 2}, true},
		{"bad determinant", Record{1, 1, 1, 1, 1}, false},
		{"zero n", Record{1, 0, 0, 1, 0}, false},
		{"negative n", Record{1, 0, 0, 1, -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate(%v) = %v, want nil", tt.rec, err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatalf("Validate(%v) = nil, want error", tt.rec)
				}
				if !errors.Is(err, ErrBadDeterminant) {
					t.Errorf("Validate(%v) = %v, want ErrBadDeterminant", tt.rec, err)
				}
			}
		})
	}
}

func TestRecordApply(t *testing.T) {
	tests := []struct {
		name  string
		rec   Record
		in    filling.Filling
		want  filling.Filling
		wants bool
	}{
		{"identity", Record{1, 0, 0, 1, 1}, filling.Filling{X: 3, Y: 2}, filling.Filling{X: 3, Y: 2}, true},
		{"m136 applies", Record{0, 4, 1, 0, 2}, filling.Filling{X: 4, Y: 1}, filling.Filling{X: 2, Y: 2}, true},
		{"m136 y not divisible", Record{0, 4, 1, 0, 2}, filling.Filling{X: 3, Y: 2}, filling.Filling{}, false},
		{"x not divisible", Record{2, 1, 0, 2, 2}, filling.Filling{X: 1, Y: 1}, filling.Filling{}, false},
		{"reflection", Record{1, 0, 0, -1, 1}, filling.Filling{X: 2, Y: 5}, filling.Filling{X: 2, Y: -5}, true},
		{"negative image", Record{0, -4, 1, 0, 2}, filling.Filling{X: 2, Y: 1}, filling.Filling{X: -2, Y: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rec.Apply(tt.in)
			if ok != tt.wants {
				t.Fatalf("Apply(%v, %v) ok = %v, want %v", tt.rec, tt.in, ok, tt.wants)
			}
			if ok && got != tt.want {
				t.Errorf("Apply(%v, %v) = %v, want %v", tt.rec, tt.in, got, tt.want)
			}
		})
	}
}

func TestRecordString(t *testing.T) {
	if got := (Record{0, 4, 1, 0, 2}).String(); got != "[0, 4, 1, 0, 2]" {
		t.Errorf("String() = %q, want %q", got, "[0, 4, 1, 0, 2]")
	}
}
