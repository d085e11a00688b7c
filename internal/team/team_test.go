package team

import "testing"

func TestMatcher(t *testing.T) {
	m := NewMatcher("Atlético Madrid")
	tests := []struct {
		in   string
		want bool
	}{
		{"Atlético Madrid", true},
		{"ATLÉTICO MADRID", true},
		{"  atlético madrid ", true},
		{"Atletico Madrid", false},
		{"Real Madrid", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := m.Is(tt.in); got != tt.want {
			t.Errorf("Is(%q): want %v, got %v", tt.in, tt.want, got)
		}
	}
}
