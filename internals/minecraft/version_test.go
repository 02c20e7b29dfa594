package minecraft

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.10.0", "1.2.0", 1},
		{"1.2.0", "1.10.0", -1},
		{"9.3", "9.3", 0},
		{"9.3", "9.3.1", -1},
		{"0.14.9", "0.14.10", -1},
		{"1.0-SNAPSHOT", "1.0-snapshot", 0},
		{"2.0.1", "2.0.beta", 1},
		{"2.0.alpha", "2.0.beta", -1},
		{"007", "7", 0},
		{"123456789012345678901234567890", "123456789012345678901234567889", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := CompareVersions(tt.a, tt.b); got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
