package similarity

import "testing"

func TestCompareKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.txt", "report"},
		{"report.pdf", "report"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{"file.v2", "file"},
		{"trailing.", "trailing"},
		{".bashrc", ""},
		{"W. Richard Stevens", "W. Richard Stevens"},
		{"Donald E. Knuth", "Donald E"},
		{"name.123456789", "name"},
		{"name.1234567890", "name.1234567890"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CompareKey(tt.in); got != tt.want {
			t.Errorf("CompareKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
