package buildinfo

import (
	"bytes"
	"testing"
)

func TestInfo_Print(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "all empty",
			info: New("", "", ""),
			want: "Build version: N/A\nBuild date: N/A\nBuild commit: N/A\n",
		},
		{
			name: "stamped",
			info: New("v1.2.0", "2025-10-18", "abc123"),
			want: "Build version: v1.2.0\nBuild date: 2025-10-18\nBuild commit: abc123\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.info.Print(&buf); err != nil {
				t.Fatalf("Print: %v", err)
			}
			if buf.String() != tt.want {
				t.Fatalf("got %q want %q", buf.String(), tt.want)
			}
		})
	}
}
