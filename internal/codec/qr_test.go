package codec

import (
	"bytes"
	"testing"

	"toya/internal/core"
)

func TestBuildQRPayload(t *testing.T) {
	cases := []struct {
		ref   string
		cents int64
		date  string
		want  string
	}{
		{"REF123", 5000, "2024-01-05", "TOYA-REC:REF123|AMT:50.0|DATE:2024-01-05"},
		{"REF999", 123455, "2024-02-10T08:30:00", "TOYA-REC:REF999|AMT:1234.55|DATE:2024-02-10T08:30:00"},
		{"REF001", 5050, "2024-03-01", "TOYA-REC:REF001|AMT:50.5|DATE:2024-03-01"},
	}
	for _, tc := range cases {
		got := BuildQRPayload(tc.ref, core.Money{Cents: tc.cents}, tc.date)
		if got != tc.want {
			t.Errorf("BuildQRPayload(%q) = %q, want %q", tc.ref, got, tc.want)
		}
	}
}

func TestRenderQRPNG(t *testing.T) {
	png, err := RenderQRPNG("TOYA-REC:REF123|AMT:50.0|DATE:2024-01-05", 0)
	if err != nil {
		t.Fatalf("RenderQRPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("expected PNG magic bytes")
	}
}
