package curate

import (
	"strings"
	"testing"
)

func TestEncodeBase64(t *testing.T) {
	t.Parallel()

	if got := EncodeBase64([]byte("hello")); got != "aGVsbG8=" {
		t.Errorf("EncodeBase64 = %q, want aGVsbG8=", got)
	}
}

func TestEncodeDataURL(t *testing.T) {
	t.Parallel()

	got := EncodeDataURL([]byte{0xFF, 0xD8}, "image/jpeg")
	if !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Errorf("EncodeDataURL = %q, want data:image/jpeg;base64, prefix", got)
	}
}
