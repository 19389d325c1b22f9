package reparse

import (
	"encoding/binary"
	"testing"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

func tagBuf(tag uint32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf, tag)
	return buf
}

func TestDecodeTag(t *testing.T) {
	cases := []struct {
		name string
		tag  uint32
		want linktypes.Kind
	}{
		{"mount point", TagMountPoint, linktypes.Junction},
		{"symlink", TagSymlink, linktypes.Symlink},
		{"unknown tag", 0x12345678, linktypes.Symlink},
	}
	for _, tc := range cases {
		got, err := DecodeTag(tagBuf(tc.tag))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: DecodeTag = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDecodeTagShortBuffer(t *testing.T) {
	if _, err := DecodeTag([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestClassifyFallback(t *testing.T) {
	dir := t.TempDir()
	if got := ClassifyFallback(dir+`\l`, dir); got != linktypes.Junction {
		t.Errorf("ClassifyFallback to a directory = %v, want Junction", got)
	}
}
