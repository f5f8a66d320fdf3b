package qrcode

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

func TestPNG(t *testing.T) {
	data, err := PNG("ABCD-EFGH-JKMN", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("expected valid png: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestPNGRejectsEmptyContent(t *testing.T) {
	if _, err := PNG("", 0); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected empty content error, got %v", err)
	}
}

func TestClampSize(t *testing.T) {
	cases := map[int]int{0: DefaultSize, 10: MinSize, -5: MinSize, 300: 300, 5000: MaxSize}
	for in, want := range cases {
		if got := ClampSize(in); got != want {
			t.Fatalf("ClampSize(%d) = %d, want %d", in, got, want)
		}
	}
}
