package qrcode

import (
	"errors"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("qr content must not be empty")

// PNG renders content as a square PNG image. The size is clamped to [MinSize, MaxSize];
// zero selects DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	return goqrcode.Encode(content, goqrcode.Medium, ClampSize(size))
}

// ClampSize maps a requested edge length onto the supported range.
func ClampSize(size int) int {
	switch {
	case size == 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	default:
		return size
	}
}
