package imagemeta

import (
	"encoding/binary"
	"strings"
)

// HeaderBytes is a safe prefix length to read for dimension extraction; both
// supported headers fit well within it.
const HeaderBytes = 64

// Dimensions recovers image width and height from raw header bytes for the
// two supported container formats. Any other extension, a buffer too short,
// or a signature mismatch yields (0, 0). It never errors: dimension recovery
// is a best-effort stage and must not affect pipeline outcome.
func Dimensions(data []byte, ext string) (width, height int) {
	switch strings.ToLower(ext) {
	case ".png":
		return pngDimensions(data)
	case ".bmp":
		return bmpDimensions(data)
	default:
		return 0, 0
	}
}

// pngDimensions reads the IHDR width and height fields. The IHDR chunk is
// mandated to be first, so width sits at byte 16 and height at byte 20,
// both big-endian.
func pngDimensions(data []byte) (int, int) {
	if len(data) <= 24 {
		return 0, 0
	}
	if data[0] != 0x89 || data[1] != 'P' {
		return 0, 0
	}
	w := binary.BigEndian.Uint32(data[16:20])
	h := binary.BigEndian.Uint32(data[20:24])
	return int(w), int(h)
}

// bmpDimensions reads the BITMAPINFOHEADER width and height fields at byte
// offsets 18 and 22, little-endian. Height may be stored negative to mark
// top-down row order; callers always get the absolute value.
func bmpDimensions(data []byte) (int, int) {
	if len(data) <= 26 {
		return 0, 0
	}
	if data[0] != 'B' || data[1] != 'M' {
		return 0, 0
	}
	w := int32(binary.LittleEndian.Uint32(data[18:22]))
	h := int32(binary.LittleEndian.Uint32(data[22:26]))
	if h < 0 {
		h = -h
	}
	return int(w), int(h)
}
