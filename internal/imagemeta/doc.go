// Package imagemeta extracts image dimensions from raw file headers.
//
// Only two container formats are parsed, and only far enough to recover
// width and height: PNG (big-endian IHDR fields) and BMP (little-endian
// BITMAPINFOHEADER fields, with negative heights folded to their absolute
// value). Full decoding is out of scope; unrecognized or truncated headers
// yield (0, 0) rather than an error.
package imagemeta
