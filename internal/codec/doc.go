// Package codec sniffs, decodes, and re-encodes raster images while carrying
// their resolution metadata.
//
// Formats are detected from content signatures, never from file extensions.
// Pixel decoding uses the standard library and golang.org/x/image; encoding
// goes through github.com/disintegration/imaging. Resolution metadata does not
// survive those codecs, so each format has a small reader and stamper that
// work directly on the encoded bytes: the PNG pHYs chunk, the JPEG JFIF APP0
// segment (EXIF tags are read as a fallback), the BMP info header, and the
// TIFF IFD0 resolution tags. GIF carries no density field and WebP is
// decode-only.
package codec
