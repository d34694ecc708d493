// Package imaging decodes images and prepares them for the Tesseract engine.
//
// The recognition core never looks at pixels; only the engine does. This
// package is what the Tesseract engine uses to turn a file path or byte buffer
// into something it can feed to libtesseract.
//
// # Supported Formats
//
// Decoding is content-sniffed and supports PNG, JPEG, GIF, BMP, TIFF and WebP.
//
// # Preprocessing
//
// A Profile selects the preprocessing steps. The engine picks one profile per
// recognition level:
//
//   - Fast: downscale the longer side to at most 1600 pixels, grayscale
//   - Accurate: keep full resolution, invert dark images, grayscale, sharpen
//
// Resizing uses disintegration/imaging (Lanczos). Inversion, grayscale and
// sharpening use bild. Dark-background detection averages CIE L* lightness
// computed with go-colorful over a sparse pixel grid.
//
// # Coordinate System
//
// Images keep Go's top-left origin here. Conversion to the recognition core's
// normalized bottom-left coordinates happens in the engine.
package imaging
