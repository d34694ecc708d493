// Package tesseract implements ocr.Engine on top of Tesseract via gosseract.
//
// Each Perform creates its own gosseract client, so one Engine can serve many
// workers at once. The image behind the handle is decoded, prepared according
// to the request's recognition level (see imaging.Profile) and handed to
// Tesseract as PNG. Text lines come back as regions with a single candidate
// each, in the normalized bottom-left coordinate system the recognition core
// expects.
//
// # Languages
//
// Requests carry BCP-47 tags ("en-US", "zh-Hans"). They are mapped to
// Tesseract traineddata names ("eng", "chi_sim"). With automatic language
// detection on, every requested language is loaded together; otherwise only
// the first one is used.
//
// # Build Requirements
//
// The engine needs cgo and the Tesseract and Leptonica development libraries:
//
//	# Debian/Ubuntu
//	sudo apt install libtesseract-dev libleptonica-dev tesseract-ocr-eng
//
//	# macOS
//	brew install tesseract
//
// Without cgo the package still builds, but every request fails with
// ocr.ErrRequestAllocationFailed.
//
// # Training Data
//
// Tesseract looks for traineddata in TESSDATA_PREFIX, or in the directory set
// with WithTessdataPrefix.
package tesseract
