package ocr

import "errors"

// ErrPreprocess is returned when an image cannot be turned into a canonical raster.
var ErrPreprocess = errors.New("preprocess failed")

// ErrRecognize is returned when the OCR engine call itself fails. Finding no
// symbols is not an error.
var ErrRecognize = errors.New("ocr failed")
