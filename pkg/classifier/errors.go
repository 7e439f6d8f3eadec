package classifier

import "errors"

// ErrClassification is returned when the classifier call fails or returns
// data that cannot be interpreted.
var ErrClassification = errors.New("classification failed")

// ErrModelNotLoaded is returned for requests that arrive before the model
// finished loading, or after loading failed.
var ErrModelNotLoaded = errors.New("classifier model not loaded")
