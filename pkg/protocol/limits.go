package protocol

import "errors"

// MaxValueDepth limits how deeply list values may nest. Settings hold flat
// option lists, so anything deeper than a few levels is malformed input.
const MaxValueDepth = 16

// ErrMaxDepthExceeded is returned when a value nests deeper than
// MaxValueDepth.
var ErrMaxDepthExceeded = errors.New("protocol: max depth exceeded")
