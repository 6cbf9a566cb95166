package recording

import "errors"

var (
	ErrTruncated     = errors.New("recording: truncated frame")
	ErrNegativeCount = errors.New("recording: negative sample count")
	ErrTrailingBytes = errors.New("recording: trailing bytes after frame")
)
