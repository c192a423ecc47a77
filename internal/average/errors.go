package average

import "errors"

var ErrUnknownAlgorithm = errors.New("unknown moving average algorithm")
