package history

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrOpen   = errors.New("open history store failed")
	ErrRecord = errors.New("record pass failed")
	ErrQuery  = errors.New("query history failed")
	ErrScan   = errors.New("scan history row failed")
)
