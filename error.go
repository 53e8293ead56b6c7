package bridge

import "errors"

var (
	ErrInvalidParam = errors.New("the param is invalid")
	ErrNotFound     = errors.New("not found")
	ErrShutdown     = errors.New("bridge is shutting down")
	ErrEncodeFailed = errors.New("one or more fields failed to encode")
)
