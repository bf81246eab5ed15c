package redlock

import "errors"

var (
	// ErrNotAcquired 重试用完仍然没有拿到锁
	ErrNotAcquired = errors.New("redlock: lock not acquired")
	// ErrLockNotHeld 锁已经过期或者被别的持有者拿走
	ErrLockNotHeld = errors.New("redlock: lock not held")
	// ErrInvalidArguments 参数不合法
	ErrInvalidArguments = errors.New("redlock: invalid arguments")
)
