package domain

import "errors"

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrUserNotFound     = errors.New("remote user not found")
	ErrStationNotBound  = errors.New("no station bound to account")
	ErrBindingNotCached = errors.New("binding not cached")
)
