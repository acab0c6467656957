package session

import "errors"

var (
	ErrKeyFile    = errors.New("session key file error")
	ErrPortFile   = errors.New("port file error")
	ErrNoInstance = errors.New("no running instance")
	ErrWatch      = errors.New("watch failed")
)
