package ttyserial

import "syscall"

// Error wraps a syscall/ioctl failure with the operation that caused
// it, in the style of Daedaluz-goserial's error.go.
type Error struct {
	msg string
	err error
}

func (e Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e Error) Unwrap() error { return e.err }

func wrapErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	return Error{msg: msg, err: err}
}

// ErrClosed is returned by Port methods once Close has been called.
var ErrClosed = Error{msg: "ttyserial: port already closed", err: syscall.EBADF}
