// Package ttyserial adapts a raw Linux tty device into an otbus.Bus,
// for boards that bridge OpenTherm framing over a USB-serial adapter
// instead of raw GPIO: the adapter's own microcontroller does the
// Manchester encode/decode and hands 8-byte big-endian frames across
// the serial line, one per exchange.
//
// The termios/ioctl plumbing here is trimmed from a general-purpose
// serial port library down to what this gateway needs: open a raw
// 8N1 port at a fixed baud and read with a deadline.
package ttyserial

import (
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	ioctl "github.com/daedaluz/goioctl"
	"github.com/daedaluz/fdev/poll"
)

// Termios mirrors the Linux struct termios layout (see termios(3)).
type Termios struct {
	Iflag uint32
	Oflag uint32
	Cflag uint32
	Lflag uint32
	Line  byte
	Cc    [19]byte
}

// Baud rate and control-flag bits this package actually sets. The
// full termios bit catalog (parity, flow control, line disciplines,
// ...) isn't needed: the bridge always runs raw 8N1.
const (
	cbaud = uint32(0010017)
	cs8   = uint32(0000060)
	cread = uint32(0000200)
	clocal = uint32(0004000)

	b9600   = uint32(0000015)
	b19200  = uint32(0000016)
	b38400  = uint32(0000017)
	b57600  = uint32(0010001)
	b115200 = uint32(0010002)

	ignbrk = uint32(0000001)
	brkint = uint32(0000002)
	parmrk = uint32(0000010)
	istrip = uint32(0000040)
	inlcr  = uint32(0000100)
	igncr  = uint32(0000200)
	icrnl  = uint32(0000400)
	ixon   = uint32(0002000)

	opost = uint32(0000001)

	echo   = uint32(0000010)
	echonl = uint32(0000100)
	icanon = uint32(0000002)
	isig   = uint32(0000001)
	iexten = uint32(0100000)

	csize  = uint32(0000060)
	parenb = uint32(0000400)
)

// BaudRate is a supported fixed serial speed.
type BaudRate uint32

const (
	Baud9600   = BaudRate(b9600)
	Baud19200  = BaudRate(b19200)
	Baud38400  = BaudRate(b38400)
	Baud57600  = BaudRate(b57600)
	Baud115200 = BaudRate(b115200)
)

func (t *Termios) makeRaw() {
	t.Iflag &^= ignbrk | brkint | parmrk | istrip | inlcr | igncr | icrnl | ixon
	t.Oflag &^= opost
	t.Lflag &^= echo | echonl | icanon | isig | iexten
	t.Cflag &^= csize | parenb
	t.Cflag |= cs8
}

func (t *Termios) setSpeed(baud BaudRate) {
	t.Cflag &^= cbaud
	t.Cflag |= uint32(baud)
}

var (
	tcgets = uintptr(0x5401)
	tcsets = uintptr(0x5402)
)

// Port is a raw, opened tty device.
type Port struct {
	fd          int
	closed      atomic.Bool
	readTimeout time.Duration
}

// Open opens name (e.g. "/dev/ttyUSB0"), configures it for raw 8N1 at
// baud, and returns a Port ready for Read/Write.
func Open(name string, baud BaudRate) (*Port, error) {
	fd, err := syscall.Open(name, syscall.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, wrapErr("ttyserial: open", err)
	}
	p := &Port{fd: fd, readTimeout: -1}

	attrs, err := p.getAttr()
	if err != nil {
		syscall.Close(fd)
		return nil, err
	}
	attrs.makeRaw()
	attrs.setSpeed(baud)
	attrs.Cflag |= cread | clocal
	if err := p.setAttr(attrs); err != nil {
		syscall.Close(fd)
		return nil, err
	}
	return p, nil
}

func (p *Port) getAttr() (*Termios, error) {
	attrs := &Termios{}
	if err := ioctl.Ioctl(uintptr(p.fd), tcgets, uintptr(unsafe.Pointer(attrs))); err != nil {
		return nil, wrapErr("ttyserial: tcgets", err)
	}
	return attrs, nil
}

func (p *Port) setAttr(attrs *Termios) error {
	if err := ioctl.Ioctl(uintptr(p.fd), tcsets, uintptr(unsafe.Pointer(attrs))); err != nil {
		return wrapErr("ttyserial: tcsets", err)
	}
	return nil
}

// SetReadTimeout bounds how long Read waits for data. A negative
// value disables the timeout (blocking read).
func (p *Port) SetReadTimeout(d time.Duration) {
	p.readTimeout = d
}

// Read fills data, waiting up to the configured read timeout for
// input to arrive.
func (p *Port) Read(data []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	if p.readTimeout >= 0 {
		if err := poll.WaitInput(p.fd, p.readTimeout); err != nil {
			return 0, wrapErr("ttyserial: wait input", err)
		}
	}
	n, err := syscall.Read(p.fd, data)
	if err != nil {
		return n, wrapErr("ttyserial: read", err)
	}
	return n, nil
}

// Write writes data in full.
func (p *Port) Write(data []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	n, err := syscall.Write(p.fd, data)
	if err != nil {
		return n, wrapErr("ttyserial: write", err)
	}
	return n, nil
}

// Close closes the underlying file descriptor. Safe to call once;
// subsequent calls return ErrClosed.
func (p *Port) Close() error {
	if !p.closed.Swap(true) {
		return syscall.Close(p.fd)
	}
	return ErrClosed
}
