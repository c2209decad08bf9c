// Package hostlocal provides the host.Host collaborators cmd/nanobasic
// uses when running directly against a user's terminal: raw-mode console
// I/O, a wall-clock millisecond Clock, a math/rand RNG, a file-backed
// Storage block, and no-op GPIO (a desktop has no pins to drive).
//
// The Console's background reader goroutine is grounded on
// KTStephano-GVM/vm/devices.go's consoleIO: a single goroutine owns the
// only blocking read of stdin in the process and posts what it reads
// into a channel, so every other goroutine can poll without blocking.
// nanoBASIC's GetChar needs no request-ID/interrupt protocol, so the
// channel here carries bare bytes instead of devices.go's Response
// envelopes.
package hostlocal

import (
	"bufio"
	"io"
	"math/rand"
	"os"
	"time"

	"golang.org/x/term"
)

// Console reads raw bytes from an *os.File (normally os.Stdin) on a
// single background goroutine and buffers them in a channel so GetChar
// never blocks.
type Console struct {
	out   *os.File
	in    chan byte
	state *term.State
}

// NewConsole puts tty into raw mode (disabling line buffering and local
// echo so the interpreter sees every keystroke, including ^C, as data)
// and starts the background reader. Restore undoes the raw-mode switch
// and must be called before the process exits.
func NewConsole(tty *os.File) (*Console, error) {
	state, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return nil, err
	}
	c := &Console{
		out:   tty,
		in:    make(chan byte, 256),
		state: state,
	}
	go c.run(tty)
	return c, nil
}

// run is the only goroutine in the process that reads tty; everything
// it reads is forwarded to in, whose 256-byte buffer holds it until the
// consumer drains it.
func (c *Console) run(tty *os.File) {
	r := bufio.NewReader(tty)
	for {
		b, err := r.ReadByte()
		if err != nil {
			close(c.in)
			return
		}
		c.in <- b
	}
}

func (c *Console) PutChar(b byte) {
	c.out.Write([]byte{b})
}

// GetChar never blocks: ok is false when the reader goroutine has
// nothing buffered yet.
func (c *Console) GetChar() (byte, bool) {
	select {
	case b, open := <-c.in:
		if !open {
			return 0, false
		}
		return b, true
	default:
		return 0, false
	}
}

// Restore takes the tty back out of raw mode.
func (c *Console) Restore(tty *os.File) error {
	return term.Restore(int(tty.Fd()), c.state)
}

// Read implements io.Reader by blocking for at least one byte from the
// background reader goroutine. This lets goat/term's line editor share
// the same byte stream GetChar polls non-blockingly, for the REPL
// prompt's line assembly (spec.md's console is single-reader: only one
// of Read or GetChar is actively draining c.in at a time).
func (c *Console) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b, open := <-c.in
	if !open {
		return 0, io.EOF
	}
	p[0] = b
	return 1, nil
}

// Write implements io.Writer so a *Console can back goat/term's
// interactive echo.
func (c *Console) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

// Clock reads the real wall clock, stamped at construction so
// TickMillis counts milliseconds since the interpreter started rather
// than since the Unix epoch.
type Clock struct {
	start time.Time
}

func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

func (c *Clock) TickMillis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// RNG wraps math/rand behind host.RNG.
type RNG struct {
	r *rand.Rand
}

func NewRNG() *RNG {
	return &RNG{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *RNG) Seed(seed int32) { r.r = rand.New(rand.NewSource(int64(seed))) }

func (r *RNG) Intn(n int32) int32 {
	if n <= 0 {
		return 0
	}
	return int32(r.r.Intn(int(n)))
}

// GPIO is a no-op: a desktop host has no pins, ADC channels, or PWM
// outputs, so every call reports the "parameter error" sentinel.
type GPIO struct{}

func (GPIO) Write(pin, value int32) int32  { return -1 }
func (GPIO) Read(pin int32) int32          { return -1 }
func (GPIO) ADCRead(channel int32) int32   { return -1 }
func (GPIO) PWMSet(pin, value int32) int32 { return -1 }

// Reset starts a fresh copy of the current executable with the same
// arguments and standard streams, then exits, the closest a desktop
// process can come to a hardware soft reset.
type Reset struct{}

func (Reset) SystemReset() {
	exe, err := os.Executable()
	if err != nil {
		os.Exit(0)
	}
	proc, err := os.StartProcess(exe, os.Args, &os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	})
	if err != nil {
		os.Exit(0)
	}
	proc.Release()
	os.Exit(0)
}
