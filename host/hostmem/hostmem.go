// Package hostmem provides in-memory host.Host collaborators for tests:
// a scripted Console fed from a byte slice (with injectable break bytes),
// a plain []byte Storage, a deterministic RNG, and a manually-advanced
// Clock. Grounded on the way KTStephano-GVM/vm/vm_test.go builds a *VM
// directly from a source string with no external I/O -- here the same
// idea extended to the six collaborator interfaces package basic needs.
package hostmem

import (
	"math/rand"

	"github.com/nanobasic/nanobasic/host"
)

// New bundles a fresh set of in-memory collaborators into a host.Host,
// with storageSize bytes behind Storage and in queued up for the
// Console to return from GetChar.
func New(storageSize int, in []byte) host.Host {
	return host.Host{
		Console: NewConsole(in),
		Clock:   &Clock{},
		RNG:     NewRNG(1),
		GPIO:    &GPIO{},
		Storage: NewStorage(storageSize),
		Reset:   &Reset{},
	}
}

// Console is a scripted console: Feed queues bytes for GetChar to return
// one at a time, and Out collects everything PutChar writes, so tests can
// assert on program output without a real terminal.
type Console struct {
	in  []byte
	pos int
	Out []byte
}

// NewConsole builds a Console whose GetChar drains in, in order.
func NewConsole(in []byte) *Console {
	return &Console{in: in}
}

// Feed appends more bytes behind anything still unread, letting a test
// inject a break byte mid-run.
func (c *Console) Feed(b ...byte) {
	c.in = append(c.in, b...)
}

func (c *Console) PutChar(b byte) {
	c.Out = append(c.Out, b)
}

func (c *Console) GetChar() (byte, bool) {
	if c.pos >= len(c.in) {
		return 0, false
	}
	b := c.in[c.pos]
	c.pos++
	return b, true
}

// Clock is a Clock a test advances explicitly instead of sleeping.
type Clock struct {
	ms uint32
}

func (c *Clock) TickMillis() uint32 { return c.ms }

// Advance moves the clock forward by ms milliseconds.
func (c *Clock) Advance(ms uint32) { c.ms += ms }

// RNG wraps math/rand behind the host.RNG interface with an explicit
// seed, so a test can reproduce a RND sequence deterministically.
type RNG struct {
	r *rand.Rand
}

func NewRNG(seed int32) *RNG {
	return &RNG{r: rand.New(rand.NewSource(int64(seed)))}
}

func (r *RNG) Seed(seed int32) { r.r = rand.New(rand.NewSource(int64(seed))) }

func (r *RNG) Intn(n int32) int32 {
	if n <= 0 {
		return 0
	}
	return int32(r.r.Intn(int(n)))
}

// Storage is a flat in-memory block store.
type Storage struct {
	buf []byte
}

// NewStorage allocates a Storage backed by size zeroed bytes.
func NewStorage(size int) *Storage {
	return &Storage{buf: make([]byte, size)}
}

func (s *Storage) Erase(addr, length int32) error {
	for k := int32(0); k < length; k++ {
		if int(addr+k) >= len(s.buf) {
			break
		}
		s.buf[addr+k] = 0xFF
	}
	return nil
}

func (s *Storage) Write(addr int32, buf []byte) error {
	if int(addr)+len(buf) > len(s.buf) {
		return errOutOfRange
	}
	copy(s.buf[addr:], buf)
	return nil
}

func (s *Storage) Read(addr int32, buf []byte) error {
	if int(addr)+len(buf) > len(s.buf) {
		return errOutOfRange
	}
	copy(buf, s.buf[addr:])
	return nil
}

type storageErr string

func (e storageErr) Error() string { return string(e) }

const errOutOfRange = storageErr("hostmem: address out of range")

// GPIO is a no-op GPIO block: every read/write on pins/channels 0..63
// succeeds and simply records the last value it was given (any other
// number returns -1), which is enough for tests that only check OUTP/PWM
// don't error.
type GPIO struct {
	Pins [64]int32
	PWM  [64]int32
	ADC  [64]int32
}

func (g *GPIO) Write(pin, value int32) int32 {
	if pin < 0 || int(pin) >= len(g.Pins) {
		return -1
	}
	g.Pins[pin] = value
	return 0
}

func (g *GPIO) Read(pin int32) int32 {
	if pin < 0 || int(pin) >= len(g.Pins) {
		return -1
	}
	return g.Pins[pin]
}

func (g *GPIO) ADCRead(channel int32) int32 {
	if channel < 0 || int(channel) >= len(g.ADC) {
		return -1
	}
	return g.ADC[channel]
}

func (g *GPIO) PWMSet(pin, value int32) int32 {
	if pin < 0 || int(pin) >= len(g.PWM) {
		return -1
	}
	g.PWM[pin] = value
	return 0
}

// Reset counts how many times SystemReset was invoked; a desktop/test
// host has nothing to reboot.
type Reset struct {
	Count int
}

func (r *Reset) SystemReset() { r.Count++ }
