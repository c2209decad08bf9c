// Package hostserial bridges host.Host's Console/GPIO/Storage calls over
// a goserial-opened serial port to a microcontroller running the
// companion firmware, so cmd/nanobasic-bridge can drive real hardware
// instead of a local terminal. Framing is a one-byte command tag plus a
// fixed small payload, read back with a synchronous one-byte-at-a-time
// reply -- deliberately the simplest protocol that fits a 9600-115200
// baud link, not a general RPC scheme.
package hostserial

import (
	"encoding/binary"
	"sync"
	"time"

	serial "github.com/daedaluz/goserial"
	"github.com/nanobasic/nanobasic/host"
)

// Command tags, one per host.Host call the firmware services.
const (
	cmdPutChar byte = 'P'
	cmdGetChar byte = 'C'
	cmdTick    byte = 'T'
	cmdSeed    byte = 'R'
	cmdRandN   byte = 'n'
	cmdGPIOW   byte = 'W'
	cmdGPIOR   byte = 'r'
	cmdADC     byte = 'A'
	cmdPWM     byte = 'M'
	cmdErase   byte = 'E'
	cmdStoreW  byte = 'S'
	cmdStoreR  byte = 'L'
	cmdReset   byte = 'X'
)

// link serializes every command issued across the port: the firmware
// expects one outstanding request at a time, and nothing here pipelines.
type link struct {
	mu   sync.Mutex
	port *serial.Port
}

// Open opens name (e.g. "/dev/ttyUSB0") with a fixed 200ms read timeout
// and returns a host-shaped bundle of collaborators, all sharing the one
// serial link.
func Open(name string) (*Bridge, error) {
	opts := serial.NewOptions().SetReadTimeout(200 * time.Millisecond)
	p, err := serial.Open(name, opts)
	if err != nil {
		return nil, err
	}
	return &Bridge{link: &link{port: p}}, nil
}

// Bridge groups the Console/GPIO/Storage/Reset implementations so
// callers can pass one value into host.Host's fields.
type Bridge struct {
	*link
}

func (b *Bridge) Close() error {
	return b.port.Close()
}

// Host bundles every collaborator this bridge implements into a
// host.Host, ready to pass to basic.New.
func (b *Bridge) Host() host.Host {
	return host.Host{
		Console: Console{b},
		Clock:   Clock{b},
		RNG:     RNG{b},
		GPIO:    GPIO{b},
		Storage: Storage{b},
		Reset:   Reset{b},
	}
}

// send writes tag followed by payload and reads back n reply bytes.
func (l *link) send(tag byte, payload []byte, n int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	frame := append([]byte{tag}, payload...)
	if _, err := l.port.Write(frame); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	reply := make([]byte, n)
	got := 0
	for got < n {
		k, err := l.port.Read(reply[got:])
		if err != nil {
			return nil, err
		}
		if k == 0 {
			break
		}
		got += k
	}
	return reply[:got], nil
}

// Console drives host.Console over the link: PutChar sends a byte and
// waits for a one-byte acknowledgement, GetChar polls for one with no blocking (a read timeout of 0
// replies with a single "nothing ready" status byte rather than
// stalling the interpreter's busy-wait loops).
type Console struct{ *Bridge }

func (c Console) PutChar(b byte) {
	c.send(cmdPutChar, []byte{b}, 1)
}

func (c Console) GetChar() (byte, bool) {
	reply, err := c.send(cmdGetChar, nil, 2)
	if err != nil || len(reply) < 2 || reply[0] == 0 {
		return 0, false
	}
	return reply[1], true
}

// Clock reads the firmware's own millisecond tick rather than the
// bridge host's, so DELAY timing matches what TICK would read if the
// program ran on-device.
type Clock struct{ *Bridge }

func (c Clock) TickMillis() uint32 {
	reply, err := c.send(cmdTick, nil, 4)
	if err != nil || len(reply) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(reply)
}

// RNG delegates RANDOMIZE and RND to the firmware's own PRNG so a
// program behaves identically whether bridged or running natively.
type RNG struct{ *Bridge }

func (r RNG) Seed(seed int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(seed))
	r.send(cmdSeed, buf[:], 0)
}

func (r RNG) Intn(n int32) int32 {
	if n <= 0 {
		return 0
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	reply, err := r.send(cmdRandN, buf[:], 4)
	if err != nil || len(reply) < 4 {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(reply) % uint32(n))
}

// GPIO forwards pin/ADC/PWM calls; -1 covers both a parameter error the
// firmware reports and a link failure, matching the host.GPIO contract.
type GPIO struct{ *Bridge }

func (g GPIO) Write(pin, value int32) int32  { return g.call3(cmdGPIOW, pin, value) }
func (g GPIO) PWMSet(pin, value int32) int32 { return g.call3(cmdPWM, pin, value) }

func (g GPIO) Read(pin int32) int32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(pin))
	reply, err := g.send(cmdGPIOR, buf[:], 4)
	if err != nil || len(reply) < 4 {
		return -1
	}
	return int32(binary.LittleEndian.Uint32(reply))
}

func (g GPIO) ADCRead(channel int32) int32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(channel))
	reply, err := g.send(cmdADC, buf[:], 4)
	if err != nil || len(reply) < 4 {
		return -1
	}
	return int32(binary.LittleEndian.Uint32(reply))
}

func (g GPIO) call3(tag byte, a, b int32) int32 {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(a))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(b))
	reply, err := g.send(tag, buf[:], 1)
	if err != nil || len(reply) < 1 || reply[0] == 0 {
		return -1
	}
	return 0
}

// Storage mirrors host.Storage's addr/length framing over the link; the
// firmware owns the actual flash block and bounds-checks addr itself.
type Storage struct{ *Bridge }

func (s Storage) Erase(addr, length int32) error {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(addr))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(length))
	_, err := s.send(cmdErase, buf[:], 1)
	return err
}

func (s Storage) Write(addr int32, data []byte) error {
	hdr := make([]byte, 8+len(data))
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(addr))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(data)))
	copy(hdr[8:], data)
	_, err := s.send(cmdStoreW, hdr, 1)
	return err
}

func (s Storage) Read(addr int32, buf []byte) error {
	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(addr))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(buf)))
	reply, err := s.send(cmdStoreR, hdr, len(buf))
	if err != nil {
		return err
	}
	copy(buf, reply)
	return nil
}

// Reset asks the microcontroller to reboot; it never waits for a reply
// since the firmware cannot send one once it resets.
type Reset struct{ *Bridge }

func (r Reset) SystemReset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.port.Write([]byte{cmdReset})
}
