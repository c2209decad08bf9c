package basic

import (
	"strconv"
	"testing"
)

// property_test.go checks the invariants spec.md §8 calls out as
// property-checked rather than scenario-driven: tokenizer round-trip,
// value-literal compactness, control stack balance, break idempotence,
// division by zero, and array bounds.

func TestValueLiteralCompactness(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		v       int64
		hex     bool
		maxSize int // total encoded bytes (tag + payload), 1 for the bare-digit form
	}{
		{0, false, 1},
		{9, false, 1},
		{10, false, 2},  // needs a 1-byte payload tag
		{127, false, 2}, // still fits in 1 byte
		{200, false, 3}, // needs 2-byte payload
		{70000, false, 4},
		{-1, false, 2},
		{0, true, 2}, // hex literals never use the bare-digit form
	}
	for _, c := range cases {
		buf := cfg.encodeValueLiteral(nil, c.v, c.hex)
		if len(buf) > c.maxSize {
			t.Errorf("encodeValueLiteral(%d, hex=%v) used %d bytes, want <= %d", c.v, c.hex, len(buf), c.maxSize)
		}
		v, consumed, isHex := decodeValueLiteral(buf)
		if consumed != len(buf) {
			t.Errorf("decodeValueLiteral consumed %d, encoded %d bytes", consumed, len(buf))
		}
		if int64(v) != c.v {
			t.Errorf("round-trip mismatch: encoded %d, decoded %d", c.v, v)
		}
		if isHex != c.hex {
			t.Errorf("round-trip hex flag mismatch for %d: got %v want %v", c.v, isHex, c.hex)
		}
	}
}

func TestTokenizeListRoundTrip(t *testing.T) {
	s := newSession(t)
	const line = `A=120+3:?A,"hi"`
	s.prog(line)

	out := make([]byte, DefaultConfig().MaxLineLen+1)
	n, terr := DefaultConfig().Tokenize([]byte(line), out)
	assert(t, terr == nil, "tokenize failed: %v", terr)
	original := append([]byte(nil), out[:n]...)

	s.interp.stmtList()
	listed := s.out()
	assert(t, len(listed) > 0, "LIST produced no output")

	// Strip the trailing "\r\n" LIST appends and retokenize the listed
	// text; it must reproduce the identical bytecode (spec §8 property 1).
	text := listed[:len(listed)-2]
	n2, terr2 := DefaultConfig().Tokenize([]byte(text), out)
	assert(t, terr2 == nil, "retokenize failed: %v", terr2)
	roundTripped := out[:n2]

	assert(t, string(original) == string(roundTripped),
		"round-trip mismatch: original %v, got %v (listed %q)", original, roundTripped, text)
}

func TestControlStackBalanceAfterRun(t *testing.T) {
	s := newSession(t)
	s.prog("FOR I=1 TO 3", "GOSUB 100", "NEXT", "GOTO 200", "100 FOR J=1 TO 2:NEXT:RETURN", "200 ? I")
	s.line("RUN")
	assert(t, s.interp.err == nil, "unexpected error: %v", s.interp.err)
	assert(t, len(s.interp.stack) == 0, "control stack not balanced: depth %d", len(s.interp.stack))
}

func TestBreakIdempotence(t *testing.T) {
	s := newSession(t)
	s.prog("DO:A++:LOOP")

	// One filler byte for the REPL line "RUN" itself (its dispatch polls
	// once too), then two break bytes back to back: the stored Run sees
	// exactly one Break, not two, since pollBreakDiscard only ever
	// consumes and acts on the single byte in front of it per dispatch.
	s.console.Feed(0x00, 0x03, 0x03)
	_, err := s.interp.Step([]byte("RUN"))
	assert(t, err != nil && err.Code == ErrBreak, "expected Break, got %v", err)
	assert(t, s.interp.resume.valid, "first break did not capture a snapshot")

	err = s.interp.Resume()
	assert(t, err != nil && err.Code == ErrBreak, "expected a fresh Break on resume, got %v", err)
	assert(t, s.interp.resume.valid, "resumed break did not capture its own snapshot")
}

func TestDivisionByZero(t *testing.T) {
	for _, line := range []string{"?1/0", "?1%0"} {
		s := newSession(t)
		_, err := s.interp.Step([]byte(line))
		assert(t, err != nil && err.Code == ErrDivisionByZero, "%q: expected Division by 0, got %v", line, err)
	}
}

func TestArrayBounds(t *testing.T) {
	overLine := "@[" + strconv.Itoa(DefaultConfig().ArrayLen) + "]=0"
	for _, line := range []string{"@[-1]=0", overLine} {
		s := newSession(t)
		_, err := s.interp.Step([]byte(line))
		assert(t, err != nil && err.Code == ErrArrayIndexOver, "%q: expected Array index over, got %v", line, err)
	}
}
