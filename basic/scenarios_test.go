package basic

import (
	"testing"

	"github.com/nanobasic/nanobasic/host"
	"github.com/nanobasic/nanobasic/host/hostmem"
)

// scenarios_test.go replays the end-to-end REPL scenarios from spec.md
// §8 against the engine directly, applying the same Step/AppendProgLine/
// "OK\r\n" protocol cmd/nanobasic drives (see basic/driver.go) so the
// assertions exercise exactly what a terminal session would print.
// Grounded on the table-of-scenarios style of KTStephano-GVM/vm_test.go's
// TestVM, generalized from one compile-and-run call per case to a short
// line sequence per case.

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// session bundles an interpreter with its in-memory console, replaying
// the host driver's line-by-line protocol for tests.
type session struct {
	t       *testing.T
	interp  *Interp
	console *hostmem.Console
}

func newSession(t *testing.T) *session {
	console := hostmem.NewConsole(nil)
	h := host.Host{
		Console: console,
		Clock:   &hostmem.Clock{},
		RNG:     hostmem.NewRNG(1),
		GPIO:    &hostmem.GPIO{},
		Storage: hostmem.NewStorage(DefaultConfig().ProgramAreaSize + 8),
		Reset:   &hostmem.Reset{},
	}
	return &session{t: t, interp: New(DefaultConfig(), h), console: console}
}

// line steps one REPL line through the same success/error/OK protocol
// cmd/nanobasic's replLoop implements.
func (s *session) line(raw string) {
	s.t.Helper()
	action, err := s.interp.Step([]byte(raw))
	assert(s.t, action != ActionProg, "line %q unexpectedly entered PROG mode", raw)
	s.finish(err)
}

func (s *session) finish(err *Error) {
	if err != nil {
		s.console.Out = append(s.console.Out, []byte(err.ExitMessage()+"\r\n")...)
		return
	}
	s.console.Out = append(s.console.Out, []byte("OK\r\n")...)
}

// prog enters PROG mode, stores lines verbatim, then closes it with the
// "#" terminator (spec §4.2).
func (s *session) prog(lines ...string) {
	s.t.Helper()
	action, err := s.interp.Step([]byte("PROG"))
	assert(s.t, err == nil && action == ActionProg, "PROG failed: err=%v action=%v", err, action)
	for _, l := range lines {
		done, perr := s.interp.AppendProgLine([]byte(l))
		assert(s.t, perr == nil, "program line %q rejected: %v", l, perr)
		assert(s.t, !done, "unexpected PROG terminator before %q", l)
	}
	done, perr := s.interp.AppendProgLine([]byte("#"))
	assert(s.t, perr == nil && done, "PROG terminator: err=%v done=%v", perr, done)
}

func (s *session) out() string { return string(s.console.Out) }

func TestScenarioS1Arithmetic(t *testing.T) {
	s := newSession(t)
	s.line("? 120+3")
	assert(t, s.out() == "123\r\nOK\r\n", "got %q", s.out())
}

func TestScenarioS2ForLoop(t *testing.T) {
	s := newSession(t)
	s.line("A=2:FOR I=1 TO 3:? I*A:NEXT")
	assert(t, s.out() == "2\r\n4\r\n6\r\nOK\r\n", "got %q", s.out())
}

func TestScenarioS3DoExitStoredProgram(t *testing.T) {
	s := newSession(t)
	s.prog("A=0", "DO:A++:IF A=3 THEN EXIT ENDIF:LOOP", "? A")
	s.line("RUN")
	assert(t, s.out() == "3\r\nOK\r\n", "got %q", s.out())
}

func TestScenarioS4HexFormatting(t *testing.T) {
	s := newSession(t)
	s.line(`? HEX(-1,4) "," HEX(-1,-4)`)
	assert(t, s.out() == "FFFF,FFFF\r\nOK\r\n", "got %q", s.out())
}

func TestScenarioS5DataRead(t *testing.T) {
	s := newSession(t)
	s.prog("DATA 10,20,30", "READ A:READ B:READ C", "? A+B+C")
	s.line("RUN")
	assert(t, s.out() == "60\r\nOK\r\n", "got %q", s.out())
}

func TestScenarioS6DecWidthFormatting(t *testing.T) {
	s := newSession(t)
	s.line("? DEC(1234,205)")
	assert(t, s.out() == "  12.34\r\nOK\r\n", "got %q", s.out())
}

// TestScenarioS7BreakResume exercises the break/resume property from
// spec.md's S7 with a counting variable in place of TICK, so the
// printed values are deterministic: pollBreakDiscard (exec.go) consumes
// one console byte per statement dispatch, so queuing filler bytes
// ahead of the break byte lets the test choose exactly how many
// statements run before the break fires.
func TestScenarioS7BreakResume(t *testing.T) {
	s := newSession(t)
	s.prog("A=0", "DO:A++:?A:LOOP")

	// A generous run of filler bytes (each harmlessly discarded by
	// pollBreakDiscard, spec §4.4) lets several loop iterations print
	// before the trailing 0x03 raises Break; the exact iteration count
	// isn't the property under test, only that output happened and a
	// resumable snapshot was captured.
	filler := make([]byte, 40)
	s.console.Feed(append(filler, 0x03)...)
	action, err := s.interp.Step([]byte("RUN"))
	assert(t, action == ActionRun, "expected ActionRun, got %v", action)
	assert(t, err != nil && err.Code == ErrBreak, "expected Break, got %v", err)
	s.finish(err)
	firstOut := len(s.console.Out)
	assert(t, firstOut > 0, "expected output before break")
	assert(t, s.interp.resume.valid, "break did not capture a resume snapshot")

	aAtBreak := s.interp.getVar('A')

	s.console.Feed(append(filler, 0x03)...)
	s.line("RESUME")
	assert(t, len(s.console.Out) > firstOut, "RESUME produced no further output")
	assert(t, s.interp.getVar('A') > aAtBreak, "A did not advance across RESUME: %d -> %d", aAtBreak, s.interp.getVar('A'))

	before := s.interp.getVar('A')
	s.line("? A")
	assert(t, s.interp.getVar('A') == before, "REPL line mutated A unexpectedly")
}
