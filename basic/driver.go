package basic

import "time"

// driver.go is the host-facing entry point: Init once, then Step
// repeatedly (spec §2 "Control flow"). Apart from spinPoll's one-millisecond
// sleep between console polls (stmt_system.go), this is the only place in
// package basic that uses wall-clock time, mirroring the way the teacher's
// own debug-mode loop (KTStephano-GVM/main.go's RunProgramDebugMode,
// ported into vm/run.go) is a small explicit state machine reading one
// instruction/line at a time rather than a sleep-then-poll hack.

// PendingAction tells the host driver what to do after a Step call
// returns, for statements a single-threaded interpreter can't act on by
// itself: RUN and RESUME hand control to Run/Resume, and PROG hands
// control to a line-by-line read loop the driver owns (spec §4.6 "RUN /
// NEW / LIST / PROG / SAVE / LOAD / RESUME / STOP / END / RESET").
type PendingAction int

const (
	ActionNone PendingAction = iota
	ActionRun
	ActionProg
	ActionResume
)

// Init loads the persisted program only if its auto-run flag is set, then
// waits autoRunWait for a break byte before running it (spec §6.3
// "Auto-run wait on boot: 3 seconds, cancellable by break"). A program
// saved without the flag is not loaded. A load failure (no valid header)
// or a cancelled wait is not an error: the host just falls through to the
// REPL.
func (i *Interp) Init(autoRunWait time.Duration) *Error {
	if !i.autoRunFlag() {
		return nil
	}
	if err := i.loadProgram(); err != nil {
		return nil
	}

	deadline := i.host.Clock.TickMillis() + uint32(autoRunWait.Milliseconds())
	for i.host.Clock.TickMillis() < deadline {
		b, ok := i.host.Console.GetChar()
		if ok && b == 0x03 {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return i.Run()
}

// Step tokenizes and executes one REPL-mode raw line. A meta-comment
// (spec §4.1) tokenizes to nothing and a blank line to a lone EOL; both
// are silent no-ops. The returned action tells the driver what to do next; err
// is the error to print, if any (spec §6.5).
func (i *Interp) Step(rawLine []byte) (PendingAction, *Error) {
	out := make([]byte, i.cfg.MaxLineLen+1)
	n, terr := i.cfg.Tokenize(rawLine, out)
	if terr != nil {
		return ActionNone, terr
	}
	if n == 0 {
		return ActionNone, nil
	}

	i.pending = pendingNone
	if err := i.ExecImmediate(out[:n]); err != nil {
		return ActionNone, err
	}

	switch i.pending {
	case pendingRun:
		i.pending = pendingNone
		return ActionRun, i.Run()
	case pendingProg:
		i.pending = pendingNone
		return ActionProg, nil
	case pendingResume:
		i.pending = pendingNone
		return ActionResume, i.Resume()
	default:
		return ActionNone, nil
	}
}

// AppendProgLine tokenizes and stores one line typed at the PROG prompt.
// done reports that rawLine starts (after blanks) with the "#" terminator and PROG mode
// should end; a non-nil err means the line was rejected (it was printed
// and the prompt should reappear, per spec §4.2) but PROG mode continues.
func (i *Interp) AppendProgLine(rawLine []byte) (done bool, err *Error) {
	trimmed := rawLine
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\t') {
		trimmed = trimmed[1:]
	}
	if len(trimmed) > 0 && trimmed[0] == '#' {
		return true, nil
	}

	out := make([]byte, i.cfg.MaxLineLen+1)
	n, terr := i.cfg.Tokenize(rawLine, out)
	if terr != nil {
		return false, terr
	}
	if n == 0 {
		return false, nil
	}
	return false, i.appendLine(out[:n])
}
