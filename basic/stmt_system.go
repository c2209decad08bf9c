package basic

import "time"

// stmt_system.go covers the CLI-facing statements (RUN, NEW, LIST, PROG,
// SAVE, LOAD, RESUME), the two busy-wait statements (DELAY, PAUSE), and the
// remaining pin/seed statements (RANDOMIZE, OUTP, PWM), plus INKEY and
// spinPoll, the busy-wait yield shared by every suspension point (spec §5;
// grounded on IntuitionAmiga-IntuitionEngine/terminal_host.go's
// time.Sleep-paced polling loop, generalized to this engine's single
// consolePoll primitive instead of a channel-fed key buffer).

// spinPoll yields briefly between unsuccessful console polls so a busy
// wait honors the "at least once per millisecond" break cadence (spec §5)
// without spinning the CPU at full tilt.
func spinPoll() {
	time.Sleep(time.Millisecond)
}

// mustBeReplMode reports ErrNotInRunMode for statements that only make
// sense typed at the REPL (PROG, SAVE, LOAD, NEW, RUN, RESUME all mutate or
// restart the program area, which spec §5 "Shared resources" forbids while
// a program is already running).
func (i *Interp) mustBeReplMode() bool {
	if i.lineNumber != 0 {
		i.err = newErr(ErrNotInRunMode, i.lineNumber)
		return false
	}
	return true
}

func (i *Interp) stmtRunKeyword() {
	if !i.mustBeReplMode() {
		return
	}
	i.pending = pendingRun
	i.retReq = rrStop
}

func (i *Interp) stmtNewKeyword() {
	if !i.mustBeReplMode() {
		return
	}
	i.newProgram()
	i.retReq = rrStop
}

func (i *Interp) stmtProgKeyword() {
	if !i.mustBeReplMode() {
		return
	}
	// The actual line-by-line read loop lives on the host driver side (it
	// owns the console prompt and line editing); here we only guard entry
	// and hand control back so Step can report the transition.
	i.pending = pendingProg
	i.retReq = rrStop
}

func (i *Interp) stmtSave() {
	if !i.mustBeReplMode() {
		return
	}
	form, err := i.parseSaveForm()
	if err != nil {
		i.err = err
		return
	}
	switch form {
	case saveErase:
		i.err = i.eraseHeader()
	case saveAutoRun:
		i.err = i.saveProgram(true)
	default:
		i.err = i.saveProgram(false)
	}
	i.retReq = rrStop
}

func (i *Interp) stmtLoad() {
	if !i.mustBeReplMode() {
		return
	}
	if err := i.loadProgram(); err != nil {
		i.err = err
	}
	i.retReq = rrStop
}

func (i *Interp) stmtResumeKeyword() {
	if !i.mustBeReplMode() {
		return
	}
	i.pending = pendingResume
	i.retReq = rrStop
}

type saveForm int

const (
	saveNormal saveForm = iota
	saveErase
	saveAutoRun
)

// parseSaveForm parses SAVE's bare, "0", or "!" forms: bare SAVE writes the
// header as-is, "SAVE 0" erases it, "SAVE !" sets the auto-run byte (spec
// §4.9).
func (i *Interp) parseSaveForm() (saveForm, *Error) {
	b, ok := i.curByte()
	if !ok || b == OpEOL {
		return saveNormal, nil
	}
	if b == '!' {
		i.executionPointer++
		return saveAutoRun, nil
	}
	v, err := i.evalExpr()
	if err != nil {
		return saveNormal, err
	}
	if v == 0 {
		return saveErase, nil
	}
	return saveNormal, nil
}

func (i *Interp) stmtDelay() {
	ms, err := i.evalExpr()
	if err != nil {
		i.err = err
		return
	}
	if ms <= 0 {
		return
	}
	target := i.host.Clock.TickMillis() + uint32(ms)
	for i.host.Clock.TickMillis() < target {
		if _, _, e := i.consolePoll(); e != nil {
			i.err = e
			return
		}
		spinPoll()
	}
}

// stmtPause busy-waits for and discards a single character (spec §5: "PAUSE
// ... busy-poll a character").
func (i *Interp) stmtPause() {
	for {
		_, ok, e := i.consolePoll()
		if e != nil {
			i.err = e
			return
		}
		if ok {
			return
		}
		spinPoll()
	}
}

func (i *Interp) stmtRandomize() {
	seed, err := i.evalExpr()
	if err != nil {
		i.err = err
		return
	}
	i.randomizeSeed = seed
	i.host.RNG.Seed(seed)
}

func (i *Interp) stmtOutp() {
	pin, err := i.evalExpr()
	if err != nil {
		i.err = err
		return
	}
	if b, ok := i.curByte(); !ok || b != ',' {
		i.err = newErr(ErrSyntax, i.lineNumber)
		return
	}
	i.executionPointer++
	value, err2 := i.evalExpr()
	if err2 != nil {
		i.err = err2
		return
	}
	if i.host.GPIO.Write(pin, value) < 0 {
		i.err = newErr(ErrParameter, i.lineNumber)
	}
}

func (i *Interp) stmtPwm() {
	pin, err := i.evalExpr()
	if err != nil {
		i.err = err
		return
	}
	if b, ok := i.curByte(); !ok || b != ',' {
		i.err = newErr(ErrSyntax, i.lineNumber)
		return
	}
	i.executionPointer++
	value, err2 := i.evalExpr()
	if err2 != nil {
		i.err = err2
		return
	}
	if i.host.GPIO.PWMSet(pin, value) < 0 {
		i.err = newErr(ErrParameter, i.lineNumber)
	}
}

// inkey implements INKEY(n): n == 0 busy-waits for a character (a
// suspension point, spec §5); n != 0 is a single non-blocking poll that
// returns -1 when nothing is ready.
func (i *Interp) inkey(arg int32) (int32, *Error) {
	if arg != 0 {
		b, ok, err := i.consolePoll()
		if err != nil {
			return 0, err
		}
		if !ok {
			return -1, nil
		}
		return int32(b), nil
	}
	for {
		b, ok, err := i.consolePoll()
		if err != nil {
			return 0, err
		}
		if ok {
			return int32(b), nil
		}
		spinPoll()
	}
}
