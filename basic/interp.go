package basic

import "github.com/nanobasic/nanobasic/host"

// returnRequest mirrors the teacher's executor return-signal field
// (KTStephano-GVM/vm/exec.go's switch on instr.code feeding back into a
// run loop), generalized into an explicit enum instead of sentinel errors.
type returnRequest int

const (
	rrNone returnRequest = iota
	rrGoto
	rrEnd
	// rrStop unwinds the dispatch loop without touching the control stack
	// or resume snapshot -- STOP and the REPL-only statements (RUN, NEW,
	// PROG, SAVE, LOAD, RESUME) all just need to return control to their
	// caller, not tear down runtime state the way END does (spec §3
	// Lifecycle names only END and NEW for that).
	rrStop
)

// ctrlFrame is one entry on the shared GOSUB/FOR/DO control stack (spec §3
// "Control stack").
type ctrlFrame struct {
	kind    frameKind
	retPtr  int
	retLine int

	// FOR-only fields.
	forVar   byte // 'A'..'Z'
	forLimit int32
	forStep  int32

	// DO-only: whether LOOP must re-push this frame when jumping back
	// (true for plain DO, false for a WHILE-opened loop, where jumping
	// back re-enters the WHILE statement itself and it re-pushes).
	reopens bool
}

type frameKind int

const (
	frameGosub frameKind = iota
	frameFor
	frameDo
)

// resumeSnapshot is captured only when a break interrupts Run mode (spec §3).
type resumeSnapshot struct {
	valid bool
	ptr   int
	line  int
}

// Interp is the BASIC engine: tokenizer output consumer, program store
// owner, and statement/expression executor. It holds no reference to any
// terminal, clock, or flash chip directly -- those are host.Host.
type Interp struct {
	cfg  Config
	host host.Host

	vars  [26]int32
	array []int32

	prog    []byte // fixed-capacity program area, spec §4.2
	progLen int    // bytes currently used, including the trailing EOL-length terminator byte

	replBuf    []byte // scratch buffer for one REPL (lineNumber==0) line
	replBufLen int

	executionPointer int
	lineNumber       int // 0 == REPL mode, spec glossary

	stack []ctrlFrame

	dataPtr    int
	hasDataPtr bool

	resume resumeSnapshot

	err           *Error
	retReq        returnRequest
	gotoPtr       int
	gotoLine      int
	exprDepth     int
	randomizeSeed int32

	// pending is set by RUN/PROG/RESUME's statement handlers (which cannot
	// themselves own the REPL prompt or console line-reading loop) and
	// consumed by Step, the host-facing driver entry point in driver.go.
	pending pendingAction
}

// pendingAction is the action a REPL-mode statement handler asks the host
// driver to carry out once loop() unwinds back to Step (spec §2 "host calls
// step repeatedly").
type pendingAction int

const (
	pendingNone pendingAction = iota
	pendingRun
	pendingProg
	pendingResume
)

// New builds an interpreter around the given host collaborators and
// configuration. The program area and variables start zeroed (spec §3
// Lifecycle).
func New(cfg Config, h host.Host) *Interp {
	i := &Interp{
		cfg:     cfg,
		host:    h,
		array:   make([]int32, cfg.ArrayLen),
		prog:    make([]byte, cfg.ProgramAreaSize),
		replBuf: make([]byte, cfg.MaxLineLen+2),
		stack:   make([]ctrlFrame, 0, cfg.StackDepth),
	}
	i.progReset()
	return i
}

// progReset writes the single zero-length terminator byte marking an empty
// program area (spec §4.2 "NEW writes that single byte at the top").
func (i *Interp) progReset() {
	i.prog[0] = 0
	i.progLen = 1
}

// resetRuntimeState zeroes variables, the array, the control stack and the
// resume snapshot -- the state spec §3 Lifecycle says RUN and NEW clear.
func (i *Interp) resetRuntimeState() {
	for k := range i.vars {
		i.vars[k] = 0
	}
	for k := range i.array {
		i.array[k] = 0
	}
	i.stack = i.stack[:0]
	i.resume = resumeSnapshot{}
	i.dataPtr = 0
	i.hasDataPtr = false
}

// newProgram wipes the program area and all runtime state (spec §3 Lifecycle).
func (i *Interp) newProgram() {
	i.progReset()
	i.resetRuntimeState()
}

func varIndex(b byte) int { return int(b - 'A') }

func (i *Interp) getVar(name byte) int32 { return i.vars[varIndex(name)] }

func (i *Interp) setVar(name byte, v int32) { i.vars[varIndex(name)] = i.cfg.wrap(v) }

func (i *Interp) getArray(idx int32) (int32, *Error) {
	if idx < 0 || int(idx) >= len(i.array) {
		return 0, newErr(ErrArrayIndexOver, i.lineNumber)
	}
	return i.array[idx], nil
}

func (i *Interp) setArray(idx int32, v int32) *Error {
	if idx < 0 || int(idx) >= len(i.array) {
		return newErr(ErrArrayIndexOver, i.lineNumber)
	}
	i.array[idx] = i.cfg.wrap(v)
	return nil
}

// cur returns the byte slice execution is currently scanning, truncated to
// its logical length: the program area in Run mode, the scratch buffer in
// REPL mode. Both share the identical length-prefixed line format.
func (i *Interp) cur() []byte {
	if i.lineNumber == 0 {
		return i.replBuf[:i.replBufLen]
	}
	return i.prog[:i.progLen]
}

// loadReplLine wraps tokens (opcodes only, ending in OpEOL) in the same
// length-prefix framing the program area uses, and points the executor at
// it for a single-line REPL dispatch (lineNumber stays 0).
func (i *Interp) loadReplLine(tokens []byte) *Error {
	if len(tokens)+1 > len(i.replBuf) {
		return newErr(ErrProgAreaOverflow, 0)
	}
	i.replBuf[0] = byte(len(tokens))
	copy(i.replBuf[1:], tokens)
	i.replBufLen = 1 + len(tokens)
	i.lineNumber = 0
	i.executionPointer = 0
	return nil
}
