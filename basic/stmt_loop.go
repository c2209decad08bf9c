package basic

// stmt_loop.go covers FOR/NEXT, DO/LOOP/WHILE, and EXIT/CONTINUE (spec
// §4.6). FOR and DO/WHILE both push onto the shared control stack
// (stack.go); WHILE additionally reuses its own opcode position as the
// loop's jump-back target so a loop-back re-enters the condition check
// instead of the body directly, while plain DO's jump-back target is the
// first body opcode so LOOP re-pushes the frame to keep it infinite.

func (i *Interp) stmtFor() {
	v, ok := i.curByte()
	if !ok || v < 'A' || v > 'Z' {
		i.err = newErr(ErrSyntax, i.lineNumber)
		return
	}
	i.executionPointer++
	if b, ok := i.curByte(); !ok || b != '=' {
		i.err = newErr(ErrSyntax, i.lineNumber)
		return
	}
	i.executionPointer++

	start, err := i.evalExpr()
	if err != nil {
		i.err = err
		return
	}
	if b, ok := i.curByte(); !ok || b != KwTo {
		i.err = newErr(ErrSyntax, i.lineNumber)
		return
	}
	i.executionPointer++

	limit, err := i.evalExpr()
	if err != nil {
		i.err = err
		return
	}

	step := int32(1)
	if b, ok := i.curByte(); ok && b == KwStep {
		i.executionPointer++
		step, err = i.evalExpr()
		if err != nil {
			i.err = err
			return
		}
	}

	i.setVar(byte(v), start)
	if err := i.pushFrame(ctrlFrame{
		kind:     frameFor,
		retPtr:   i.executionPointer,
		retLine:  i.lineNumber,
		forVar:   byte(v),
		forLimit: limit,
		forStep:  step,
	}); err != nil {
		i.err = err
	}
}

func (i *Interp) stmtNext() {
	f, ok := i.peekFrame()
	if !ok || f.kind != frameFor {
		i.err = newErr(ErrUnexpectedNext, i.lineNumber)
		return
	}

	cur := i.getVar(f.forVar)
	if cur == f.forLimit {
		i.popFrame()
		return
	}

	next := i.cfg.wrap(cur + f.forStep)
	i.setVar(f.forVar, next)

	var inRange bool
	switch {
	case f.forStep > 0:
		inRange = next <= f.forLimit
	case f.forStep < 0:
		inRange = next >= f.forLimit
	default:
		inRange = true
	}

	if inRange {
		i.executionPointer = f.retPtr
		i.lineNumber = f.retLine
	} else {
		i.popFrame()
	}
}

func (i *Interp) stmtDo() {
	if err := i.pushFrame(ctrlFrame{
		kind:    frameDo,
		retPtr:  i.executionPointer,
		retLine: i.lineNumber,
		reopens: true,
	}); err != nil {
		i.err = err
	}
}

// stmtWhile handles the "WHILE expr ... LOOP" opener form. start is the
// byte position of the WHILE keyword itself, recorded before evalExpr
// consumes the condition.
func (i *Interp) stmtWhile() {
	start := i.executionPointer - 1

	cond, err := i.evalExpr()
	if err != nil {
		i.err = err
		return
	}
	if cond == 0 {
		pos, ok := i.findNextLoop()
		if !ok {
			i.err = newErr(ErrLoopNothing, i.lineNumber)
			return
		}
		i.executionPointer = pos + 1
		return
	}
	if err := i.pushFrame(ctrlFrame{
		kind:    frameDo,
		retPtr:  start,
		retLine: i.lineNumber,
		reopens: false,
	}); err != nil {
		i.err = err
	}
}

// stmtLoop handles both bare LOOP and the "LOOP WHILE expr" post-test
// form (spec §4.6 "DO/LOOP WHILE").
func (i *Interp) stmtLoop() {
	f, err := i.popFrameOfKind(frameDo)
	if err != nil {
		i.err = err
		return
	}

	if b, ok := i.curByte(); ok && b == KwWhile {
		i.executionPointer++
		cond, err2 := i.evalExpr()
		if err2 != nil {
			i.err = err2
			return
		}
		if cond == 0 {
			return
		}
		i.executionPointer = f.retPtr
		i.lineNumber = f.retLine
		if f.reopens {
			if err3 := i.pushFrame(f); err3 != nil {
				i.err = err3
			}
		}
		return
	}

	i.executionPointer = f.retPtr
	i.lineNumber = f.retLine
	if f.reopens {
		if err2 := i.pushFrame(f); err2 != nil {
			i.err = err2
		}
	}
}

func (i *Interp) stmtExit() {
	f, ok := i.topIsLoop()
	if !ok {
		i.err = newErr(ErrUnexpectedExit, i.lineNumber)
		return
	}
	i.popFrame()

	if f.kind == frameFor {
		pos, _, ok2 := i.findST(blockTarget{KwNext: true})
		if !ok2 {
			i.err = newErr(ErrLoopNothing, i.lineNumber)
			return
		}
		i.executionPointer = pos + 1
		return
	}
	pos, ok2 := i.findNextLoop()
	if !ok2 {
		i.err = newErr(ErrLoopNothing, i.lineNumber)
		return
	}
	i.executionPointer = pos + 1
}

func (i *Interp) stmtContinue() {
	f, ok := i.topIsLoop()
	if !ok {
		i.err = newErr(ErrUnexpectedContinue, i.lineNumber)
		return
	}

	if f.kind == frameDo {
		if !f.reopens {
			i.popFrame() // re-entering WHILE pushes its frame again
		}
		i.executionPointer = f.retPtr
		i.lineNumber = f.retLine
		return
	}

	pos, _, ok2 := i.findST(blockTarget{KwNext: true})
	if !ok2 {
		i.err = newErr(ErrLoopNothing, i.lineNumber)
		return
	}
	i.executionPointer = pos
}
