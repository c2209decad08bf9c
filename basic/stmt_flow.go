package basic

// stmt_flow.go covers GOTO/GOSUB/RETURN and the IF/ELSEIF/ELSE/ENDIF
// ladder (spec §4.6).

// performGoto looks up target and arms a GOTO return-request; the
// dispatch loop carries it out once the current handler returns.
func (i *Interp) performGoto(target int32) *Error {
	bodyOff, _, ok := i.findLabelTarget(target)
	if !ok {
		return newErr(ErrLabelNotFound, i.lineNumber)
	}
	i.gotoPtr = bodyOff
	i.gotoLine = i.lineNumberContaining(bodyOff)
	i.retReq = rrGoto
	return nil
}

func (i *Interp) stmtGoto() {
	target, err := i.evalExpr()
	if err != nil {
		i.err = err
		return
	}
	if err := i.performGoto(target); err != nil {
		i.err = err
	}
}

func (i *Interp) stmtGosub() {
	target, err := i.evalExpr()
	if err != nil {
		i.err = err
		return
	}
	frame := ctrlFrame{kind: frameGosub, retPtr: i.executionPointer, retLine: i.lineNumber}
	if err := i.performGoto(target); err != nil {
		i.err = err
		return
	}
	if err := i.pushFrame(frame); err != nil {
		i.err = err
	}
}

func (i *Interp) stmtReturn() {
	f, err := i.popFrameOfKind(frameGosub)
	if err != nil {
		i.err = err
		return
	}
	i.executionPointer = f.retPtr
	i.lineNumber = f.retLine
}

// takeImplicitGotoOrFallthrough implements "if true and the following
// opcode is a value, treat it as GOTO; else execute the remainder of the
// line" for both IF's THEN branch and ELSE's body (spec §4.6).
func (i *Interp) takeImplicitGotoOrFallthrough() {
	buf := i.cur()
	if b, ok := i.curByte(); ok && (isLiteralDigit(b) || isValueTag(b)) {
		v, _, _ := decodeValueLiteral(buf[i.executionPointer:])
		if err := i.performGoto(v); err != nil {
			i.err = err
		}
	}
}

// ifBranch evaluates one IF/ELSEIF condition and its THEN clause,
// recursing into the next ELSEIF when the condition is false.
func (i *Interp) ifBranch() {
	cond, err := i.evalExpr()
	if err != nil {
		i.err = err
		return
	}
	if b, ok := i.curByte(); !ok || b != KwThen {
		i.err = newErr(ErrSyntax, i.lineNumber)
		return
	}
	i.executionPointer++

	if cond != 0 {
		i.takeImplicitGotoOrFallthrough()
		return
	}

	pos, found, ok := i.findST(blockTarget{KwEndif: true, KwElse: true, KwElseif: true})
	if !ok {
		i.err = newErr(ErrEndifNotFound, i.lineNumber)
		return
	}
	i.executionPointer = pos + 1
	switch found {
	case KwEndif:
		// no-op: nothing in this chain matched; fall through.
	case KwElse:
		i.takeImplicitGotoOrFallthrough()
	case KwElseif:
		i.ifBranch()
	}
}

func (i *Interp) stmtIf() { i.ifBranch() }

// stmtElseReached and stmtElseifReached fire when execution, having taken
// an earlier branch of the same IF chain, falls through into a later
// ELSE/ELSEIF: skip the remainder of the chain to its ENDIF.
func (i *Interp) stmtElseReached() { i.skipToChainEnd() }

func (i *Interp) stmtElseifReached() { i.skipToChainEnd() }

func (i *Interp) skipToChainEnd() {
	pos, _, ok := i.findST(blockTarget{KwEndif: true})
	if !ok {
		i.err = newErr(ErrEndifNotFound, i.lineNumber)
		return
	}
	i.executionPointer = pos + 1
}
