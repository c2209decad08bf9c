package basic

// pushFrame appends a control-stack frame, reporting ErrStackOverflow once
// the configured depth (spec §3 "Control stack") is reached. GOSUB, FOR and
// DO all share this one stack, the same way the teacher shares a single
// call/frame stack across its VM's instructions.
func (i *Interp) pushFrame(f ctrlFrame) *Error {
	if len(i.stack) >= i.cfg.StackDepth {
		return newErr(ErrStackOverflow, i.lineNumber)
	}
	i.stack = append(i.stack, f)
	return nil
}

func (i *Interp) popFrame() (ctrlFrame, bool) {
	if len(i.stack) == 0 {
		return ctrlFrame{}, false
	}
	f := i.stack[len(i.stack)-1]
	i.stack = i.stack[:len(i.stack)-1]
	return f, true
}

func (i *Interp) peekFrame() (*ctrlFrame, bool) {
	if len(i.stack) == 0 {
		return nil, false
	}
	return &i.stack[len(i.stack)-1], true
}

// popFrameOfKind pops the topmost frame only if it matches kind, used by
// RETURN/NEXT/LOOP to reject mismatched closers (spec §4.6 "unexpected
// NEXT/RETURN/LOOP" errors).
func (i *Interp) popFrameOfKind(kind frameKind) (ctrlFrame, *Error) {
	f, ok := i.peekFrame()
	if !ok || f.kind != kind {
		return ctrlFrame{}, i.unexpectedCloserErr(kind)
	}
	i.stack = i.stack[:len(i.stack)-1]
	return *f, nil
}

func (i *Interp) unexpectedCloserErr(kind frameKind) *Error {
	switch kind {
	case frameGosub:
		return newErr(ErrUnexpectedReturn, i.lineNumber)
	case frameFor:
		return newErr(ErrUnexpectedNext, i.lineNumber)
	default:
		return newErr(ErrUnexpectedLoop, i.lineNumber)
	}
}

// topIsLoop reports whether the top frame is FOR or DO -- EXIT and
// CONTINUE require exactly that (spec §4.6: "require a FOR or DO frame on
// top", not merely an enclosing one further down past intervening GOSUBs).
func (i *Interp) topIsLoop() (ctrlFrame, bool) {
	f, ok := i.peekFrame()
	if !ok || (f.kind != frameFor && f.kind != frameDo) {
		return ctrlFrame{}, false
	}
	return *f, true
}
