package basic

// stmt_data.go implements READ. DATA is a runtime no-op handled inline by
// the dispatch loop (it just skips its own payload to EOL); RESTORE is
// i.restoreData in data.go. See spec §4.6, §4.8.

func (i *Interp) stmtRead() {
	b, ok := i.curByte()
	if !ok {
		i.err = newErr(ErrSyntax, i.lineNumber)
		return
	}

	switch {
	case b == OpArray:
		if nb, ok := i.curByteAt(1); !ok || nb != '[' {
			i.err = newErr(ErrSyntax, i.lineNumber)
			return
		}
		i.executionPointer += 2
		idx, err := i.evalSub()
		if err != nil {
			i.err = err
			return
		}
		if cb, ok := i.curByte(); !ok || cb != ']' {
			i.err = newErr(ErrSyntax, i.lineNumber)
			return
		}
		i.executionPointer++

		v, err := i.readNext()
		if err != nil {
			i.err = err
			return
		}
		if err := i.setArray(idx, v); err != nil {
			i.err = err
		}

	case b >= 'A' && b <= 'Z':
		i.executionPointer++
		v, err := i.readNext()
		if err != nil {
			i.err = err
			return
		}
		i.setVar(byte(b), v)

	default:
		i.err = newErr(ErrSyntax, i.lineNumber)
	}
}
