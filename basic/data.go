package basic

// data.go implements the DATA/READ cursor (spec §3, §4.8): a single byte
// pointer into the program area, lazily positioned at the first DATA value
// the first time READ runs and afterwards left just past the last value
// read (on a comma or EOL), from where the next READ seeks forward. RESTORE just drops the pointer back to "unset", so
// the next READ re-scans from the top of the program.

// restoreData resets the cursor so the next READ starts over from the
// program's first DATA statement.
func (i *Interp) restoreData() {
	i.hasDataPtr = false
	i.dataPtr = 0
}

// readNext returns the next DATA value and advances the cursor past it.
func (i *Interp) readNext() (int32, *Error) {
	if !i.hasDataPtr {
		pos, ok := i.firstDataToken()
		if !ok {
			return 0, newErr(ErrUnexpectedRead, i.lineNumber)
		}
		i.dataPtr = pos
		i.hasDataPtr = true
	}

	pos, ok := i.seekDataToken(i.dataPtr)
	if !ok {
		return 0, newErr(ErrUnexpectedRead, i.lineNumber)
	}

	val, consumed, _ := decodeValueLiteral(i.prog[pos:])
	i.dataPtr = pos + consumed
	return val, nil
}

// firstDataToken finds the first value-literal token of the first DATA
// statement in program order, skipping any leading line-number label.
func (i *Interp) firstDataToken() (int, bool) {
	return i.nextDataLineFrom(0)
}

// seekDataToken starts at pos (a position left over from a previous read,
// possibly mid-DATA-list or right at a line boundary) and returns the
// position of the next value-literal token, crossing into subsequent DATA
// statements and skipping commas as needed.
func (i *Interp) seekDataToken(pos int) (int, bool) {
	for pos < i.progLen {
		b := i.prog[pos]
		switch {
		case b == ',':
			pos++
		case b == byte(OpEOL):
			return i.nextDataLineFrom(pos + 1)
		case isLiteralDigit(Op(b)) || isValueTag(Op(b)):
			return pos, true
		default:
			// Any other byte ends the DATA list early (e.g. a trailing
			// comment marker); treat it like end-of-line.
			return i.nextDataLineFrom(i.skipToNextLine(pos))
		}
	}
	return 0, false
}

// nextDataLineFrom scans forward starting at the length byte of a line
// (lineStart) for the next line that is a DATA statement, returning the
// position of its first value token (or false if none remain).
func (i *Interp) nextDataLineFrom(lineStart int) (int, bool) {
	for lineStart < i.progLen {
		length := int(i.prog[lineStart])
		if length == 0 {
			break // top-of-program terminator, spec §4.2
		}
		p := lineStart + 1
		// Skip an optional leading label (line-number) token.
		if p < i.progLen && (isLiteralDigit(Op(i.prog[p])) || isValueTag(Op(i.prog[p]))) {
			_, consumed, _ := decodeValueLiteral(i.prog[p:])
			p += consumed
		}
		if p < i.progLen && Op(i.prog[p]) == KwData {
			tok, ok := i.seekDataToken(p + 1)
			if ok {
				return tok, true
			}
		}
		lineStart += 1 + length
	}
	return 0, false
}

// skipToNextLine returns the length byte position of the line following
// the one containing pos.
func (i *Interp) skipToNextLine(pos int) int {
	for pos < i.progLen && i.prog[pos] != byte(OpEOL) {
		pos++
	}
	return pos + 1
}
