package basic

// program.go owns the program area: a byte arena of length-prefixed lines
// kept in entry order, terminated by a single zero length byte (spec §4.2).
// PROG simply appends; there is no line-number-sorted editing. A leading
// value-literal token in a line is just an ordinary label GOTO/GOSUB can
// target by linear scan, not a key PROG sorts or replaces by.

// progLine describes one stored line's position within i.prog.
type progLine struct {
	start    int // offset of the length byte
	length   int // opcode-byte count, including the trailing EOL
	lineNum  int32
	hasLabel bool
	bodyOff  int // offset of the first opcode after the label, if any
}

// walkProgram calls visit for each stored line in order, stopping early if
// visit returns false. It never visits the trailing zero-length terminator.
func (i *Interp) walkProgram(visit func(progLine) bool) {
	pos := 0
	for pos < i.progLen {
		length := int(i.prog[pos])
		if length == 0 {
			return
		}
		pl := progLine{start: pos, length: length, bodyOff: pos + 1}
		if pl.bodyOff < i.progLen {
			b := Op(i.prog[pl.bodyOff])
			if isLiteralDigit(b) || isValueTag(b) {
				v, consumed, _ := decodeValueLiteral(i.prog[pl.bodyOff:])
				pl.lineNum = v
				pl.hasLabel = true
				pl.bodyOff += consumed
			}
		}
		if !visit(pl) {
			return
		}
		pos += 1 + length
	}
}

// findLineByNumber returns the first stored line (top to bottom) labeled
// lineNum, if any -- GOTO/GOSUB's target lookup (spec §4.6: "scans the
// program store from the top").
func (i *Interp) findLineByNumber(lineNum int32) (progLine, bool) {
	var found progLine
	var ok bool
	i.walkProgram(func(pl progLine) bool {
		if pl.hasLabel && pl.lineNum == lineNum {
			found, ok = pl, true
			return false
		}
		return true
	})
	return found, ok
}

// appendLine adds one already-tokenized line (opcodes only, ending in
// OpEOL) to the end of the program area. On overflow the area is left
// untouched and ErrProgAreaOverflow is returned; PROG's input loop reports
// the error for that one line and keeps reading further lines (spec §4.2).
func (i *Interp) appendLine(tokens []byte) *Error {
	need := i.progLen - 1 + 1 + len(tokens) + 1 // drop old terminator, add line, new terminator
	if need > len(i.prog) {
		return newErr(ErrProgAreaOverflow, i.lineNumber)
	}
	insertAt := i.progLen - 1 // overwrite the old terminator byte
	i.prog[insertAt] = byte(len(tokens))
	copy(i.prog[insertAt+1:], tokens)
	i.prog[insertAt+1+len(tokens)] = 0
	i.progLen = insertAt + 1 + len(tokens) + 1
	return nil
}

// findLabelTarget scans for a stored line whose label equals target,
// returning the byte offset of its first opcode after the label -- the
// primitive GOTO and GOSUB both use (spec §4.6).
func (i *Interp) findLabelTarget(target int32) (bodyOff int, lineNum int32, ok bool) {
	pl, found := i.findLineByNumber(target)
	if !found {
		return 0, 0, false
	}
	return pl.bodyOff, pl.lineNum, true
}

// lineNumberContaining returns the 1-based ordinal (entry order) of the
// stored line whose body spans pos, used to report an error's line number
// while running from the program area.
func (i *Interp) lineNumberContaining(pos int) int {
	n := 0
	cur := 0
	i.walkProgram(func(pl progLine) bool {
		n++
		if pos >= pl.start && pos < pl.start+1+pl.length {
			cur = n
			return false
		}
		return true
	})
	return cur
}
