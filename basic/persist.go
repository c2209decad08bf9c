package basic

// persist.go is the SAVE/LOAD persistence adapter (spec §4.9, §6.4):
// serializing the program store to i.host.Storage behind a small fixed
// header, and restoring it. Grounded on the teacher's own reset/restore
// split (KTStephano-GVM/vm/vm.go keeps program state separate from runtime
// state) generalized to an actual byte-addressed block store.

const (
	persistMagic0 = 'n'
	persistMagic1 = 'B'
	persistMajor  = 1
	persistMinor  = 0
	headerSize    = 8
)

// saveProgram writes the header followed by the program payload. An empty
// program area (just the top-of-program terminator) is refused (spec §4.9
// "Refuses to SAVE an empty program").
func (i *Interp) saveProgram(autoRun bool) *Error {
	if i.progLen <= 1 {
		return newErr(ErrProgEmpty, i.lineNumber)
	}

	var header [headerSize]byte
	header[0] = persistMagic0
	header[1] = persistMagic1
	header[2] = persistMajor
	header[3] = persistMinor
	header[4] = byte(i.progLen)
	header[5] = byte(i.progLen >> 8)
	if autoRun {
		header[6] = 1
	}
	header[7] = 0

	if err := i.host.Storage.Write(0, header[:]); err != nil {
		return newErr(ErrProgEmpty, i.lineNumber)
	}
	if err := i.host.Storage.Write(headerSize, i.prog[:i.progLen]); err != nil {
		return newErr(ErrProgEmpty, i.lineNumber)
	}
	return nil
}

// eraseHeader implements "SAVE 0": wipe the header so a subsequent boot
// does not find a loadable image, without touching the in-memory program.
func (i *Interp) eraseHeader() *Error {
	if err := i.host.Storage.Erase(0, headerSize); err != nil {
		return newErr(ErrProgEmpty, i.lineNumber)
	}
	return nil
}

// loadProgram reads the header and replaces the program area with its
// payload. Unknown magic or an implausible length is PG empty (spec §4.9).
func (i *Interp) loadProgram() *Error {
	var header [headerSize]byte
	if err := i.host.Storage.Read(0, header[:]); err != nil {
		return newErr(ErrProgEmpty, i.lineNumber)
	}
	if header[0] != persistMagic0 || header[1] != persistMagic1 {
		return newErr(ErrProgEmpty, i.lineNumber)
	}
	length := int(header[4]) | int(header[5])<<8
	if length <= 0 || length > len(i.prog) {
		return newErr(ErrProgEmpty, i.lineNumber)
	}

	if err := i.host.Storage.Read(headerSize, i.prog[:length]); err != nil {
		return newErr(ErrProgEmpty, i.lineNumber)
	}
	i.progLen = length
	return nil
}

// autoRunFlag reports whether the stored header's auto-run byte is set,
// used by the REPL driver's boot sequence (spec §6.3 "Auto-run wait on
// boot").
func (i *Interp) autoRunFlag() bool {
	var header [headerSize]byte
	if err := i.host.Storage.Read(0, header[:]); err != nil {
		return false
	}
	if header[0] != persistMagic0 || header[1] != persistMagic1 {
		return false
	}
	return header[6] == 1
}
