// Command nanobasic is the local REPL: it pairs the engine in package
// basic with host/hostlocal's terminal/clock/RNG/file-storage
// collaborators and drives Interp.Init/Step/AppendProgLine from raw
// keystrokes assembled into lines by goat/term, mirroring the way the
// teacher's main.go is a thin flag-parsing shell around the engine
// (KTStephano-GVM/main.go's non-debug path: open, run, print the
// result) rather than a second copy of the interpreter's logic.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	goatterm "github.com/kylelemons/goat/term"

	"github.com/nanobasic/nanobasic/basic"
	"github.com/nanobasic/nanobasic/host"
	"github.com/nanobasic/nanobasic/host/hostlocal"
)

func main() {
	storagePath := flag.String("storage", "nanobasic.img", "path to the persisted program image")
	autoRunWait := flag.Duration("autorun-wait", 3*time.Second, "break-cancellable wait before an auto-run program starts")
	flag.Parse()

	if err := run(*storagePath, *autoRunWait); err != nil {
		fmt.Fprintln(os.Stderr, "nanobasic:", err)
		os.Exit(1)
	}
}

func run(storagePath string, autoRunWait time.Duration) error {
	cfg := basic.DefaultConfig()

	console, err := hostlocal.NewConsole(os.Stdin)
	if err != nil {
		return err
	}
	defer console.Restore(os.Stdin)

	storage, err := hostlocal.NewStorage(storagePath, int64(cfg.ProgramAreaSize+8))
	if err != nil {
		return err
	}
	defer storage.Close()

	h := host.Host{
		Console: console,
		Clock:   hostlocal.NewClock(),
		RNG:     hostlocal.NewRNG(),
		GPIO:    hostlocal.GPIO{},
		Storage: storage,
		Reset:   hostlocal.Reset{},
	}

	interp := basic.New(cfg, h)

	// The engine reads bytes through console.GetChar while a program runs
	// (INKEY, PAUSE, break-polling); goat's line editor reads the very
	// same byte stream between runs, while the REPL is waiting at a
	// prompt. The two never run concurrently -- only one phase is active
	// at a time -- so sharing the one reader is safe.
	tty := goatterm.NewTTY(console)
	tty.SetEcho(console)

	if err := interp.Init(autoRunWait); err != nil {
		fmt.Print(err.ExitMessage(), "\r\n")
	}

	replLoop(interp, tty)
	return nil
}

// replLoop assembles lines via tty.Read and drives the engine until
// stdin closes. It is the host-owned half of the PendingAction protocol
// package basic's driver.go documents: RUN, RESUME, and PROG all hand
// control back here instead of trying to own the prompt themselves.
func replLoop(interp *basic.Interp, tty *goatterm.TTY) {
	buf := make([]byte, 256)
	for {
		fmt.Print("> ")
		line, ok := readLine(tty, buf)
		if !ok {
			return
		}

		action, err := interp.Step(line)
		if err != nil {
			fmt.Print(err.ExitMessage(), "\r\n")
		}

		if action == basic.ActionProg {
			progLoop(interp, tty)
			continue
		}
		// A plain statement, or a RUN/RESUME session that has already
		// finished, both return to the "OK\r\n" prompt (spec §6.3); PROG's
		// sub-mode above is the only action that doesn't.
		if err == nil {
			fmt.Print("OK\r\n")
		}
	}
}

// progLoop reads lines for the PROG prompt until AppendProgLine reports
// the "#" terminator (spec §4.2).
func progLoop(interp *basic.Interp, tty *goatterm.TTY) {
	buf := make([]byte, 256)
	for {
		line, ok := readLine(tty, buf)
		if !ok {
			return
		}
		done, err := interp.AppendProgLine(line)
		if err != nil {
			fmt.Print(err.ExitMessage(), "\r\n")
			continue
		}
		if done {
			return
		}
	}
}

// readLine reads one assembled chunk from tty, skipping the lone \r/\n
// control-byte chunk goat/term sends right after the line content it
// terminates (term_line.go's linechar emits the line, then separately
// emits the terminator byte). A bare ^C chunk (a single ETX byte) is
// treated the same as an empty line, per spec.md's "^C-as-new-line"
// console convention.
func readLine(tty *goatterm.TTY, buf []byte) ([]byte, bool) {
	for {
		n, err := tty.Read(buf)
		if err != nil {
			return nil, false
		}
		if n == 1 && (buf[0] == '\r' || buf[0] == '\n') {
			continue
		}
		if n == 1 && buf[0] == 0x03 {
			return nil, true
		}
		out := make([]byte, n)
		copy(out, buf[:n])
		return out, true
	}
}
