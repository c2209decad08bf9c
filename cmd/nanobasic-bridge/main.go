// Command nanobasic-bridge runs the REPL against a microcontroller over
// a serial link instead of the local terminal: the BASIC program it
// executes still lives in this process, but every Console/GPIO/Storage
// call is forwarded to the device via host/hostserial, so PRINT, INKEY,
// OUTP, and SAVE all act on the remote hardware.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nanobasic/nanobasic/basic"
	"github.com/nanobasic/nanobasic/host/hostserial"
)

func main() {
	port := flag.String("port", "/dev/ttyUSB0", "serial device the microcontroller is attached to")
	autoRunWait := flag.Duration("autorun-wait", 3*time.Second, "break-cancellable wait before an auto-run program starts")
	flag.Parse()

	if err := run(*port, *autoRunWait); err != nil {
		fmt.Fprintln(os.Stderr, "nanobasic-bridge:", err)
		os.Exit(1)
	}
}

func run(port string, autoRunWait time.Duration) error {
	bridge, err := hostserial.Open(port)
	if err != nil {
		return err
	}
	defer bridge.Close()

	cfg := basic.DefaultConfig()
	interp := basic.New(cfg, bridge.Host())

	if err := interp.Init(autoRunWait); err != nil {
		fmt.Print(err.ExitMessage(), "\r\n")
	}

	stdin := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, eof := readLine(stdin)
		if eof {
			return nil
		}

		action, xerr := interp.Step(line)
		if xerr != nil {
			fmt.Print(xerr.ExitMessage(), "\r\n")
		}
		if action == basic.ActionProg {
			progLoop(interp, stdin)
			continue
		}
		if xerr == nil {
			fmt.Print("OK\r\n")
		}
	}
}

// progLoop mirrors cmd/nanobasic's PROG-mode read loop, but over a plain
// line-buffered stdin reader: the bridge host has no need for raw
// keystroke editing since it isn't itself the terminal the BASIC
// program's INKEY/PAUSE calls observe (those go to the remote device).
func progLoop(interp *basic.Interp, stdin *bufio.Reader) {
	for {
		line, eof := readLine(stdin)
		if eof {
			return
		}
		done, xerr := interp.AppendProgLine(line)
		if xerr != nil {
			fmt.Print(xerr.ExitMessage(), "\r\n")
			continue
		}
		if done {
			return
		}
	}
}

// readLine reads one newline-terminated line from stdin and strips the
// trailing \r\n/\n: Tokenize treats either as an unrecognized character
// rather than whitespace, so the host must strip them first.
func readLine(stdin *bufio.Reader) ([]byte, bool) {
	line, err := stdin.ReadBytes('\n')
	if len(line) == 0 && err != nil {
		return nil, true
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, false
}
