package ui

import (
	"os"

	"github.com/pterm/pterm"
)

func ExamplePrintfln() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	msg := "output after %d cycles"
	a := 5
	Printfln(msg, a)
	// Output:
	// output after 5 cycles
}

func ExampleDebug() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()
	SetDebugEnabled(true)

	msg := "loop %s: integral %.1f"
	Debug(msg, "outer", 2.5)
	// Output:
	// DEBUG: loop outer: integral 2.5
}

func ExampleDebug_disabled() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()
	SetDebugEnabled(false)

	Debug("this is not printed")
	Printfln("done")
	// Output:
	// done
}

func ExampleInfo() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	msg := "Starting loop: %s"
	Info(msg, "inner")
	// Output:
	// INFO: Starting loop: inner
}

func ExampleWarning() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	msg := "Unused plant configuration: %s"
	Warning(msg, "tank")
	// Output:
	// WARNING: Unused plant configuration: tank
}

func ExampleError() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	msg := "This is a test: %v"
	a := os.ErrClosed
	Error(msg, a)
	// Output:
	// ERROR: This is a test: file already closed
}
