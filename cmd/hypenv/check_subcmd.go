package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/inoxlang/hypenv/internal/envscript"
)

func CheckScenario(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	if showHelp(flags, mainSubCommandArgs, outW) {
		return 0
	}

	if err := flags.Parse(mainSubCommandArgs); err != nil {
		return ERROR_STATUS_CODE
	}

	fpath := flags.Arg(0)
	if fpath == "" {
		fmt.Fprintf(errW, "missing scenario path\n")
		return ERROR_STATUS_CODE
	}

	scenario, err := envscript.ReadScenarioFile(fpath)
	if err != nil {
		fmt.Fprintln(errW, err)
		return ERROR_STATUS_CODE
	}

	if err := scenario.Validate(); err != nil {
		fmt.Fprintln(errW, err)
		return ERROR_STATUS_CODE
	}

	fmt.Fprintf(outW, "%s: ok (%d step(s))\n", fpath, len(scenario.Steps))
	return 0
}
