package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/inoxlang/hypenv/internal/config"
	"github.com/inoxlang/hypenv/internal/envscript"
	"github.com/rs/zerolog"
)

func RunScenario(mainSubCommand string, mainSubCommandArgs []string, conf config.Config, logger zerolog.Logger, outW, errW io.Writer) (exitCode int) {
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	var printJSON bool
	flags.BoolVar(&printJSON, "json", conf.JSONReports, "print the report as JSON")

	if showHelp(flags, mainSubCommandArgs, outW) {
		return 0
	}

	moveFlagsStart(mainSubCommandArgs)

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

	report, runErr := envscript.Run(scenario, logger.With().Str("scenario", fpath).Logger())

	if report != nil {
		if printJSON {
			content, err := report.JSON()
			if err != nil {
				fmt.Fprintln(errW, err)
				return ERROR_STATUS_CODE
			}
			fmt.Fprintf(outW, "%s\n", content)
		} else {
			printReport(report, outW)
		}
	}

	if runErr != nil {
		fmt.Fprintln(errW, runErr)
		return ERROR_STATUS_CODE
	}
	return 0
}

func printReport(report *envscript.Report, w io.Writer) {
	fmt.Fprintf(w, "session %s: %d step(s)\n", report.SessionID, report.StepCount)
	fmt.Fprintf(w, "intuitionistic: %v\n", report.Intuitionistic)
	fmt.Fprintf(w, "spatial: %v\n", report.Spatial)

	if len(report.Handles) > 0 {
		fmt.Fprintln(w, "handles:")
		for _, handle := range report.Handles {
			fmt.Fprintf(w, "\t%s -> %s[%d] = %s\n", handle.Name, handle.Region, handle.Index, handle.Item)
		}
	}

	if len(report.DroppedHandles) > 0 {
		fmt.Fprintf(w, "dropped handles: %v\n", report.DroppedHandles)
	}
}
