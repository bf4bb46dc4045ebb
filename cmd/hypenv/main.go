package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/inoxlang/hypenv/internal/config"
	"github.com/posener/complete/v2/install"
	"github.com/rs/zerolog"
)

const (
	ERROR_STATUS_CODE = 1

	COMMAND_NAME = "hypenv"
)

func main() {
	//handle completions
	cmd.Complete(COMMAND_NAME)

	statusCode := _main(os.Args, os.Stdout, os.Stderr)
	if statusCode != 0 {
		os.Exit(statusCode)
	}
}

func _main(args []string, outW io.Writer, errW io.Writer) (statusCode int) {
	mainSubCommand := HELP_SUBCMD
	var mainSubCommandArgs []string

	if len(args) > 1 {
		mainSubCommand = args[1]
		mainSubCommandArgs = args[2:]
	}

	//if the command has the shape help <subcommand> ... we modify the arguments to ask the subcommand to print its help message.
	if mainSubCommand == HELP_SUBCMD && len(mainSubCommandArgs) > 0 && slices.Contains(SUBCOMMANDS, mainSubCommandArgs[0]) {
		mainSubCommand = mainSubCommandArgs[0]
		mainSubCommandArgs = []string{"-h"}
	}

	if slices.Contains(HELP_SUBCMD_EQUIVALENTS, mainSubCommand) {
		mainSubCommand = HELP_SUBCMD
	}

	//unknown command
	if !slices.Contains(SUBCOMMANDS, mainSubCommand) {
		fmt.Fprintf(errW, "unknown command '%s'\n", mainSubCommand)
		fmt.Fprint(errW, "\n"+HYPENV_CMD_HELP)
		return ERROR_STATUS_CODE
	}

	conf, err := config.Load()
	if err != nil {
		fmt.Fprintln(errW, err)
		return ERROR_STATUS_CODE
	}

	logger := newLogger(conf, errW)
	if conf.ConfigFile != "" {
		logger.Debug().Str("file", conf.ConfigFile).Msg("configuration loaded")
	}

	switch mainSubCommand {
	case HELP_SUBCMD:
		fmt.Fprint(outW, HYPENV_CMD_HELP)
		return
	case INSTALL_COMPLETIONS_SUBCMD:
		err := install.Install(COMMAND_NAME)
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "installed")
		return
	case UNINSTALL_COMPLETIONS_SUBCMD:
		err := install.Uninstall(COMMAND_NAME)
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "uninstalled")
		return
	case RUN_SUBCMD:
		return RunScenario(mainSubCommand, mainSubCommandArgs, conf, logger, outW, errW)
	case CHECK_SUBCMD:
		return CheckScenario(mainSubCommand, mainSubCommandArgs, outW, errW)
	}

	return ERROR_STATUS_CODE
}

func newLogger(conf config.Config, errW io.Writer) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:     errW,
		NoColor: !config.SHOULD_COLORIZE,
	}
	return zerolog.New(writer).Level(conf.LogLevel).With().Timestamp().Logger()
}
