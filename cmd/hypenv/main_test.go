package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/goccy/go-json"
	"github.com/inoxlang/hypenv/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScenario = `
intuitionistic: [A]
spatial: [B, C, D]
steps:
  - {op: bind, name: d, region: spatial, index: 2}
  - {op: bind, name: c, region: spatial, index: 1}
  - {op: delete, handle: c}
  - {op: expect, handle: d, region: spatial, index: 1, item: D}
`

func writeScenario(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runMain(t *testing.T, args ...string) (statusCode int, out string, errOut string) {
	t.Setenv(config.LOG_LEVEL_ENV_VAR, "error")
	t.Setenv(config.JSON_ENV_VAR, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	outW := bytes.NewBuffer(nil)
	errW := bytes.NewBuffer(nil)
	statusCode = _main(append([]string{COMMAND_NAME}, args...), outW, errW)
	return statusCode, outW.String(), errW.String()
}

func TestMain_(t *testing.T) {

	t.Run("help", func(t *testing.T) {
		for _, args := range [][]string{nil, {"help"}, {"--help"}, {"-h"}} {
			statusCode, out, _ := runMain(t, args...)
			assert.Zero(t, statusCode)
			assert.Equal(t, HYPENV_CMD_HELP, out)
		}
	})

	t.Run("subcommand help", func(t *testing.T) {
		statusCode, out, _ := runMain(t, "help", RUN_SUBCMD)
		assert.Zero(t, statusCode)
		assert.Contains(t, out, SUBCOMMAND_DESCRIPTION_MAP[RUN_SUBCMD])
		assert.Contains(t, out, "-json")
	})

	t.Run("unknown command", func(t *testing.T) {
		statusCode, _, errOut := runMain(t, "fly")
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "unknown command 'fly'")
	})

	t.Run("run", func(t *testing.T) {
		path := writeScenario(t, testScenario)

		statusCode, out, errOut := runMain(t, RUN_SUBCMD, path)
		if !assert.Zero(t, statusCode, errOut) {
			return
		}
		assert.Contains(t, out, "spatial: [B D]")
		assert.Contains(t, out, "d -> spatial[1] = D")
		assert.Contains(t, out, "dropped handles: [c]")
	})

	t.Run("run -json", func(t *testing.T) {
		path := writeScenario(t, testScenario)

		statusCode, out, errOut := runMain(t, RUN_SUBCMD, path, "-json")
		if !assert.Zero(t, statusCode, errOut) {
			return
		}

		var report map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, []any{"A"}, report["intuitionistic"])
		assert.Equal(t, []any{"B", "D"}, report["spatial"])
	})

	t.Run("run: failing step", func(t *testing.T) {
		path := writeScenario(t, testScenario+"  - {op: expect, handle: d, item: X}\n")

		statusCode, out, errOut := runMain(t, RUN_SUBCMD, path)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, out, "session")
		assert.Contains(t, errOut, "expectation failed")
	})

	t.Run("run: missing path", func(t *testing.T) {
		statusCode, _, errOut := runMain(t, RUN_SUBCMD)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "missing scenario path")
	})

	t.Run("check", func(t *testing.T) {
		path := writeScenario(t, testScenario)

		statusCode, out, _ := runMain(t, CHECK_SUBCMD, path)
		assert.Zero(t, statusCode)
		assert.Contains(t, out, "ok (4 step(s))")

		invalidPath := writeScenario(t, "steps: [{op: fly}]\n")
		statusCode, _, errOut := runMain(t, CHECK_SUBCMD, invalidPath)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "unknown operation")

		truncatedPath := writeScenario(t, "steps: [\n")
		statusCode, out, errOut = runMain(t, CHECK_SUBCMD, truncatedPath)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.NotContains(t, out, "ok")
		assert.Contains(t, errOut, "unterminated '['")
	})
}
