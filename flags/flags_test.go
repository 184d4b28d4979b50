package flags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestUniqueFlags asserts that no flag names or env vars collide.
func TestUniqueFlags(t *testing.T) {
	seenNames := map[string]struct{}{}
	seenEnvVars := map[string]struct{}{}

	for _, flag := range Flags {
		name := flag.Names()[0]
		_, dup := seenNames[name]
		assert.False(t, dup, "duplicate flag name %s", name)
		seenNames[name] = struct{}{}

		envFlag, ok := flag.(interface{ GetEnvVars() []string })
		require.True(t, ok, "flag %s has no env vars", name)
		for _, envVar := range envFlag.GetEnvVars() {
			assert.True(t, strings.HasPrefix(envVar, EnvVarPrefix+"_"), "env var %s missing prefix", envVar)
			_, dup := seenEnvVars[envVar]
			assert.False(t, dup, "duplicate env var %s", envVar)
			seenEnvVars[envVar] = struct{}{}
		}
	}
}

func TestCheckRequired(t *testing.T) {
	run := func(args ...string) error {
		app := cli.NewApp()
		app.Flags = Flags
		var checkErr error
		app.Action = func(ctx *cli.Context) error {
			checkErr = CheckRequired(ctx)
			return nil
		}
		require.NoError(t, app.Run(append([]string{"autograde"}, args...)))
		return checkErr
	}

	assert.NoError(t, run("--cases", "c", "--client", "cl", "--server", "sv"))

	err := run("--cases", "c", "--client", "cl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server")

	err = run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}
