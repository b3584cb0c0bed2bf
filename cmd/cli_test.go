package cmd

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/habedi/findstream/pkg/clierr"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateRootCmd checks that createRootCmd returns a root command
// with the expected use string, subcommands, and a replaced help command.
func TestCreateRootCmd(t *testing.T) {
	rootCmd := createRootCmd()
	if rootCmd.Use != "findstream" {
		t.Errorf("expected root command use to be 'findstream', got: %s", rootCmd.Use)
	}

	subCommands := rootCmd.Commands()
	if len(subCommands) == 0 {
		t.Error("expected root command to have subcommands, got none")
	}

	names := map[string]bool{}
	for _, cmd := range subCommands {
		if cmd.Use == "help" {
			t.Error("expected help command to be replaced, but found a subcommand with use 'help'")
		}
		names[cmd.Name()] = true
	}
	for _, want := range []string{"serve", "search", "categories", "version"} {
		if !names[want] {
			t.Errorf("expected subcommand %q", want)
		}
	}
}

// TestExecuteFailure runs a subprocess where the root command's RunE is overridden
// to always return an error and checks that it exits with status 1.
func TestExecuteFailure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_FAILURE") == "1" {
		rootCmd := createRootCmd()
		rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
			return errors.New("dummy failure")
		}
		if err := rootCmd.Execute(); err != nil {
			os.Exit(clierr.ExitCode(err))
		}
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecuteFailure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_FAILURE=1")
	err := cmd.Run()
	if exitError, ok := err.(*exec.ExitError); ok {
		if exitError.ExitCode() != 1 {
			t.Fatalf("expected exit code 1, got %d", exitError.ExitCode())
		}
	} else if err == nil {
		t.Fatalf("expected an exit error, but command succeeded")
	} else {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecute_ReturnsExitCode(t *testing.T) {
	t.Setenv("FINDSTREAM_CLIENT_ID", "")
	t.Setenv("FINDSTREAM_CLIENT_SECRET", "")
	previousArgs, previousLogger := os.Args, log.Logger
	t.Cleanup(func() { os.Args, log.Logger = previousArgs, previousLogger })
	os.Args = []string{"findstream", "search", "-c", "NotACategory"}

	assert.Equal(t, 2, Execute(context.Background()))
}

func TestConfigureLogging(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	require.NoError(t, configureLogging(os.Stderr, "warn", "json"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	require.NoError(t, configureLogging(os.Stderr, "", "console"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	err := configureLogging(os.Stderr, "loud", "console")
	assert.Equal(t, 2, clierr.ExitCode(err))

	err = configureLogging(os.Stderr, "", "xml")
	assert.Equal(t, 2, clierr.ExitCode(err))
}

func TestLoadSettings_MissingCredentials(t *testing.T) {
	t.Setenv("FINDSTREAM_CLIENT_ID", "")
	t.Setenv("FINDSTREAM_CLIENT_SECRET", "")

	_, err := loadSettings(&rootOptions{configPath: t.TempDir() + "/none.toml"})

	require.Error(t, err)
	assert.Equal(t, 3, clierr.ExitCode(err))
}

func TestLoadSettings_FromFlag(t *testing.T) {
	withCredentials(t)
	path := t.TempDir() + "/config.toml"
	require.NoError(t, os.WriteFile(path, []byte("listen = \"127.0.0.1:9090\"\n"), 0o600))

	settings, err := loadSettings(&rootOptions{configPath: path})

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", settings.Listen)
	assert.Equal(t, "id", settings.ClientID)
}
