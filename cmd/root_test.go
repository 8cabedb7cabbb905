package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommandRegistersSubcommands(t *testing.T) {
	rootCmd := NewRootCommand()

	expected := []string{"scan", "fill", "plan", "offer", "host"}
	for _, name := range expected {
		sub, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, "subcommand %s should be registered", name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCommandHasConfigFlag(t *testing.T) {
	rootCmd := NewRootCommand()

	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestSubcommandsRequireURLArgument(t *testing.T) {
	for _, name := range []string{"scan", "fill", "plan", "offer"} {
		t.Run(name, func(t *testing.T) {
			rootCmd := NewRootCommand()
			sub, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)

			assert.Error(t, sub.Args(sub, nil))
			assert.NoError(t, sub.Args(sub, []string{"https://jobs.example/apply"}))
			assert.Error(t, sub.Args(sub, []string{"a", "b"}))
		})
	}
}

func TestHostCommandTakesNoArguments(t *testing.T) {
	rootCmd := NewRootCommand()
	sub, _, err := rootCmd.Find([]string{"host"})
	require.NoError(t, err)

	assert.NoError(t, sub.Args(sub, nil))
	assert.Error(t, sub.Args(sub, []string{"extra"}))
}

func TestProfileFlagPresentOnFillAndPlan(t *testing.T) {
	rootCmd := NewRootCommand()
	for _, name := range []string{"fill", "plan"} {
		sub, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.NotNil(t, sub.Flags().Lookup("profile"), "%s should expose --profile", name)
	}
}
