package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestWithoutConfig(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "tonkit"}
	keygen := &cobra.Command{Use: "keygen"}
	newKeys := &cobra.Command{Use: "new"}
	deploy := &cobra.Command{Use: "deploy"}
	keygen.AddCommand(newKeys)
	root.AddCommand(keygen, deploy)

	assert.True(t, withoutConfig(keygen))
	assert.True(t, withoutConfig(newKeys), "subcommands inherit the parent setting")
	assert.False(t, withoutConfig(deploy))
	assert.False(t, withoutConfig(root))
}
