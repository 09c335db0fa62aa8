package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/config"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/schema"
)

func TestNewRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand("test")

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "ask", "migrate", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCommand("1.4.2")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "eventbot 1.4.2\n", out.String())
}

func TestAskCommand_RequiresQuestion(t *testing.T) {
	root := NewRootCommand("test")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"ask"})

	err := root.Execute()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "requires at least 1 arg"), err.Error())
}

func TestLoadContract(t *testing.T) {
	t.Run("built-in contract follows the datastore dialect", func(t *testing.T) {
		cfg := &config.Config{Datastore: config.DatastoreConfig{Type: "postgres"}}

		contract, err := loadContract(cfg)
		require.NoError(t, err)
		assert.Equal(t, schema.DialectPostgres, contract.Dialect())
		assert.Contains(t, contract.TemporalExpression(), "TO_TIMESTAMP")
	})

	t.Run("missing contract file is an error", func(t *testing.T) {
		cfg := &config.Config{
			Datastore:  config.DatastoreConfig{Type: "mysql"},
			SchemaFile: t.TempDir() + "/absent.yaml",
		}

		_, err := loadContract(cfg)
		assert.Error(t, err)
	})
}
