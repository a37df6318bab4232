package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/granola-client/internal/cmd/base"
	"github.com/hashicorp-forge/granola-client/internal/cmd/commands/call"
	"github.com/hashicorp-forge/granola-client/internal/cmd/commands/documents"
	"github.com/hashicorp-forge/granola-client/internal/cmd/commands/folders"
	"github.com/hashicorp-forge/granola-client/internal/cmd/commands/operations"
	"github.com/hashicorp-forge/granola-client/internal/cmd/commands/token"
	"github.com/hashicorp-forge/granola-client/internal/cmd/commands/version"
)

// Commands is the mapping of all available granola commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"call": func() (cli.Command, error) {
			return &call.Command{Command: b}, nil
		},
		"documents": func() (cli.Command, error) {
			return &documents.Command{Command: b}, nil
		},
		"documents list": func() (cli.Command, error) {
			return &documents.ListCommand{Command: b}, nil
		},
		"documents show": func() (cli.Command, error) {
			return &documents.ShowCommand{Command: b}, nil
		},
		"folders": func() (cli.Command, error) {
			return &folders.Command{Command: b}, nil
		},
		"folders list": func() (cli.Command, error) {
			return &folders.ListCommand{Command: b}, nil
		},
		"open": func() (cli.Command, error) {
			return &documents.OpenCommand{Command: b}, nil
		},
		"operations": func() (cli.Command, error) {
			return &operations.Command{Command: b}, nil
		},
		"schema": func() (cli.Command, error) {
			return &operations.SchemaCommand{Command: b}, nil
		},
		"token": func() (cli.Command, error) {
			return &token.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
