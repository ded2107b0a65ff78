// Copyright 2026 CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cuelang.org/fstruct/errors"
	"cuelang.org/fstruct/fs"
	"cuelang.org/fstruct/internal/envflag"
	"cuelang.org/fstruct/internal/fsdebug"
)

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.Command = cmd
		if flagTrace.Bool(c) {
			l := newTraceLogger(cmd.ErrOrStderr())
			fs.SetLogger(l)
			defer func() {
				_ = l.Sync()
				fs.SetLogger(nil)
			}()
		}
		return f(c, args)
	}
}

// newTraceLogger returns a development logger writing to w without
// timestamps.
func newTraceLogger(w io.Writer) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), zap.DebugLevel)
	return zap.New(core)
}

var debugFlagDocs = map[string]string{
	"strict":       "panic on failed internal consistency checks",
	"logunify":     "trace unification steps if 1",
	"sortfeatures": "print features sorted by identifier",
	"nwise":        "check at most this many disjunctions jointly; 0 means all",
}

// debugFlagsHelp lists the settings of the debug environment variable.
func debugFlagsHelp() string {
	flags, err := envflag.Describe[fsdebug.Config]()
	if err != nil {
		panic(err)
	}
	var b strings.Builder
	for _, f := range flags {
		fmt.Fprintf(&b, "\t%-14s %s (default %s)\n", f.Name, debugFlagDocs[f.Name], f.Default)
	}
	return b.String()
}

// newRootCmd creates the base command when called without any subcommands
func newRootCmd() *Command {
	cmd := &cobra.Command{
		Use:   "fstool",
		Short: "fstool unifies feature structures.",
		Long: `fstool reads a feature system and feature structures written in YAML
and unifies, compares or negates them.

The feature system, given with --schema, declares the features that
structures may use:

	features:
	- id: voice
	  type: symbolic
	  symbols: ["+", "-"]
	- id: head
	  type: complex
	- id: gloss
	  type: string

A structure maps feature identifiers to fillers:

	voice: "+"
	head: {gloss: dog}

The unifier can be traced with --trace or by setting
` + fsdebug.EnvVar + `=logunify=1. ` + fsdebug.EnvVar + ` holds a comma-separated
list of name=value pairs. Its settings are

` + debugFlagsHelp(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &Command{Command: cmd, root: cmd}

	subCommands := []*cobra.Command{
		newUnifyCmd(c),
		newCheckCmd(c),
		newSubsumesCmd(c),
		newNegateCmd(c),
		newPrintCmd(c),
		newFeaturesCmd(c),
	}

	addGlobalFlags(cmd.PersistentFlags())

	for _, sub := range subCommands {
		cmd.AddCommand(sub)
	}

	return c
}

// Main runs the fstool command and returns the code for passing to os.Exit.
func Main() int {
	err := mainErr(context.Background(), os.Args[1:])
	if err != nil {
		if err != ErrPrintedError {
			errors.Print(os.Stderr, err)
		}
		return 1
	}
	return 0
}

func mainErr(ctx context.Context, args []string) error {
	cmd := New(args)
	return cmd.Run(ctx)
}

type Command struct {
	// The currently active command.
	*cobra.Command

	root *cobra.Command

	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = true
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer that should be used for error messages.
// Writing to it causes the command to exit with a non-zero code.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

// ErrPrintedError indicates error messages have been printed to stderr.
var ErrPrintedError = errors.New("terminating because of errors")

func (c *Command) Run(ctx context.Context) error {
	if err := c.root.ExecuteContext(ctx); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}

// New creates the fstool command for the given arguments.
func New(args []string) *Command {
	cmd := newRootCmd()
	cmd.root.SetArgs(args)
	return cmd
}
