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
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cuelang.org/fstruct/errors"
	"cuelang.org/fstruct/fs"
)

func newPrintCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print <file> [files]",
		Short: "print feature structures",
		Long: `print validates the feature structures in the given files against the
feature system and prints them, one per line.

Shared values are marked with a tag <n> where they first occur and
referred to by the same tag elsewhere.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: mkRunE(c, runPrint),
	}
	return cmd
}

func runPrint(cmd *Command, args []string) error {
	a, err := load(cmd, args)
	if err != nil {
		return err
	}
	for _, x := range a {
		fmt.Fprintln(cmd.OutOrStdout(), x)
	}
	return nil
}

func newNegateCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "negate <file>",
		Short: "print the negation of a feature structure",
		Long: `negate prints a feature structure that is inconsistent with exactly
the structures consistent with the one in the given file.

Structures that are empty, contain variables, or constrain a feature
to all of its values cannot be negated.
`,
		Args: cobra.ExactArgs(1),
		RunE: mkRunE(c, runNegate),
	}
	return cmd
}

func runNegate(cmd *Command, args []string) error {
	a, err := load(cmd, args)
	if err != nil {
		return err
	}
	n, ok := a[0].Negation()
	if !ok {
		return errors.Newf(errors.Invalid, nil, "%s: structure cannot be negated", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}

func newFeaturesCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "list the features of the feature system",
		Long: `features lists the features declared by the feature system given
with --schema, with their type, possible symbols and default.
`,
		Args: cobra.NoArgs,
		RunE: mkRunE(c, runFeatures),
	}
	return cmd
}

func runFeatures(cmd *Command, args []string) error {
	sys, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	for _, f := range sys.Features() {
		var kind, values string
		switch f := f.(type) {
		case *fs.SymbolicFeature:
			kind = "symbolic"
			values = fs.AnySymbol(f).String()
		case *fs.StringFeature:
			kind = "string"
		case *fs.ComplexFeature:
			kind = "complex"
		}
		fmt.Fprintf(w, "%s\t%s", f.ID(), kind)
		if values != "" {
			fmt.Fprintf(w, "\t%s", values)
		}
		if d := f.Default(); d != nil {
			fmt.Fprintf(w, "\tdefault %s", d)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
