package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/flow"
	"github.com/meikuraledutech/flow/config"
	"github.com/meikuraledutech/flow/editor"
	"github.com/meikuraledutech/flow/layout"
	"github.com/meikuraledutech/flow/memory"
)

var errInvalid = errors.New("document has errors")

func newRootCmd() *cobra.Command {
	var level string
	root := &cobra.Command{
		Use:          "flowctl",
		Short:        "Inspect and transform flow documents",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&level, "log-level", "warn", "log level (debug, info, warn, error)")

	logger := func(cmd *cobra.Command) *log.Logger {
		return config.NewLogger(cmd.ErrOrStderr(), level)
	}

	root.AddCommand(
		newNewCmd(logger),
		newLayoutCmd(logger),
		newValidateCmd(logger),
		newInfoCmd(logger),
	)
	return root
}

type loggerFunc func(*cobra.Command) *log.Logger

// load reads a document file into a fresh editor.
func load(cmd *cobra.Command, l loggerFunc, path string) (*editor.Editor, error) {
	ed := editor.New(memory.New(), editor.WithLogger(l(cmd)))
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := ed.Import(r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ed, nil
}

// write exports ed to path, or stdout when path is empty.
func write(cmd *cobra.Command, ed *editor.Editor, path string) error {
	if path == "" {
		_, err := ed.Export(cmd.OutOrStdout())
		return err
	}
	var buf bytes.Buffer
	if _, err := ed.Export(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func newNewCmd(l loggerFunc) *cobra.Command {
	var out string
	var variants []string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Write a starter document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := flow.New()
			g.ReplaceAll(flow.WelcomeNodes(), nil)
			ed := editor.New(memory.New(), editor.WithGraph(g), editor.WithLogger(l(cmd)))
			for _, v := range variants {
				if !flow.Variant(v).Valid() {
					return fmt.Errorf("unknown node type %q", v)
				}
				ed.AddNode(flow.Variant(v))
			}
			return write(cmd, ed, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVar(&variants, "add", nil, "node types to add (box, circle, diamond, conditional)")
	return cmd
}

func newLayoutCmd(l loggerFunc) *cobra.Command {
	var out, strategy string
	cmd := &cobra.Command{
		Use:   "layout <file|->",
		Short: "Reposition every node with a layout strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := layout.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			ed, err := load(cmd, l, args[0])
			if err != nil {
				return err
			}
			if err := ed.ApplyLayout(s); err != nil {
				return err
			}
			return write(cmd, ed, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(layout.Tree), "horizontal, vertical, tree or layered")
	return cmd
}

func newValidateCmd(l loggerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|->",
		Short: "Report dangling edges, duplicate ids and branch conflicts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := load(cmd, l, args[0])
			if err != nil {
				return err
			}
			issues := ed.Validate()
			w := cmd.OutOrStdout()
			for _, is := range issues {
				fmt.Fprintf(w, "%-7s %-18s %s\n", is.Severity, is.Code, is.Message)
			}
			if flow.HasErrors(issues) {
				return errInvalid
			}
			if len(issues) == 0 {
				fmt.Fprintln(w, "ok")
			}
			return nil
		},
	}
}

func newInfoCmd(l loggerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file|->",
		Short: "Summarize a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := load(cmd, l, args[0])
			if err != nil {
				return err
			}
			nodes, edges := ed.Snapshot()
			counts := map[flow.Variant]int{}
			for _, n := range nodes {
				counts[n.Variant]++
			}
			var parts []string
			for _, v := range flow.Variants {
				if counts[v] > 0 {
					parts = append(parts, fmt.Sprintf("%s=%d", v, counts[v]))
				}
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "nodes: %d (%s)\n", len(nodes), strings.Join(parts, ", "))
			fmt.Fprintf(w, "edges: %d\n", len(edges))
			return nil
		},
	}
}
