package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phanxgames/arbor"
	"github.com/spf13/cobra"
)

func newTreeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <scene>",
		Short: "Print the node tree of a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.loadStage(args[0])
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), st.Root(), 0)
			return nil
		},
	}
}

func printTree(w io.Writer, n *arbor.Node, depth int) {
	_, _ = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), label(n))
	for _, child := range n.Children() {
		printTree(w, child, depth+1)
	}
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <scene> <selector>",
		Short: "List the nodes matching a selector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.loadStage(args[0])
			if err != nil {
				return err
			}
			for _, n := range st.Get(args[1]) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), label(n))
			}
			return nil
		},
	}
}

func newPickCmd(opts *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "pick <scene> <x> <y>",
		Short: "Report the shape at a stage pixel",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parse x: %w", err)
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("parse y: %w", err)
			}
			st, err := opts.loadStage(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if all {
				for _, n := range st.Root().GetAllIntersections(arbor.Vec2{X: float64(x), Y: float64(y)}) {
					_, _ = fmt.Fprintln(out, label(n))
				}
				return nil
			}
			if err := st.DrawHit(); err != nil {
				return err
			}
			if n := st.GetIntersection(x, y); n != nil {
				_, _ = fmt.Fprintln(out, label(n))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List every shape containing the point, bottom first")
	return cmd
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render <scene> <out.png>",
		Short: "Render a scene to a PNG file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.loadStage(args[0])
			if err != nil {
				return err
			}
			if err := st.SavePNG(args[1]); err != nil {
				return err
			}
			w, h := st.Size()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", args[1], w, h)
			return nil
		},
	}
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var (
		outDir    string
		maxFrames int
	)
	cmd := &cobra.Command{
		Use:   "play <scene> <script>",
		Short: "Run a pointer script against a scene without a window",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.loadStage(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			runner, err := arbor.LoadScript(data)
			if err != nil {
				return err
			}
			st.ScreenshotDir = outDir

			out := cmd.OutOrStdout()
			st.Root().On(arbor.EventClick, func(e arbor.Event) {
				_, _ = fmt.Fprintf(out, "click %s at (%d, %d)\n", label(e.Shape), e.X, e.Y)
			})
			return st.RunScript(runner, maxFrames)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "screenshots", "Directory for screenshot steps")
	cmd.Flags().IntVar(&maxFrames, "frames", 600, "Give up after this many frames")
	return cmd
}
