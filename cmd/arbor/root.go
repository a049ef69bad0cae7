package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/phanxgames/arbor"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "arbor",
		Short:         "Inspect, query and render arbor scene files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "arbor.yaml", "Path to the stage config")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Print debug warnings and timings to stderr")

	cmd.AddCommand(
		newTreeCmd(opts),
		newGetCmd(opts),
		newPickCmd(opts),
		newRenderCmd(opts),
		newPlayCmd(opts),
	)
	return cmd
}

// loadStage reads the stage config and the scene file at path.
func (o *rootOptions) loadStage(path string) (*arbor.Stage, error) {
	cfg, err := arbor.LoadStageConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	cfg.Debug = cfg.Debug || o.debug
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return arbor.LoadStage(data, cfg)
}

// label formats a node as Class#id.name.
func label(n *arbor.Node) string {
	var b strings.Builder
	b.WriteString(n.ClassName())
	if id := n.ID(); id != "" {
		b.WriteString("#" + id)
	}
	for _, name := range n.Names() {
		b.WriteString("." + name)
	}
	return b.String()
}
