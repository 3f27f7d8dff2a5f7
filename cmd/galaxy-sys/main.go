// galaxy-sys manages a system spec: a named collection of module
// references sharing one variable scope.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/galaxy-sec/galaxy-ops/pkg/download"
	"github.com/galaxy-sec/galaxy-ops/pkg/system"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

var loglevel string

func main() {
	root := &cobra.Command{
		Use:   "galaxy-sys",
		Short: "manage a system's module references",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(loglevel)
			if err != nil {
				return fmt.Errorf("--loglevel invalid: %w", err)
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&loglevel, "loglevel", "info", "logging level")

	root.AddCommand(newCmd(), updateCmd(), localizeCmd())

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("galaxy-sys failed")
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "new PATH",
		Short: "scaffold an empty system tree at PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = filepath.Base(args[0])
			}
			spec := system.NewSpec(name)
			return system.SaveSpec(args[0], spec)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "system name (defaults to the last path segment)")
	return cmd
}

func updateCmd() *cobra.Command {
	var offline, cleanCache bool
	cmd := &cobra.Command{
		Use:   "update PATH",
		Short: "resolve and fetch every module reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			dl, err := download.New(home)
			if err != nil {
				return err
			}
			spec, err := system.MustLoad(args[0])
			if err != nil {
				return err
			}
			opts := download.Options{Offline: offline, CleanCache: cleanCache}
			if err := spec.UpdateLocal(context.Background(), dl, opts); err != nil {
				return err
			}
			return system.SaveSpec(args[0], spec)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "fail instead of reaching the network for an uncached entry")
	cmd.Flags().BoolVar(&cleanCache, "clean-cache", false, "remove each dependency's cache slot before fetching")
	return cmd
}

func localizeCmd() *cobra.Command {
	var valuePath string
	cmd := &cobra.Command{
		Use:   "localize PATH",
		Short: "render every resolved module reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := system.MustLoad(args[0])
			if err != nil {
				return err
			}
			global, err := loadGlobalDict(valuePath)
			if err != nil {
				return err
			}
			return spec.Localize(global)
		},
	}
	cmd.Flags().StringVar(&valuePath, "values", "", "optional YAML file of global values")
	return cmd
}

func loadGlobalDict(path string) (*vars.Dict, error) {
	if path == "" {
		return vars.NewDict(), nil
	}
	return vars.DictFromYAMLFile(path)
}
