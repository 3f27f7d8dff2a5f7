// galaxy-mod manages a single module spec: scaffold an example target,
// fetch its dependency set, and render its templates against a layered
// value dict.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/galaxy-sec/galaxy-ops/pkg/download"
	"github.com/galaxy-sec/galaxy-ops/pkg/module"
)

var loglevel string

func main() {
	root := &cobra.Command{
		Use:   "galaxy-mod",
		Short: "manage a single operations module",
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
		logrus.WithError(err).Error("galaxy-mod failed")
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "new PATH",
		Short: "scaffold an example module tree at PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = filepath.Base(args[0])
			}
			return module.WriteExample(args[0], name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "module name (defaults to the last path segment)")
	return cmd
}

func updateCmd() *cobra.Command {
	var offline, cleanCache bool
	cmd := &cobra.Command{
		Use:   "update PATH",
		Short: "fetch every target's dependency set",
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
			spec, err := module.LoadSpec(args[0])
			if err != nil {
				return err
			}
			opts := download.Options{Offline: offline, CleanCache: cleanCache}
			for _, target := range spec.Targets {
				if err := target.Dependencies.Update(context.Background(), dl, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "fail instead of reaching the network for an uncached entry")
	cmd.Flags().BoolVar(&cleanCache, "clean-cache", false, "remove each dependency's cache slot before fetching")
	return cmd
}

func localizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "localize PATH",
		Short: "render every target's spec/ into local/",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := module.LoadSpec(args[0])
			if err != nil {
				return err
			}
			for _, target := range spec.Targets {
				if err := target.Localize(module.LocalizeOptions{}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}
