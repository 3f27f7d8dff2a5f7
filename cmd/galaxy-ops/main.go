// galaxy-ops drives a full operations project: the workspace that
// imports system packages, holds operator-level values, and emits
// environment-specific rendered output.
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
	"github.com/galaxy-sec/galaxy-ops/pkg/project"
)

var loglevel string

func main() {
	root := &cobra.Command{
		Use:   "galaxy-ops",
		Short: "drive an operations project end to end",
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

	root.AddCommand(newCmd(), updateCmd(), localizeCmd(), importCmd(), exampleCmd())

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("galaxy-ops failed")
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "new PATH",
		Short: "scaffold a new project at PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = filepath.Base(args[0])
			}
			_, err := project.New(args[0], name)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (defaults to the last path segment)")
	return cmd
}

func updateCmd() *cobra.Command {
	var offline, cleanCache bool
	cmd := &cobra.Command{
		Use:   "update PATH",
		Short: "update work-env deps and every system reference",
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
			p, err := project.Load(args[0])
			if err != nil {
				return err
			}
			opts := download.Options{Offline: offline, CleanCache: cleanCache}
			return p.Update(context.Background(), dl, opts)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "fail instead of reaching the network for an uncached entry")
	cmd.Flags().BoolVar(&cleanCache, "clean-cache", false, "remove each dependency's cache slot before fetching")
	return cmd
}

func localizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "localize PATH",
		Short: "render the whole project against its value dict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(args[0])
			if err != nil {
				return err
			}
			return p.Localize()
		},
	}
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import PATH ARCHIVE NAME",
		Short: "unpack a pre-built system package tar.gz into the project",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return project.ImportSystem(args[0], args[1], args[2])
		},
	}
	return cmd
}

func exampleCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "example PATH",
		Short: "scaffold an example module spec at PATH",
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
