// Command dagnvfs is a small CLI wrapping github.com/dagnvfs/vfs: add root paths, inspect a resolved entity, and
// extract a file's decoded contents to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/dagnvfs/vfs"
	"github.com/dagnvfs/vfs/filters"
	"github.com/spf13/cobra"
)

var roots []string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dagnvfs",
		Short: "inspect and extract from a dagnvfs root-path/archive namespace",
	}
	cmd.PersistentFlags().StringArrayVar(&roots, "root", nil, "host directory to add as a search root (repeatable)")
	cmd.AddCommand(newResolveCmd(), newExtractCmd())
	return cmd
}

func newState() (*vfs.State, error) {
	s := vfs.New()
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.Filters.Register(filters.Identity{})
	s.Filters.Register(filters.Gzip{})
	s.Filters.Register(filters.Zstd{})
	s.Filters.Register(filters.LZ4{})
	for _, root := range roots {
		if err := s.Roots.Add(root); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "resolve a logical path and print its entity info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newState()
			if err != nil {
				return err
			}
			defer s.Shutdown()

			info, err := s.Stat(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\ttype=%s\tarchived=%v\tsize=%d\n",
				info.FullPath, info.Type, info.Archived, info.Size)
			return nil
		},
	}
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <path>",
		Short: "decode a file and write its contents to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newState()
			if err != nil {
				return err
			}
			defer s.Shutdown()

			return s.Extract(args[0], cmd.OutOrStdout())
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
