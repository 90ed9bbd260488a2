package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pthm/bladex/internal/config"
	"github.com/spf13/cobra"
)

func newCompileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compile [file]",
		Short: "Print a compiled template",
		Long:  `Compile a template file, or standard input when the file is "-" or omitted, and print the result.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := a.load()
			if err != nil {
				return err
			}

			var src []byte
			if len(args) == 0 || args[0] == "-" {
				src, err = io.ReadAll(cmd.InOrStdin())
			} else {
				src, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			out, err := reg.CompileCached(string(src))
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func newComponentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List registered components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := a.load()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tVIEW\tDATA MODEL")
			for _, c := range reg.Components() {
				fmt.Fprintf(w, "<%s%s>\t%s\t%s\n", reg.Prefix(), c.Tag, c.View, c.DataModel)
			}
			return w.Flush()
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default bladex.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				path = a.rootPath(config.FileName + "." + config.FileExt)
			}
			if err := config.Write(path, config.Default(), force); err != nil {
				return err
			}
			a.logger.Info("wrote configuration", "path", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
