package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dustfall/resfs"
	"github.com/dustfall/resfs/data"
	"github.com/dustfall/resfs/log"
)

const ResfsVersion = "1.0.0"

func initResolverFlags(flag *pflag.FlagSet) {
	flag.StringSlice("data-dir", nil, "resource directory searched for archives and loose files (repeatable)")
	flag.StringSlice("base-archive", []string{"master.dat", "critter.dat"}, "base archive names resolved inside each data directory")
	flag.String("patch-prefix", "patch", "name prefix for patch archives inside each data directory")
	flag.String("database", "", "path to a sqlite resource pack")
	flag.String("config-document", "", "standalone configuration file served through the namespace")
	flag.String("log-level", "info", "log level: debug, info, warn, error, fatal")
	flag.String("log-file", "", "write logs to this file with rotation")
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}

	v.SetEnvPrefix("RESFS")
	v.AutomaticEnv()

	return v, nil
}

func buildFileSystem(v *viper.Viper) (*resfs.FileSystem, error) {
	level, err := log.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return nil, err
	}

	cfg := resfs.Config{
		DataDirs:       v.GetStringSlice("data-dir"),
		BaseArchives:   v.GetStringSlice("base-archive"),
		PatchPrefix:    v.GetString("patch-prefix"),
		Database:       v.GetString("database"),
		ConfigDocument: v.GetString("config-document"),
	}

	return resfs.Build(cfg,
		resfs.WithLogLevel(level),
		resfs.WithLogFile(v.GetString("log-file")))
}

func main() {
	rootCommand := &cobra.Command{
		Use:                   "resfs",
		DisableAutoGenTag:     true,
		DisableFlagsInUseLine: true,
		Short:                 "resfs resolves logical resource paths against layered backing stores",
	}

	catCommand := &cobra.Command{
		Use:   "cat PATH",
		Short: "resolve a resource and write its contents to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := initViper(cmd)
			if err != nil {
				return err
			}

			fs, err := buildFileSystem(v)
			if err != nil {
				return err
			}

			reader, err := fs.Reader(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			_, err = io.Copy(os.Stdout, reader)
			return err
		},
	}
	initResolverFlags(catCommand.Flags())

	statCommand := &cobra.Command{
		Use:   "stat PATH",
		Short: "resolve a resource and print its size in bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := initViper(cmd)
			if err != nil {
				return err
			}

			fs, err := buildFileSystem(v)
			if err != nil {
				return err
			}

			meta, err := fs.Metadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", args[0], meta.Size)
			return nil
		},
	}
	initResolverFlags(statCommand.Flags())

	existsCommand := &cobra.Command{
		Use:   "exists PATH",
		Short: "report whether a resource resolves (exit code 1 when it does not)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := initViper(cmd)
			if err != nil {
				return err
			}

			fs, err := buildFileSystem(v)
			if err != nil {
				return err
			}

			if !fs.Exists(cmd.Context(), args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), "false")
				os.Exit(1)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "true")
			return nil
		},
	}
	initResolverFlags(existsCommand.Flags())

	normalizeCommand := &cobra.Command{
		Use:   "normalize PATH",
		Short: "print the canonical form of a resource path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), data.NormalizePath(args[0]))
			return nil
		},
	}

	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), ResfsVersion)
			return nil
		},
	}

	rootCommand.AddCommand(catCommand, statCommand, existsCommand, normalizeCommand, versionCommand)

	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "resfs: %s\n", err.Error())
		os.Exit(1)
	}
}
