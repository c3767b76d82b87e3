package main

import (
	"fmt"
	"io"
	"maps"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ochairo/debugfile/internal/config"
	orchestrators "github.com/ochairo/debugfile/internal/domain-orchestrators"
	"github.com/ochairo/debugfile/internal/domain/entities"
)

func newDSYMCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dsym",
		Short: "Package the dSYM of the latest matching Xcode archive",
		Long: `Find the latest Xcode archive for a scheme and compress its app dSYM bundle,
together with any extra framework dSYM bundles, into <output>/<bundle>.zip.`,
		Example: `  debugfile dsym --scheme Demo
  debugfile dsym --scheme Demo --extra-dsym AFNetworking.framework.dSYM --output-path dist
  DF_DSYM_ARCHIVE_PATH=build/Demo.xcarchive debugfile dsym --overwrite --checksum`,
		Args: cobra.NoArgs,
	}
	flags := addSelectionFlags(cmd.Flags())
	cmd.Flags().StringSlice("extra-dsym", nil, "Extra dSYM bundle names from the archive's dSYMs directory")
	flags[config.KeyExtraDSYM] = "extra-dsym"
	maps.Copy(flags, addOutputFlags(cmd.Flags()))

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		v, err := opts.load(cmd, config.BindDSYMEnv, flags)
		if err != nil {
			return err
		}
		cfg, err := config.LoadDSYM(v)
		if err != nil {
			return err
		}

		log := opts.logger()
		orch := orchestrators.NewDSYMOrchestrator(newArchiveLocator(log), opts.dependencies(v, log))
		result, err := orch.PackageDSYM(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(opts.stdout, result.ZipPath)
		return err
	}

	cmd.AddCommand(newDSYMFindCmd(opts))
	return cmd
}

func newDSYMFindCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Show the latest matching Xcode archive without packaging it",
		Args:  cobra.NoArgs,
	}
	flags := addSelectionFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		v, err := opts.load(cmd, config.BindDSYMEnv, flags)
		if err != nil {
			return err
		}
		cfg, err := config.LoadDSYM(v)
		if err != nil {
			return err
		}

		log := opts.logger()
		orch := orchestrators.NewDSYMOrchestrator(newArchiveLocator(log), opts.dependencies(v, log))
		record, err := orch.FindDSYM(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return printRecord(opts.stdout, record)
	}
	return cmd
}

// addSelectionFlags registers the flags that choose archives
func addSelectionFlags(fs *pflag.FlagSet) map[string]string {
	fs.String("archive-path", "", "Directory searched for *.xcarchive bundles")
	fs.String("scheme", "", "Only archives with this name")
	fs.String("release-version", "", "Only archives with this CFBundleShortVersionString")
	fs.String("build", "", "Only archives with this CFBundleVersion")
	fs.String("latest-by", "", "Pick the latest archive by date or version (default \"date\")")

	return map[string]string{
		config.KeyArchivePath:    "archive-path",
		config.KeyScheme:         "scheme",
		config.KeyReleaseVersion: "release-version",
		config.KeyBuild:          "build",
		config.KeyLatestBy:       "latest-by",
	}
}

func printRecord(w io.Writer, r *entities.ArchiveRecord) error {
	fmt.Fprintf(w, "%s %s (%s)\n", r.Name, r.ReleaseVersion, r.Build)
	fmt.Fprintf(w, "  archive: %s\n", r.RootPath)
	if r.DSYMPath != "" {
		fmt.Fprintf(w, "  dsym:    %s\n", r.DSYMPath)
	}
	for _, m := range r.Machos {
		fmt.Fprintf(w, "  %-8s %s\n", m.Architecture, m.UUID)
	}
	_, err := fmt.Fprintln(w)
	return err
}
