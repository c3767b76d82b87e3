package main

import (
	"github.com/spf13/cobra"

	"github.com/ochairo/debugfile/internal/config"
	orchestrators "github.com/ochairo/debugfile/internal/domain-orchestrators"
	"github.com/ochairo/debugfile/internal/external-adapters/yaml"
)

func newListDSYMCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-dsym",
		Short: "List the Xcode archives with their architectures and UUIDs",
		Example: `  debugfile list-dsym --archive-path ~/Library/Developer/Xcode/Archives
  debugfile list-dsym --scheme Demo --format yaml`,
		Args: cobra.NoArgs,
	}
	fs := cmd.Flags()
	fs.String("archive-path", "", "Directory searched for *.xcarchive bundles")
	fs.String("scheme", "", "Only archives with this name")
	fs.String("release-version", "", "Only archives with this CFBundleShortVersionString")
	fs.String("build", "", "Only archives with this CFBundleVersion")
	fs.String("format", "", "Output format: text or yaml (default \"text\")")
	flags := map[string]string{
		config.KeyArchivePath:    "archive-path",
		config.KeyScheme:         "scheme",
		config.KeyReleaseVersion: "release-version",
		config.KeyBuild:          "build",
		config.KeyFormat:         "format",
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		v, err := opts.load(cmd, config.BindDSYMEnv, flags)
		if err != nil {
			return err
		}
		cfg, err := config.LoadList(v)
		if err != nil {
			return err
		}

		log := opts.logger()
		orch := orchestrators.NewDSYMOrchestrator(newArchiveLocator(log), opts.dependencies(v, log))
		result, err := orch.ListDSYMs(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		if cfg.Format == "yaml" {
			return yaml.WriteRecords(opts.stdout, result.Records)
		}
		for _, r := range result.Records {
			if err := printRecord(opts.stdout, r); err != nil {
				return err
			}
		}
		return nil
	}
	return cmd
}
