package main

import (
	"fmt"
	"maps"

	"github.com/spf13/cobra"

	"github.com/ochairo/debugfile/internal/config"
	orchestrators "github.com/ochairo/debugfile/internal/domain-orchestrators"
)

func newProguardCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proguard",
		Short: "Package the ProGuard mapping, manifest and symbol files of an Android build",
		Long: `Collect mapping.txt, AndroidManifest.xml and R.txt for one build variant of an
Android app module, plus any extra files, into <output>/[<flavor>-]<build type>-proguard.zip.`,
		Example: `  debugfile proguard
  debugfile proguard --app-path app --flavor full --build-type release
  debugfile proguard --extra-files proguard-rules.pro --output-path dist --overwrite`,
		Args: cobra.NoArgs,
	}
	fs := cmd.Flags()
	fs.String("app-path", "", "Android app module directory (default \"app\")")
	fs.String("build-type", "", "Build type (default \"release\")")
	fs.String("flavor", "", "Product flavor")
	fs.StringSlice("extra-files", nil, "Extra files to include")
	flags := map[string]string{
		config.KeyAppPath:    "app-path",
		config.KeyBuildType:  "build-type",
		config.KeyFlavor:     "flavor",
		config.KeyExtraFiles: "extra-files",
	}
	maps.Copy(flags, addOutputFlags(fs))

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		v, err := opts.load(cmd, config.BindProguardEnv, flags)
		if err != nil {
			return err
		}
		cfg, err := config.LoadProguard(v)
		if err != nil {
			return err
		}

		log := opts.logger()
		orch := orchestrators.NewProguardOrchestrator(opts.dependencies(v, log))
		result, err := orch.PackageProguard(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(opts.stdout, result.ZipPath)
		return err
	}
	return cmd
}
