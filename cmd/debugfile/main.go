// Package main provides the debugfile CLI for locating and packaging debug symbol files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ochairo/debugfile/internal/config"
	"github.com/ochairo/debugfile/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/debugfile/internal/domain-orchestrators"
	"github.com/ochairo/debugfile/internal/domain/entities"
	"github.com/ochairo/debugfile/internal/domain/interfaces"
	igateways "github.com/ochairo/debugfile/internal/domain/interfaces/gateways"
	"github.com/ochairo/debugfile/internal/external-adapters/gpg"
	"github.com/ochairo/debugfile/internal/external-adapters/plist"
	"github.com/ochairo/debugfile/internal/external-adapters/yaml"
	"github.com/ochairo/debugfile/internal/external-adapters/zerolog"
)

// Exit codes
const (
	exitOK        = 0
	exitUserError = 1
	exitFailure   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if entities.IsUserError(err) {
			return exitUserError
		}
		return exitFailure
	}
	return exitOK
}

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configFile string
	verbose    bool
	logFormat  string

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "debugfile",
		Short: "Find, list and package iOS dSYM and Android ProGuard debug files",
		Long: `debugfile locates the debug symbol files produced by mobile builds and packages
them into zip archives ready for upload to a crash reporting service.

Xcode archives (*.xcarchive) are searched for the app dSYM bundle; Android
builds are searched for ProGuard mapping, manifest and symbol files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return entities.NewUserError(entities.ErrInvalidConfig, "%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "YAML config file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&opts.logFormat, "log-format", "console", "Log format (console or json)")
	pf.String("export-file", "", "Write shared values to this YAML file")
	pf.Bool("export-env", false, "Export shared values to the process environment")

	root.AddCommand(
		newDSYMCmd(opts),
		newListDSYMCmd(opts),
		newProguardCmd(opts),
		newVersionCmd(opts),
	)
	return root
}

// load builds a viper instance from env bindings, the config file and the command's flags
func (o *globalOptions) load(cmd *cobra.Command, bindEnv func(*viper.Viper), flags map[string]string) (*viper.Viper, error) {
	v := viper.New()
	bindEnv(v)

	if err := config.ReadFile(v, o.configFile); err != nil {
		return nil, err
	}

	flags[config.KeyExportFile] = "export-file"
	flags[config.KeyExportEnv] = "export-env"
	if err := bindFlags(v, cmd.Flags(), flags); err != nil {
		return nil, err
	}
	return v, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, flags map[string]string) error {
	for key, name := range flags {
		flag := fs.Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag --%s", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

func (o *globalOptions) logger() interfaces.Logger {
	if o.logFormat == "json" {
		return zerolog.NewJSON(o.stderr, o.verbose)
	}
	return zerolog.New(o.stderr, o.verbose)
}

func (o *globalOptions) dependencies(v *viper.Viper, log interfaces.Logger) orchestrators.Dependencies {
	export := config.LoadExport(v)
	return orchestrators.Dependencies{
		Packager:  gateways.NewPackager(log),
		Checksums: gateways.NewChecksumWriter(),
		NewSigner: loadSigner,
		Exporter:  yaml.NewExporter(export.File, export.Env),
		Logger:    log,
	}
}

func loadSigner(keyPath string, passphrase []byte) (igateways.Signer, error) {
	signer, err := gpg.NewSignerFromFile(keyPath, passphrase)
	if err != nil {
		return nil, entities.NewUserError(entities.ErrInvalidConfig, "Failed to load signing key %s: %v", keyPath, err)
	}
	return signer, nil
}

func newArchiveLocator(log interfaces.Logger) *gateways.ArchiveLocator {
	return gateways.NewArchiveLocator(plist.NewMetadataReader(), gateways.NewBinaryInspector(), log)
}

// addOutputFlags registers the flags shared by the packaging commands
func addOutputFlags(fs *pflag.FlagSet) map[string]string {
	fs.String("output-path", "", "Directory for the zip archive (default \".\")")
	fs.Bool("overwrite", false, "Replace an existing archive")
	fs.Bool("checksum", false, "Write a .sha256 file next to the archive")
	fs.String("sign-key", "", "Armored OpenPGP private key used to write a detached .asc signature")

	return map[string]string{
		config.KeyOutputPath: "output-path",
		config.KeyOverwrite:  "overwrite",
		config.KeyChecksum:   "checksum",
		config.KeySignKey:    "sign-key",
	}
}
