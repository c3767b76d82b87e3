// Package orchestrators implements the debug-file actions on top of the domain gateways.
package orchestrators

import (
	"context"
	"fmt"

	"github.com/ochairo/debugfile/internal/config"
	"github.com/ochairo/debugfile/internal/domain/entities"
	"github.com/ochairo/debugfile/internal/domain/interfaces"
	"github.com/ochairo/debugfile/internal/domain/interfaces/gateways"
)

// SignerFactory loads a signer for a key file
type SignerFactory func(keyPath string, passphrase []byte) (gateways.Signer, error)

// Dependencies are the collaborators shared by every action
type Dependencies struct {
	Packager  gateways.Packager
	Checksums gateways.ChecksumWriter
	NewSigner SignerFactory
	Exporter  gateways.Exporter
	Logger    interfaces.Logger
}

func (d *Dependencies) logger() interfaces.Logger {
	if d.Logger == nil {
		return &interfaces.NoOpLogger{}
	}
	return d.Logger
}

// packageFiles writes entries to dest and then the optional sidecars.
// dest must already have been checked with PrepareOutput.
func (d *Dependencies) packageFiles(ctx context.Context, entries []entities.PackageEntry, dest string, out config.OutputConfig) (entities.PackageResult, error) {
	result := entities.PackageResult{ZipPath: dest}
	for _, e := range entries {
		result.Files = append(result.Files, e.Path)
	}

	d.logger().Debug("Packaging", interfaces.F("files", result.Files), interfaces.F("settings", out.Describe()))
	if err := d.Packager.Package(ctx, entries, dest); err != nil {
		return result, err
	}

	if out.Checksum {
		if d.Checksums == nil {
			return result, fmt.Errorf("checksum requested but no checksum writer configured")
		}
		sum, err := d.Checksums.WriteChecksum(dest)
		if err != nil {
			return result, err
		}
		result.Checksum = sum
		d.logger().Info("Wrote checksum", interfaces.F("sha256", sum))
	}

	if out.SignKey != "" {
		if d.NewSigner == nil {
			return result, fmt.Errorf("signing requested but no signer configured")
		}
		signer, err := d.NewSigner(out.SignKey, []byte(out.SignPassphrase))
		if err != nil {
			return result, err
		}
		sigPath, err := signer.SignFile(dest)
		if err != nil {
			return result, err
		}
		result.Signature = sigPath
		d.logger().Info("Wrote signature", interfaces.F("path", sigPath))
	}

	return result, nil
}

// export publishes values once, after the action has fully succeeded
func (d *Dependencies) export(values map[string]any) error {
	if d.Exporter == nil {
		return nil
	}
	if err := d.Exporter.Export(values); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	return nil
}
