package orchestrators

import (
	"context"
	"path/filepath"

	"github.com/ochairo/debugfile/internal/config"
	"github.com/ochairo/debugfile/internal/domain/entities"
	"github.com/ochairo/debugfile/internal/domain/interfaces"
	"github.com/ochairo/debugfile/internal/domain/services"
)

// ProguardOrchestrator packages Android ProGuard outputs
type ProguardOrchestrator struct {
	deps Dependencies
}

// NewProguardOrchestrator creates a new ProGuard orchestrator
func NewProguardOrchestrator(deps Dependencies) *ProguardOrchestrator {
	return &ProguardOrchestrator{deps: deps}
}

// PackageProguard compresses the mapping, manifest and symbol files of one build variant
func (o *ProguardOrchestrator) PackageProguard(ctx context.Context, cfg config.ProguardConfig) (*entities.ProguardResult, error) {
	outputFile := filepath.Join(cfg.Output.OutputPath, services.ProguardZipName(cfg.BuildType, cfg.Flavor))
	if !cfg.Output.Overwrite {
		if err := o.deps.Packager.PrepareOutput(outputFile, false); err != nil {
			return nil, err
		}
	}

	log := o.deps.logger()
	found := services.FindProguardFiles(services.ProguardQuery{
		AppPath:    cfg.AppPath,
		BuildType:  cfg.BuildType,
		Flavor:     cfg.Flavor,
		ExtraFiles: cfg.ExtraFiles,
	}, log)
	if len(found) == 0 {
		return nil, entities.NewUserError(entities.ErrNoProguardFile, "No found any proguard file")
	}
	log.Success("Found debug information files", interfaces.F("count", len(found)))

	// The previous archive is only replaced once there is something to package
	if err := o.deps.Packager.PrepareOutput(outputFile, cfg.Output.Overwrite); err != nil {
		return nil, err
	}

	entries := make([]entities.PackageEntry, 0, len(found))
	for _, f := range found {
		entries = append(entries, f.PackageEntry())
	}

	packaged, err := o.deps.packageFiles(ctx, entries, outputFile, cfg.Output)
	if err != nil {
		return nil, err
	}
	log.Success("Compressed proguard files", interfaces.F("path", outputFile))

	if err := o.deps.export(map[string]any{entities.SharedProguardZipPath: outputFile}); err != nil {
		return nil, err
	}

	return &entities.ProguardResult{Entries: found, PackageResult: packaged}, nil
}
