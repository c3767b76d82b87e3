package orchestrators

import (
	"context"
	"path/filepath"
	"time"

	"github.com/ochairo/debugfile/internal/config"
	"github.com/ochairo/debugfile/internal/domain/entities"
	"github.com/ochairo/debugfile/internal/domain/interfaces"
	"github.com/ochairo/debugfile/internal/domain/interfaces/repositories"
	"github.com/ochairo/debugfile/internal/domain/services"
)

// DSYMOrchestrator finds, lists and packages dSYM bundles from Xcode archives
type DSYMOrchestrator struct {
	archives repositories.ArchiveRepository
	deps     Dependencies
}

// NewDSYMOrchestrator creates a new dSYM orchestrator
func NewDSYMOrchestrator(archives repositories.ArchiveRepository, deps Dependencies) *DSYMOrchestrator {
	return &DSYMOrchestrator{archives: archives, deps: deps}
}

// FindDSYM returns the latest archive matching cfg
func (o *DSYMOrchestrator) FindDSYM(ctx context.Context, cfg config.DSYMConfig) (*entities.ArchiveRecord, error) {
	records, err := o.archives.ListArchives(ctx, repositories.ArchiveQuery{
		Root:           cfg.ArchivePath,
		Scheme:         cfg.Scheme,
		ReleaseVersion: cfg.ReleaseVersion,
		Build:          cfg.Build,
	})
	if err != nil {
		return nil, err
	}

	record := services.SelectLatest(records, cfg.LatestBy)
	if record == nil {
		return nil, entities.NewUserError(entities.ErrNoArchiveMatched,
			"Not matched any archive [%s] with scheme [%s]", cfg.ArchivePath, cfg.Scheme)
	}

	log := o.deps.logger()
	log.Success("Selected archive",
		interfaces.F("name", record.Name),
		interfaces.F("version", record.ReleaseVersion),
		interfaces.F("build", record.Build),
		interfaces.F("created_at", record.CreatedAt.Format(time.RFC3339)))
	reportMachos(log, record)

	return record, nil
}

// PackageDSYM compresses the latest app dSYM plus any existing extra bundles
func (o *DSYMOrchestrator) PackageDSYM(ctx context.Context, cfg config.DSYMConfig) (*entities.DSYMResult, error) {
	record, err := o.FindDSYM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if !record.HasDSYM() {
		return nil, entities.NewUserError(entities.ErrMissingFile,
			"No dSYM bundle in archive %s", record.RootPath)
	}

	outputFile := filepath.Join(cfg.Output.OutputPath, services.DSYMZipName(record))
	if err := o.deps.Packager.PrepareOutput(outputFile, cfg.Output.Overwrite); err != nil {
		return nil, err
	}

	entries := services.ResolveDSYMBundles(filepath.Dir(record.DSYMPath), filepath.Base(record.DSYMPath), cfg.ExtraDSYM)
	log := o.deps.logger()
	log.Info("Prepare dSYM file(s) compressing", interfaces.F("count", len(entries)))

	packaged, err := o.deps.packageFiles(ctx, entries, outputFile, cfg.Output)
	if err != nil {
		return nil, err
	}
	log.Success("Compressed dSYM file", interfaces.F("path", outputFile))

	if err := o.deps.export(map[string]any{entities.SharedDSYMZipPath: outputFile}); err != nil {
		return nil, err
	}

	return &entities.DSYMResult{Record: record, PackageResult: packaged}, nil
}

// ListDSYMs returns every archive matching cfg, oldest first
func (o *DSYMOrchestrator) ListDSYMs(ctx context.Context, cfg config.ListConfig) (*entities.ListResult, error) {
	records, err := o.archives.ListArchives(ctx, repositories.ArchiveQuery{
		Root:           cfg.ArchivePath,
		Scheme:         cfg.Scheme,
		ReleaseVersion: cfg.ReleaseVersion,
		Build:          cfg.Build,
	})
	if err != nil {
		return nil, err
	}

	log := o.deps.logger()
	log.Success("Found dSYM files", interfaces.F("count", len(records)))
	for _, r := range records {
		log.Success("•", interfaces.F("name", r.Name), interfaces.F("version", r.ReleaseVersion), interfaces.F("build", r.Build))
		reportMachos(log, r)
	}

	if err := o.deps.export(map[string]any{entities.SharedDSYMsList: records}); err != nil {
		return nil, err
	}

	return &entities.ListResult{Records: records}, nil
}

func reportMachos(log interfaces.Logger, r *entities.ArchiveRecord) {
	for _, m := range r.Machos {
		log.Info("  "+m.UUID, interfaces.F("arch", m.Architecture))
	}
}
