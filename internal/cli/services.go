package cli

import (
	"context"

	"github.com/mcdonaldj/vszipper/internal/adapters/osfs"
	"github.com/mcdonaldj/vszipper/internal/adapters/sysclock"
	"github.com/mcdonaldj/vszipper/internal/adapters/ziparchiver"
	"github.com/mcdonaldj/vszipper/internal/config"
	"github.com/mcdonaldj/vszipper/internal/ports"
	"github.com/mcdonaldj/vszipper/internal/zipper"
)

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load(path string) (*config.Config, error) {
	return config.Load(path)
}

func (d *defaultConfigService) Save(cfg *config.Config, path string) error {
	return cfg.Save(path)
}

func (d *defaultConfigService) DefaultConfig() *config.Config {
	return config.DefaultConfig()
}

// defaultZipService builds a zipper per call from the loaded config.
type defaultZipService struct {
	fs       ports.FileSystem
	archiver ports.Archiver
	clock    ports.Clock
}

func newDefaultZipService() *defaultZipService {
	return &defaultZipService{
		fs:       osfs.New(),
		archiver: ziparchiver.New(),
		clock:    sysclock.New(),
	}
}

func (d *defaultZipService) resolver(cfg *config.Config) *zipper.NameResolver {
	r := zipper.NewNameResolver(d.fs, d.clock)
	if len(cfg.Markers.Solution) > 0 {
		r.SolutionMarkers = cfg.Markers.Solution
	}
	if len(cfg.Markers.Project) > 0 {
		r.ProjectMarkers = cfg.Markers.Project
	}
	if cfg.FallbackName != "" {
		r.FallbackName = cfg.FallbackName
	}
	return r
}

func (d *defaultZipService) ResolveName(cfg *config.Config, root string) (string, error) {
	return d.resolver(cfg).Resolve(root)
}

func (d *defaultZipService) Zip(ctx context.Context, cfg *config.Config, root, output string) (*zipper.Result, error) {
	z := zipper.New(d.fs, d.archiver, d.resolver(cfg), zipper.Options{
		Exclusions:   cfg.Exclusions,
		AbortOnError: cfg.AbortOnError,
	})
	if output == "" {
		return z.ZipDefault(ctx, root)
	}
	return z.Zip(ctx, root, output)
}
