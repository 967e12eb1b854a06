// Command manifest-builder derives an incremental photo-gallery manifest
// from a configured storage backend (§1, §6). Entry point only: all
// behavior lives in internal/builder and its collaborators, wired here
// through an explicit *builder.Builder rather than a package-level
// singleton (§9).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumilio-gallery/manifest-builder/internal/builder"
	"github.com/lumilio-gallery/manifest-builder/internal/config"
	"github.com/lumilio-gallery/manifest-builder/internal/livephoto"
	"github.com/lumilio-gallery/manifest-builder/internal/logging"
	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
	"github.com/lumilio-gallery/manifest-builder/internal/manifeststore"
	"github.com/lumilio-gallery/manifest-builder/internal/orchestrator"
	"github.com/lumilio-gallery/manifest-builder/internal/pipeline"
	"github.com/lumilio-gallery/manifest-builder/internal/storageprovider"
)

var configPath string

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var showConfig bool

	cmd := &cobra.Command{
		Use:   "manifest-builder",
		Short: "Build the incremental photo-gallery manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if showConfig {
				dump, err := config.Dump(cfg)
				if err != nil {
					return err
				}
				fmt.Println(dump)
				return nil
			}

			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("%w", err)
			}

			log, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			defer log.Sync()

			if isWorker, _ := config.IsClusterWorker(); isWorker {
				return runWorker(cfg)
			}
			return runBuild(cfg, log)
		},
	}

	cmd.Flags().StringVar(&configPath, "config-file", "", "path to a YAML config file")
	cmd.Flags().Bool("force", false, "reprocess everything")
	cmd.Flags().Bool("force-manifest", false, "re-derive EXIF/tone even if thumbnails exist")
	cmd.Flags().Bool("force-thumbnails", false, "regenerate thumbnails and hashes")
	cmd.Flags().BoolVar(&showConfig, "config", false, "print effective configuration and exit")

	return cmd
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Defaults()
	path := configPath
	if path == "" {
		path = "./manifest-builder.yaml"
	}
	cfg, err := config.LoadFile(cfg, path)
	if err != nil {
		return cfg, err
	}
	cfg = config.ApplyEnv(cfg)

	if v, _ := cmd.Flags().GetBool("force"); v {
		cfg.Flags.Force = true
	}
	if v, _ := cmd.Flags().GetBool("force-manifest"); v {
		cfg.Flags.ForceManifest = true
	}
	if v, _ := cmd.Flags().GetBool("force-thumbnails"); v {
		cfg.Flags.ForceThumbnails = true
	}

	return cfg, nil
}

func runBuild(cfg config.Config, log *zap.Logger) error {
	b, err := builder.New(cfg, log)
	if err != nil {
		return err
	}
	stats, err := b.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("new=%d processed=%d skipped=%d failed=%d deleted=%d\n",
		stats.New, stats.Processed, stats.Skipped, stats.Failed, stats.Deleted)
	if stats.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

// runWorker is the process-pool child entry point. It mirrors builder.Run's
// setup: list objects once, rebuild the live-photo map, and load the prior
// manifest, so the pipeline this child runs can reuse thumbnails/EXIF/tone
// exactly as a thread-pool run would (§4.F, §9).
func runWorker(cfg config.Config) error {
	thumbs := storageprovider.ThumbnailConfig{BaseURL: "/thumbnails", LocalDir: cfg.OutputDir + "/thumbnails"}
	provider, err := newProviderForWorker(cfg, thumbs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	objects, err := provider.List(ctx)
	if err != nil {
		return err
	}
	byKey := make(map[string]manifest.StorageObject, len(objects))
	for _, obj := range objects {
		byKey[obj.Key] = obj
	}

	var livePhotos manifest.LivePhotoMap
	if cfg.Options.EnableLivePhotoDetection {
		livePhotos = livephoto.Detect(objects)
	}

	prior := manifeststore.Load(manifeststore.Path(cfg.OutputDir))
	priorByKey := make(map[string]manifest.PhotoManifestItem, len(prior.Data))
	for _, item := range prior.Data {
		priorByKey[item.S3Key] = item
	}

	p := pipeline.New(provider, pipeline.Options{
		OutputDir:        cfg.OutputDir,
		KeyPrefix:        builder.KeyPrefix(cfg.Storage),
		ThumbnailEdge:    cfg.Options.ThumbnailEdge,
		ThumbnailQuality: cfg.Options.ThumbnailQuality,
		Force:            cfg.Flags.Force,
		ForceManifest:    cfg.Flags.ForceManifest,
		ForceThumbnails:  cfg.Flags.ForceThumbnails,
	}, livePhotos, priorByKey)

	process := func(ctx context.Context, obj manifest.StorageObject) manifest.Result {
		return p.Process(ctx, obj)
	}
	lookup := func(key string) (manifest.StorageObject, bool) {
		obj, ok := byKey[key]
		return obj, ok
	}
	return orchestrator.WorkerLoop(ctx, lookup, process, cfg.Performance.Worker.WorkerConcurrency)
}

func newProviderForWorker(cfg config.Config, thumbs storageprovider.ThumbnailConfig) (storageprovider.Provider, error) {
	timeout := cfg.Performance.Worker.TimeoutSeconds
	switch cfg.Storage.Kind {
	case config.StorageS3:
		return storageprovider.NewS3Provider(context.Background(), cfg.Storage.S3, thumbs, timeout)
	case config.StorageGitHub:
		return storageprovider.NewGitHubProvider(cfg.Storage.GitHub, thumbs, timeout), nil
	case config.StorageLocal:
		return storageprovider.NewLocalProvider(cfg.Storage.Local, nil, thumbs)
	default:
		return nil, fmt.Errorf("unsupported storage kind %q", cfg.Storage.Kind)
	}
}
