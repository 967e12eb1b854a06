// Package builder wires the manifest builder's components into one
// explicit Builder value constructed at program entry (§9 — replaces the
// teacher's defaultBuilder singleton pattern with an explicit value passed
// down through the call chain, never a package-level global).
package builder

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/lumilio-gallery/manifest-builder/internal/aggregator"
	"github.com/lumilio-gallery/manifest-builder/internal/config"
	"github.com/lumilio-gallery/manifest-builder/internal/gate"
	"github.com/lumilio-gallery/manifest-builder/internal/gitsync"
	"github.com/lumilio-gallery/manifest-builder/internal/livephoto"
	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
	"github.com/lumilio-gallery/manifest-builder/internal/manifeststore"
	"github.com/lumilio-gallery/manifest-builder/internal/orchestrator"
	"github.com/lumilio-gallery/manifest-builder/internal/pipeline"
	"github.com/lumilio-gallery/manifest-builder/internal/storageprovider"
)

// Builder owns every component needed to run one manifest build (§9).
type Builder struct {
	cfg     config.Config
	log     *zap.Logger
	storage storageprovider.Provider
}

// New constructs a Builder from the effective config, building the
// storage provider for the configured variant (§4.A) and wiring the
// thumbnail path/URL base shared by every provider.
func New(cfg config.Config, log *zap.Logger) (*Builder, error) {
	thumbDir := filepath.Join(cfg.OutputDir, "thumbnails")
	thumbs := storageprovider.ThumbnailConfig{BaseURL: "/thumbnails", LocalDir: thumbDir}
	timeout := cfg.Performance.Worker.TimeoutSeconds

	var provider storageprovider.Provider
	var err error
	switch cfg.Storage.Kind {
	case config.StorageS3:
		provider, err = storageprovider.NewS3Provider(context.Background(), cfg.Storage.S3, thumbs, timeout)
	case config.StorageGitHub:
		provider = storageprovider.NewGitHubProvider(cfg.Storage.GitHub, thumbs, timeout)
	case config.StorageLocal:
		provider, err = storageprovider.NewLocalProvider(cfg.Storage.Local, func(path string, n int) {
			if cfg.Options.ShowProgress && n%500 == 0 {
				log.Debug("scanning local storage", zap.String("path", path), zap.Int("filesScanned", n))
			}
		}, thumbs)
	default:
		return nil, fmt.Errorf("unsupported storage kind %q", cfg.Storage.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &Builder{cfg: cfg, log: log, storage: provider}, nil
}

// Run executes one complete build: sync, list, decide, dispatch, merge,
// save, publish (§4 end to end).
func (b *Builder) Run(ctx context.Context) (manifest.Stats, error) {
	start := time.Now()

	if err := gitsync.Sync(b.cfg.Repo, b.cfg.OutputDir); err != nil {
		return manifest.Stats{}, fmt.Errorf("sync assets repo: %w", err)
	}

	objects, err := b.storage.List(ctx)
	if err != nil {
		return manifest.Stats{}, err
	}
	b.log.Info("listed storage objects", zap.Int("count", len(objects)))

	manifestPath := manifeststore.Path(b.cfg.OutputDir)
	prior := manifeststore.Load(manifestPath)
	priorByKey := make(map[string]manifest.PhotoManifestItem, len(prior.Data))
	for _, item := range prior.Data {
		priorByKey[item.S3Key] = item
	}

	var livePhotos manifest.LivePhotoMap
	if b.cfg.Options.EnableLivePhotoDetection {
		livePhotos = livephoto.Detect(objects)
	}

	flags := gate.Flags{Force: b.cfg.Flags.Force, ForceManifest: b.cfg.Flags.ForceManifest, ForceThumbnails: b.cfg.Flags.ForceThumbnails}
	thumbDir := filepath.Join(b.cfg.OutputDir, "thumbnails")

	var toProcess []manifest.StorageObject
	for _, obj := range objects {
		if isMotionFile(obj.Key, livePhotos) {
			continue
		}
		var priorPtr *manifest.PhotoManifestItem
		if p, ok := priorByKey[obj.Key]; ok {
			priorPtr = &p
		}
		id := manifest.PhotoID(obj.Key, b.cfg.Options.DigestSuffixLength)
		thumbPath := filepath.Join(thumbDir, id+".webp")
		should, reason := gate.Decide(priorPtr, obj, flags, b.storage.ThumbnailExists(thumbPath))
		if should {
			toProcess = append(toProcess, obj)
		}
		b.log.Debug("gate decision", zap.String("key", obj.Key), zap.Bool("process", should), zap.String("reason", string(reason)))
	}

	// Large-first dispatch order to reduce tail latency (§4.D).
	sort.SliceStable(toProcess, func(i, j int) bool { return toProcess[i].Size > toProcess[j].Size })

	pipelineOpts := pipeline.Options{
		OutputDir:        b.cfg.OutputDir,
		KeyPrefix:        KeyPrefix(b.cfg.Storage),
		ThumbnailEdge:    b.cfg.Options.ThumbnailEdge,
		ThumbnailQuality: b.cfg.Options.ThumbnailQuality,
		Force:            b.cfg.Flags.Force,
		ForceManifest:    b.cfg.Flags.ForceManifest,
		ForceThumbnails:  b.cfg.Flags.ForceThumbnails,
	}
	p := pipeline.New(b.storage, pipelineOpts, livePhotos, priorByKey)
	process := func(ctx context.Context, obj manifest.StorageObject) manifest.Result {
		return p.Process(ctx, obj)
	}

	workerCount := b.cfg.Performance.Worker.WorkerCount
	if workerCount <= 0 {
		workerCount = defaultWorkerCount()
	}

	var progress orchestrator.ProgressFunc
	if b.cfg.Options.ShowProgress {
		progress = func(completed, total int) {
			b.log.Info("progress", zap.Int("completed", completed), zap.Int("total", total))
		}
	}

	var results []manifest.Result
	if b.cfg.Performance.Worker.UseClusterMode && len(toProcess) >= 2*workerCount {
		extraEnv := clusterEnv(b.cfg.Flags)
		results, err = orchestrator.RunProcessPool(ctx, toProcess, workerCount, b.cfg.Performance.Worker.WorkerConcurrency, extraEnv, progress)
		if err != nil {
			return manifest.Stats{}, fmt.Errorf("process-pool run: %w", err)
		}
	} else {
		results = orchestrator.RunThreadPool(ctx, toProcess, workerCount, process, progress)
	}

	liveKeys := make([]string, 0, len(objects))
	for _, obj := range objects {
		if !isMotionFile(obj.Key, livePhotos) {
			liveKeys = append(liveKeys, obj.Key)
		}
	}

	agg := aggregator.New(prior.Data, thumbDir)
	finalManifest, stats, err := agg.Merge(results, liveKeys)
	if err != nil {
		return manifest.Stats{}, fmt.Errorf("merge results: %w", err)
	}

	if err := manifeststore.Save(manifestPath, finalManifest); err != nil {
		return manifest.Stats{}, err
	}

	if err := gitsync.Publish(b.cfg.Repo, stats.HasUpdates); err != nil {
		return manifest.Stats{}, fmt.Errorf("publish assets repo: %w", err)
	}

	b.log.Info("build complete",
		zap.Int("new", stats.New), zap.Int("processed", stats.Processed),
		zap.Int("skipped", stats.Skipped), zap.Int("failed", stats.Failed),
		zap.Int("deleted", stats.Deleted), zap.Duration("duration", time.Since(start)))

	return stats, nil
}

// KeyPrefix returns the configured storage variant's key prefix so tag
// derivation strips it before turning remaining path segments into tags
// (§4.E step 7). Local storage has no prefix concept: its keys are already
// relative to basePath.
func KeyPrefix(storage config.StorageConfig) string {
	switch storage.Kind {
	case config.StorageS3:
		return storage.S3.Prefix
	case config.StorageGitHub:
		return storage.GitHub.Path
	default:
		return ""
	}
}

func isMotionFile(key string, livePhotos manifest.LivePhotoMap) bool {
	for _, pair := range livePhotos {
		if pair.Key == key {
			return true
		}
	}
	return false
}

func clusterEnv(flags config.Flags) []string {
	var env []string
	if flags.Force {
		env = append(env, "FORCE_MODE=true")
	}
	if flags.ForceManifest {
		env = append(env, "FORCE_MANIFEST=true")
	}
	if flags.ForceThumbnails {
		env = append(env, "FORCE_THUMBNAILS=true")
	}
	return env
}
