package storageprovider

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lumilio-gallery/manifest-builder/internal/builderrors"
	"github.com/lumilio-gallery/manifest-builder/internal/config"
	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// ProgressFunc reports local-walk progress: the path currently visited and
// a running count of files scanned (§4.A).
type ProgressFunc func(currentPath string, filesScanned int)

// LocalProvider serves photos from a directory on disk, the same
// filepath.Join-rooted layout the teacher's LocalStorage uses for uploaded
// files, generalized here to a read-only recursive walk over a
// pre-populated library instead of a single saveFile call.
type LocalProvider struct {
	basePath string
	baseURL  string
	onProgress ProgressFunc
	thumbs   ThumbnailConfig
}

// NewLocalProvider resolves cfg.BasePath to an absolute path, creating it if
// absent, and returns a Provider that rejects any key resolving outside it.
// Local reads are plain disk I/O, not subject to the network total/
// per-request/idle timeout model §4.A defines for S3 and GitHub.
func NewLocalProvider(cfg config.LocalConfig, onProgress ProgressFunc, thumbs ThumbnailConfig) (*LocalProvider, error) {
	abs, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve basePath %s: %v", builderrors.ErrConfig, cfg.BasePath, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create basePath %s: %v", builderrors.ErrConfig, abs, err)
	}
	return &LocalProvider{basePath: abs, baseURL: cfg.BaseURL, onProgress: onProgress, thumbs: thumbs}, nil
}

// List walks basePath recursively, reporting progress through onProgress,
// and returns entries keyed by their basePath-relative slash path in stable
// case-sensitive order (§4.A).
func (p *LocalProvider) List(ctx context.Context) ([]manifest.StorageObject, error) {
	var objects []manifest.StorageObject
	scanned := 0

	err := filepath.WalkDir(p.basePath, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			return nil
		}
		scanned++
		if p.onProgress != nil {
			p.onProgress(walkPath, scanned)
		}
		rel, err := filepath.Rel(p.basePath, walkPath)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, manifest.StorageObject{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime().UTC().Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walk %s: %v", builderrors.ErrListing, p.basePath, err)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// resolve joins key onto basePath and rejects any result that escapes it,
// the path-traversal guard required by §4.A.
func (p *LocalProvider) resolve(key string) (string, error) {
	full := filepath.Join(p.basePath, filepath.FromSlash(key))
	rel, err := filepath.Rel(p.basePath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes storage root", key)
	}
	return full, nil
}

func (p *LocalProvider) Fetch(ctx context.Context, key string) ([]byte, error) {
	full, err := p.resolve(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", builderrors.ErrFetch, key, err)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", builderrors.ErrFetch, key, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", builderrors.ErrFetch, key, err)
	}
	return data, nil
}

func (p *LocalProvider) PublicURL(key string) string {
	if p.baseURL != "" {
		return strings.TrimRight(p.baseURL, "/") + "/" + key
	}
	return "/" + key
}

func (p *LocalProvider) ThumbnailURL(photoID string) string { return p.thumbs.url(photoID) }
func (p *LocalProvider) ThumbnailExists(path string) bool   { return p.thumbs.exists(path) }
