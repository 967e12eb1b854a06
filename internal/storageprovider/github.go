package storageprovider

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v59/github"
	"golang.org/x/oauth2"

	"github.com/lumilio-gallery/manifest-builder/internal/builderrors"
	"github.com/lumilio-gallery/manifest-builder/internal/config"
	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// GitHubProvider lists and fetches photo files from a GitHub repository
// path, for libraries hosted as a plain git repo of images rather than a
// bucket (§4.A).
type GitHubProvider struct {
	client  *github.Client
	cfg     config.GitHubConfig
	thumbs  ThumbnailConfig
	timeout time.Duration
}

// NewGitHubProvider builds a client, wrapping the HTTP transport with an
// oauth2 static token source when provided to lift GitHub's anonymous rate
// limit. timeoutSeconds bounds each Fetch; List's directory walk runs under
// the caller's context only (§4.A).
func NewGitHubProvider(cfg config.GitHubConfig, thumbs ThumbnailConfig, timeoutSeconds int) *GitHubProvider {
	httpClient := http.DefaultClient
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	return &GitHubProvider{
		client:  github.NewClient(httpClient),
		cfg:     cfg,
		thumbs:  thumbs,
		timeout: newFetchTimeouts(timeoutSeconds).total,
	}
}

// List recursively walks cfg.Path via the repository contents API and
// returns entries in stable case-sensitive key order (§4.A).
func (p *GitHubProvider) List(ctx context.Context) ([]manifest.StorageObject, error) {
	var objects []manifest.StorageObject
	if err := p.walk(ctx, p.cfg.Path, &objects); err != nil {
		return nil, fmt.Errorf("%w: list github %s/%s: %v", builderrors.ErrListing, p.cfg.Owner, p.cfg.Repo, err)
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (p *GitHubProvider) walk(ctx context.Context, dir string, objects *[]manifest.StorageObject) error {
	_, entries, _, err := p.client.Repositories.GetContents(ctx, p.cfg.Owner, p.cfg.Repo, dir, &github.RepositoryContentGetOptions{
		Ref: p.cfg.Branch,
	})
	if err != nil {
		return err
	}
	for _, entry := range entries {
		switch entry.GetType() {
		case "dir":
			if err := p.walk(ctx, entry.GetPath(), objects); err != nil {
				return err
			}
		case "file":
			*objects = append(*objects, manifest.StorageObject{
				Key:  entry.GetPath(),
				Size: int64(entry.GetSize()),
				ETag: entry.GetSHA(),
			})
		}
	}
	return nil
}

// Fetch downloads a single file's content via the contents API, decoding
// the base64 body GitHub returns for files under its inline-content size
// threshold, and falling back to the raw download URL above that.
func (p *GitHubProvider) Fetch(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	content, _, _, err := p.client.Repositories.GetContents(ctx, p.cfg.Owner, p.cfg.Repo, key, &github.RepositoryContentGetOptions{
		Ref: p.cfg.Branch,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", builderrors.ErrFetch, key, err)
	}
	if content.GetContent() != "" {
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.GetContent(), "\n", ""))
		if err == nil {
			return data, nil
		}
	}
	rc, _, err := p.client.Repositories.DownloadContents(ctx, p.cfg.Owner, p.cfg.Repo, key, &github.RepositoryContentGetOptions{
		Ref: p.cfg.Branch,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: download: %v", builderrors.ErrFetch, key, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read download: %v", builderrors.ErrFetch, key, err)
	}
	return data, nil
}

// PublicURL resolves to the raw.githubusercontent.com URL when UseRawCDN is
// set, otherwise the regular GitHub blob URL.
func (p *GitHubProvider) PublicURL(key string) string {
	branch := p.cfg.Branch
	if branch == "" {
		branch = "main"
	}
	if p.cfg.UseRawCDN {
		return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", p.cfg.Owner, p.cfg.Repo, branch, key)
	}
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s?raw=true", p.cfg.Owner, p.cfg.Repo, branch, key)
}

func (p *GitHubProvider) ThumbnailURL(photoID string) string { return p.thumbs.url(photoID) }
func (p *GitHubProvider) ThumbnailExists(path string) bool   { return p.thumbs.exists(path) }
