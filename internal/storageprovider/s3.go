package storageprovider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"golang.org/x/sync/semaphore"

	"github.com/lumilio-gallery/manifest-builder/internal/builderrors"
	"github.com/lumilio-gallery/manifest-builder/internal/config"
	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
)

// S3Provider lists and fetches objects from an S3-compatible bucket,
// including vendor variants (Alibaba OSS's virtual-hosted form, a generic
// S3-compatible endpoint) per §4.A.
type S3Provider struct {
	client   *s3.Client
	cfg      config.S3Config
	exclude  *regexp.Regexp
	sem      *semaphore.Weighted
	thumbs   ThumbnailConfig
	timeouts fetchTimeouts
}

// NewS3Provider builds a client from cfg, resolving credentials and an
// optional custom endpoint the same way aws-sdk-go-v2's config loader does
// for any other S3-compatible deployment. timeoutSeconds is the configured
// performance.worker.timeout total budget for each Fetch (§4.A).
func NewS3Provider(ctx context.Context, cfg config.S3Config, thumbs ThumbnailConfig, timeoutSeconds int) (*S3Provider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", builderrors.ErrConfig, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.Endpoint != "" && !cfg.IsAlibaba
	})

	var exclude *regexp.Regexp
	if cfg.ExcludeRegex != "" {
		exclude, err = regexp.Compile(cfg.ExcludeRegex)
		if err != nil {
			return nil, fmt.Errorf("%w: excludeRegex: %v", builderrors.ErrConfig, err)
		}
	}

	concurrency := cfg.DownloadConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	return &S3Provider{
		client:   client,
		cfg:      cfg,
		exclude:  exclude,
		sem:      semaphore.NewWeighted(int64(concurrency)),
		thumbs:   thumbs,
		timeouts: newFetchTimeouts(timeoutSeconds),
	}, nil
}

// List enumerates the bucket under cfg.Prefix, applying the exclude regex
// and the hard object-count cap, and returns results in stable
// case-sensitive key order (§4.A).
func (p *S3Provider) List(ctx context.Context) ([]manifest.StorageObject, error) {
	var objects []manifest.StorageObject
	var continuationToken *string

	for {
		out, err := p.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(p.cfg.Bucket),
			Prefix:            aws.String(p.cfg.Prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: list s3://%s/%s: %v", builderrors.ErrListing, p.cfg.Bucket, p.cfg.Prefix, err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if p.exclude != nil && p.exclude.MatchString(key) {
				continue
			}
			lastModified := ""
			if obj.LastModified != nil {
				lastModified = obj.LastModified.UTC().Format(time.RFC3339)
			}
			objects = append(objects, manifest.StorageObject{
				Key:          key,
				Size:         aws.ToInt64(obj.Size),
				LastModified: lastModified,
				ETag:         strings.Trim(aws.ToString(obj.ETag), `"`),
			})
			if p.cfg.MaxFileLimit > 0 && len(objects) >= p.cfg.MaxFileLimit {
				sortObjects(objects)
				return objects, nil
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuationToken = out.NextContinuationToken
	}

	sortObjects(objects)
	return objects, nil
}

func sortObjects(objs []manifest.StorageObject) {
	sort.Slice(objs, func(i, j int) bool { return objs[i].Key < objs[j].Key })
}

// Fetch downloads key with retry/backoff up to cfg.MaxAttempts, bounded by
// the provider's download semaphore and the configured total/per-request/
// idle timeouts (§4.A).
func (p *S3Provider) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire download slot: %w", err)
	}
	defer p.sem.Release(1)

	ctx, cancelTotal := context.WithTimeout(ctx, p.timeouts.total)
	defer cancelTotal()

	maxAttempts := p.cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		body, err := p.fetchOnce(ctx, key)
		if err != nil {
			lastErr = err
			if !isRetryableS3Error(err) {
				break
			}
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("fetch s3://%s/%s after %d attempts: %w", p.cfg.Bucket, key, maxAttempts, lastErr)
}

// fetchOnce performs a single GetObject call under its own per-request
// deadline, streaming the body through an idle-reset reader so a connection
// that stalls mid-transfer aborts without waiting out the total timeout.
func (p *S3Provider) fetchOnce(ctx context.Context, key string) ([]byte, error) {
	reqCtx, cancelRequest := context.WithTimeout(ctx, p.timeouts.perRequest)
	defer cancelRequest()

	out, err := p.client.GetObject(reqCtx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	reader := newIdleResetReader(out.Body, p.timeouts.idle, cancelRequest)
	defer reader.stop()

	body, err := io.ReadAll(reader)
	if err != nil {
		if reqCtx.Err() != nil {
			return nil, reqCtx.Err()
		}
		return nil, err
	}
	return body, nil
}

// isRetryableS3Error reports false for API errors that will never succeed
// on retry (missing object, access denied), so Fetch fails fast instead of
// burning every backoff slot on an unrecoverable key.
func isRetryableS3Error(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "AccessDenied", "NoSuchBucket":
		return false
	default:
		return true
	}
}

// PublicURL implements the vendor URL-form table from §4.A: custom domain
// first, then Alibaba's scheme-host-bucket form, then a generic endpoint
// form, falling back to AWS's virtual-hosted-style URL.
func (p *S3Provider) PublicURL(key string) string {
	if p.cfg.CustomDomain != "" {
		return strings.TrimRight(p.cfg.CustomDomain, "/") + "/" + key
	}
	if p.cfg.Endpoint != "" {
		if p.cfg.IsAlibaba {
			scheme, host, ok := strings.Cut(p.cfg.Endpoint, "://")
			if ok {
				return scheme + "://" + p.cfg.Bucket + "." + host + "/" + key
			}
		}
		return strings.TrimRight(p.cfg.Endpoint, "/") + "/" + p.cfg.Bucket + "/" + key
	}
	region := p.cfg.Region
	if region == "" || region == "us-east-1" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", p.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, region, key)
}

func (p *S3Provider) ThumbnailURL(photoID string) string { return p.thumbs.url(photoID) }
func (p *S3Provider) ThumbnailExists(path string) bool   { return p.thumbs.exists(path) }
