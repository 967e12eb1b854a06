package pipeline

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/lumilio-gallery/manifest-builder/internal/builderrors"
	"github.com/lumilio-gallery/manifest-builder/internal/exifselect"
	"github.com/lumilio-gallery/manifest-builder/internal/manifest"
	"github.com/lumilio-gallery/manifest-builder/internal/storageprovider"
)

// Options configures a Pipeline, mirroring the subset of config.Config the
// per-photo steps need.
type Options struct {
	OutputDir       string
	KeyPrefix       string
	ThumbnailEdge   int
	ThumbnailQuality int
	Force           bool
	ForceManifest   bool
	ForceThumbnails bool
}

// Pipeline runs the ten steps of §4.E for a single storage object.
type Pipeline struct {
	storage  storageprovider.Provider
	opts     Options
	livePhotos manifest.LivePhotoMap
	prior    map[string]manifest.PhotoManifestItem
}

// New builds a Pipeline. prior and livePhotos are read-only for the
// Pipeline's lifetime (§5).
func New(storage storageprovider.Provider, opts Options, livePhotos manifest.LivePhotoMap, prior map[string]manifest.PhotoManifestItem) *Pipeline {
	return &Pipeline{storage: storage, opts: opts, livePhotos: livePhotos, prior: prior}
}

var dateToken = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
var viewsToken = regexp.MustCompile(`(?i)[-_ ]?\d+[-_ ]?views?`)

// Process runs the full pipeline for one storage object and returns its
// manifest.Result. It never returns a Go error for per-photo failures;
// those are reported through Result.Err with Result.Type == ProcessFailed
// (§7).
func (p *Pipeline) Process(ctx context.Context, obj manifest.StorageObject) manifest.Result {
	id := manifest.PhotoID(obj.Key, 0)
	priorItem, hadPrior := p.prior[obj.Key]

	raw, err := p.storage.Fetch(ctx, obj.Key)
	if err != nil {
		return fail(obj.Key, fmt.Errorf("%w: %s: %v", builderrors.ErrFetch, obj.Key, err))
	}

	normalized, err := normalize(raw)
	if err != nil {
		return fail(obj.Key, fmt.Errorf("%w: normalize %s: %v", builderrors.ErrDecode, obj.Key, err))
	}
	normalized, err = autoOrient(normalized)
	if err != nil {
		return fail(obj.Key, fmt.Errorf("%w: orient %s: %v", builderrors.ErrDecode, obj.Key, err))
	}

	h, err := newHandle(normalized)
	if err != nil {
		return fail(obj.Key, fmt.Errorf("%w: %s: %v", builderrors.ErrDecode, obj.Key, err))
	}

	thumbPath := filepath.Join(p.opts.OutputDir, "thumbnails", id+".webp")
	var thumbHash *string
	reuseThumb := hadPrior && priorItem.ThumbHash != nil && !p.opts.Force && !p.opts.ForceThumbnails && p.storage.ThumbnailExists(thumbPath)
	if reuseThumb {
		thumbHash = priorItem.ThumbHash
	} else {
		if err := writeThumbnail(h, thumbPath, p.opts.ThumbnailEdge, p.opts.ThumbnailQuality); err != nil {
			return fail(obj.Key, fmt.Errorf("%w: thumbnail %s: %v", builderrors.ErrWrite, obj.Key, err))
		}
		hashVal, err := encodeThumbHash(h)
		if err != nil {
			return fail(obj.Key, fmt.Errorf("%w: thumbhash %s: %v", builderrors.ErrDecode, obj.Key, err))
		}
		thumbHash = &hashVal
	}

	var exif *manifest.ExifSelection
	reuseExif := hadPrior && priorItem.Exif != nil && !p.opts.Force && !p.opts.ForceManifest
	if reuseExif {
		exif = priorItem.Exif
	} else {
		exif, err = exifselect.Extract(normalized)
		if err != nil {
			exif = nil // ErrExif is a warning, never a photo failure (§7)
		}
		if exif == nil && looksLikeHEIF(raw) {
			if fallback, ferr := exifselect.Extract(raw); ferr == nil {
				exif = fallback
			}
		}
	}

	var tone *manifest.ToneAnalysis
	reuseTone := hadPrior && priorItem.ToneAnalysis != nil && !p.opts.Force && !p.opts.ForceManifest
	if reuseTone {
		tone = priorItem.ToneAnalysis
	} else {
		tone, err = analyzeTone(h)
		if err != nil {
			tone = nil
		}
	}

	title, dateTaken := derivePhotoInfoTitleAndDate(obj.Key, exif)
	if dateTaken == "" {
		dateTaken = time.Now().UTC().Format("2006-01-02T15:04:05Z")
	}
	tags := deriveTags(relativeKey(obj.Key, p.opts.KeyPrefix))
	equipmentTags := deriveEquipmentTags(exif)

	item := &manifest.PhotoManifestItem{
		ID:            id,
		Title:         title,
		Description:   "",
		DateTaken:     dateTaken,
		Tags:          tags,
		EquipmentTags: equipmentTags,
		OriginalURL:   p.storage.PublicURL(obj.Key),
		ThumbnailURL:  p.storage.ThumbnailURL(id),
		ThumbHash:     thumbHash,
		Width:         h.width,
		Height:        h.height,
		AspectRatio:   h.aspectRatio(),
		S3Key:         obj.Key,
		LastModified:  obj.LastModified,
		Size:          obj.Size,
		Exif:          exif,
		ToneAnalysis:  tone,
	}

	if pair, ok := p.livePhotos[obj.Key]; ok {
		item.IsLivePhoto = true
		item.LivePhotoVideoS3Key = pair.Key
		item.LivePhotoVideoURL = p.storage.PublicURL(pair.Key)
	}

	if exif != nil && exif.MPImageType == "Gain Map Image" {
		item.IsHDR = true
	}

	resultType := manifest.ProcessNew
	if hadPrior {
		if reuseThumb && reuseExif && reuseTone {
			resultType = manifest.ProcessSkipped
		} else {
			resultType = manifest.ProcessProcessed
		}
	}

	return manifest.Result{Item: item, Type: resultType, Key: obj.Key}
}

func fail(key string, err error) manifest.Result {
	return manifest.Result{Type: manifest.ProcessFailed, Key: key, Err: err}
}

func looksLikeHEIF(raw []byte) bool {
	if len(raw) < 12 {
		return false
	}
	brand := string(raw[8:12])
	return strings.HasPrefix(brand, "heic") || strings.HasPrefix(brand, "heix") ||
		strings.HasPrefix(brand, "mif1") || strings.HasPrefix(brand, "hevc")
}

func relativeKey(key, prefix string) string {
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/")
}

// derivePhotoInfoTitleAndDate implements §4.E step 7's title/date rules:
// title from the filename with date and "views" count tokens stripped;
// dateTaken from EXIF DateTimeOriginal, else a YYYY-MM-DD token in the
// filename, else "" (Process then substitutes the current wall-clock time).
func derivePhotoInfoTitleAndDate(key string, exif *manifest.ExifSelection) (title, dateTaken string) {
	base := path.Base(key)
	stem := strings.TrimSuffix(base, path.Ext(base))
	cleanStem := viewsToken.ReplaceAllString(stem, "")
	cleanStem = dateToken.ReplaceAllString(cleanStem, "")
	cleanStem = strings.Trim(strings.ReplaceAll(strings.ReplaceAll(cleanStem, "_", " "), "-", " "), " ")
	if cleanStem == "" {
		cleanStem = stem
	}
	title = titleCase(cleanStem)

	if exif != nil && exif.DateTimeOriginal != "" {
		dateTaken = exif.DateTimeOriginal
	} else if m := dateToken.FindString(stem); m != "" {
		dateTaken = m + "T00:00:00Z"
	}
	return title, dateTaken
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
