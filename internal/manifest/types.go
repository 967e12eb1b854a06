// Package manifest defines the data types persisted in photos-manifest.json
// and the in-memory records passed between the builder's components.
package manifest

import "encoding/json"

// StorageObject is an opaque file reference returned by a storage provider
// listing. It is immutable for the lifetime of a run.
type StorageObject struct {
	Key          string
	Size         int64
	LastModified string // RFC3339; empty if the provider cannot report one
	ETag         string
}

// FujiRecipe captures Fujifilm film-simulation maker-note fields. Populated
// only when the corresponding maker-note marker is present.
type FujiRecipe struct {
	FilmSimulation    string `json:"filmSimulation,omitempty"`
	DynamicRange      string `json:"dynamicRange,omitempty"`
	WhiteBalance      string `json:"whiteBalance,omitempty"`
	HighlightTone     string `json:"highlightTone,omitempty"`
	ShadowTone        string `json:"shadowTone,omitempty"`
	Color             string `json:"color,omitempty"`
	Sharpness         string `json:"sharpness,omitempty"`
	NoiseReduction    string `json:"noiseReduction,omitempty"`
	GrainEffect       string `json:"grainEffect,omitempty"`
	ColorChromeEffect string `json:"colorChromeEffect,omitempty"`
}

// SonyRecipe captures Sony picture-profile / creative-style maker-note fields.
type SonyRecipe struct {
	CreativeStyle  string `json:"creativeStyle,omitempty"`
	PictureProfile string `json:"pictureProfile,omitempty"`
	Contrast       string `json:"contrast,omitempty"`
	Saturation     string `json:"saturation,omitempty"`
	Sharpness      string `json:"sharpness,omitempty"`
}

// GPSCoordinate is a single GPS axis with its EXIF reference letter.
type GPSCoordinate struct {
	Value float64 `json:"value"`
	Ref   string  `json:"ref,omitempty"`
}

// ExifSelection is the fixed projection of EXIF tags the gallery needs.
// The whole record is nil only when no EXIF segment could be parsed at all;
// individual fields are nil/zero when that specific tag is absent.
type ExifSelection struct {
	CameraMake          string      `json:"cameraMake,omitempty"`
	CameraModel         string      `json:"cameraModel,omitempty"`
	LensMake            string      `json:"lensMake,omitempty"`
	LensModel           string      `json:"lensModel,omitempty"`
	ExposureTime        string      `json:"exposureTime,omitempty"`
	FNumber             float64     `json:"fNumber,omitempty"`
	ISO                 int         `json:"iso,omitempty"`
	FocalLength         float64     `json:"focalLength,omitempty"`
	FocalLength35mm     float64     `json:"focalLength35mm,omitempty"`
	DateTimeOriginal    string      `json:"dateTimeOriginal,omitempty"`
	Orientation         int         `json:"orientation,omitempty"`
	GPSLatitude         *GPSCoordinate `json:"gpsLatitude,omitempty"`
	GPSLongitude        *GPSCoordinate `json:"gpsLongitude,omitempty"`
	GPSAltitude         *GPSCoordinate `json:"gpsAltitude,omitempty"`
	WhiteBalance        string      `json:"whiteBalance,omitempty"`
	MPImageType         string      `json:"mpImageType,omitempty"`
	Fuji                *FujiRecipe `json:"fuji,omitempty"`
	Sony                *SonyRecipe `json:"sony,omitempty"`
}

// ToneAnalysis is a deterministic classification of an image's luminance
// histogram, used for placeholder styling in the gallery frontend.
type ToneAnalysis struct {
	Tag             string  `json:"tag"`
	MeanLuminance   float64 `json:"meanLuminance"`
	DarkFraction    float64 `json:"darkFraction"`
	BrightFraction  float64 `json:"brightFraction"`
	ContrastScore   float64 `json:"contrastScore"`
}

// PhotoManifestItem is the per-photo record persisted to the manifest.
type PhotoManifestItem struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	DateTaken      string  `json:"dateTaken"`
	Tags           []string `json:"tags"`
	EquipmentTags  []string `json:"equipmentTags"`
	OriginalURL    string  `json:"originalUrl"`
	ThumbnailURL   string  `json:"thumbnailUrl"`
	ThumbHash      *string `json:"thumbHash"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	AspectRatio    float64 `json:"aspectRatio"`
	S3Key          string  `json:"s3Key"`
	LastModified   string  `json:"lastModified"`
	Size           int64   `json:"size"`
	Exif           *ExifSelection `json:"exif"`
	ToneAnalysis   *ToneAnalysis  `json:"toneAnalysis"`
	IsLivePhoto    bool    `json:"isLivePhoto"`
	LivePhotoVideoURL    string `json:"livePhotoVideoUrl,omitempty"`
	LivePhotoVideoS3Key  string `json:"livePhotoVideoS3Key,omitempty"`
	IsHDR          bool    `json:"isHDR"`
}

// CameraInfo is a deduplicated camera entry shown in the gallery's filter UI.
type CameraInfo struct {
	Make        string `json:"make,omitempty"`
	Model       string `json:"model,omitempty"`
	DisplayName string `json:"displayName"`
}

// LensInfo is a deduplicated lens entry shown in the gallery's filter UI.
type LensInfo struct {
	Make        string `json:"make,omitempty"`
	Model       string `json:"model,omitempty"`
	DisplayName string `json:"displayName"`
}

// CurrentVersion is the manifest schema version this builder writes. A prior
// manifest observed with a lower version is treated as empty (§3).
const CurrentVersion = "2"

// Manifest is the top-level JSON document written to photos-manifest.json.
// Extra holds any top-level key this builder doesn't recognize: preserved
// on read for callers that want to inspect it, but never re-serialized by
// Save (§6).
type Manifest struct {
	Version string              `json:"version"`
	Data    []PhotoManifestItem `json:"data"`
	Cameras []CameraInfo        `json:"cameras"`
	Lenses  []LensInfo          `json:"lenses"`
	Extra   map[string]json.RawMessage `json:"-"`
}

// knownManifestKeys mirrors Manifest's JSON-tagged fields so UnmarshalJSON
// can separate recognized keys from everything else it sweeps into Extra.
var knownManifestKeys = map[string]bool{
	"version": true, "data": true, "cameras": true, "lenses": true,
}

// UnmarshalJSON decodes the recognized fields normally and collects every
// other top-level key into Extra (§6 "unknown top-level keys are preserved
// on read but not written").
func (m *Manifest) UnmarshalJSON(data []byte) error {
	type alias Manifest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Manifest(a)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if knownManifestKeys[k] {
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]json.RawMessage)
		}
		m.Extra[k] = v
	}
	return nil
}

// LivePhotoMap maps a still image's storage key to its paired motion file.
// Built once per run and read-only thereafter.
type LivePhotoMap map[string]StorageObject

// ProcessType classifies the outcome of processing a single photo.
type ProcessType string

const (
	ProcessNew       ProcessType = "new"
	ProcessProcessed ProcessType = "processed"
	ProcessSkipped   ProcessType = "skipped"
	ProcessFailed    ProcessType = "failed"
)

// Result is what the pipeline (and, through it, the orchestrator) returns
// for a single task.
type Result struct {
	Item  *PhotoManifestItem
	Type  ProcessType
	Key   string
	Err   error
}

// Stats summarizes a run for the final CLI report (§7).
type Stats struct {
	New       int
	Processed int
	Skipped   int
	Failed    int
	Deleted   int
	HasUpdates bool
}
