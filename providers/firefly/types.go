package firefly

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type VideoSize struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	NumFrames int `json:"numFrames"`
}

// PublicBinary references a stored asset.
type PublicBinary struct {
	CreativeCloudFileID string `json:"creativeCloudFileId,omitempty"`
	ID                  string `json:"id,omitempty"`
	Name                string `json:"name,omitempty"`
	PresignedURL        string `json:"presignedUrl,omitempty"`
}

type PhotoSettings struct {
	Aperture     float64 `json:"aperture"`
	FieldOfView  float64 `json:"fieldOfView"`
	ShutterSpeed float64 `json:"shutterSpeed"`
}

type Styles struct {
	Presets        []string      `json:"presets,omitempty"`
	ReferenceImage *PublicBinary `json:"referenceImage,omitempty"`
	Strength       *float64      `json:"strength,omitempty"`
}

// Content classes.
const (
	ContentPhoto  = "photo"
	ContentArt    = "art"
	ContentVector = "vector"
	ContentRaw    = "raw"
)

// Detail levels and model versions.
const (
	DetailFull      = "full"
	DetailPreview   = "preview"
	ModelImage3     = "image3"
	ModelImage3Fast = "image3_fast"
)

type ReferenceControl struct {
	AdherenceThresholdOverride *float64     `json:"adherenceThresholdOverride,omitempty"`
	Mode                       string       `json:"mode,omitempty"`
	ReferenceImage             PublicBinary `json:"referenceImage"`
}

type ControlData struct {
	AdherenceThreshold *float64          `json:"adherenceThreshold,omitempty"`
	CannyData          *ReferenceControl `json:"cannyData,omitempty"`
	DepthData          *ReferenceControl `json:"depthData,omitempty"`
	EntityData         *ReferenceControl `json:"entityData,omitempty"`
	HedData            *ReferenceControl `json:"hedData,omitempty"`
}

type EditData struct {
	GuideImage    *PublicBinary `json:"guideImage,omitempty"`
	GuideStrength *float64      `json:"guideStrength,omitempty"`
	MaskImage     *PublicBinary `json:"maskImage,omitempty"`
	MaskStrength  *float64      `json:"maskStrength,omitempty"`
}

type Layout struct {
	Depth       float64 `json:"depth"`
	MajorRadius float64 `json:"majorRadius"`
	MinorRadius float64 `json:"minorRadius"`
	Orientation float64 `json:"orientation"`
	Prompt      string  `json:"prompt"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// GenerateOptions covers all image generate versions. ControlData and
// EditData are v3 fields; RawMode and Layouts are v4 fields.
type GenerateOptions struct {
	Seeds           []int64        `json:"seeds,omitempty"`
	Size            *Size          `json:"size,omitempty"`
	NegativePrompt  string         `json:"negativePrompt,omitempty"`
	ContentClass    string         `json:"contentClass,omitempty"`
	VisualIntensity *float64       `json:"visualIntensity,omitempty"`
	PhotoSettings   *PhotoSettings `json:"photoSettings,omitempty"`
	Styles          *Styles        `json:"styles,omitempty"`
	Locale          string         `json:"locale,omitempty"`
	Tileable        *bool          `json:"tileable,omitempty"`
	DreamValue      *float64       `json:"dreamValue,omitempty"`
	ModelVersion    string         `json:"modelVersion,omitempty"`
	DetailLevel     string         `json:"detailLevel,omitempty"`

	ControlData *ControlData `json:"controlData,omitempty"`
	EditData    *EditData    `json:"editData,omitempty"`

	RawMode *bool    `json:"rawMode,omitempty"`
	Layouts []Layout `json:"layouts,omitempty"`
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	GenerateOptions
}

type Output struct {
	Seed  int64        `json:"seed"`
	Image PublicBinary `json:"image"`
}

type GenerateResponse struct {
	DiffusionMP4            *PublicBinary  `json:"diffusionMp4,omitempty"`
	Outputs                 []Output       `json:"outputs"`
	PredictedContentClass   string         `json:"predictedContentClass,omitempty"`
	PredictedPhotoSettings  *PhotoSettings `json:"predictedPhotoSettings,omitempty"`
	PredictedVectorType     string         `json:"predictedVectorType,omitempty"`
	PromptHasBlockedArtists bool           `json:"promptHasBlockedArtists,omitempty"`
	PromptHasDeniedWords    bool           `json:"promptHasDeniedWords,omitempty"`
	Size                    Size           `json:"size"`
	Version                 string         `json:"version"`
}

type BatchImageRequest struct {
	Prompt          string         `json:"prompt"`
	ContentClass    string         `json:"contentClass,omitempty"`
	ControlData     *ControlData   `json:"controlData,omitempty"`
	DreamValue      *float64       `json:"dreamValue,omitempty"`
	EditData        *EditData      `json:"editData,omitempty"`
	Locale          string         `json:"locale,omitempty"`
	NegativePrompt  string         `json:"negativePrompt,omitempty"`
	PhotoSettings   *PhotoSettings `json:"photoSettings,omitempty"`
	PromptDebiasing *bool          `json:"promptDebiasing,omitempty"`
	Styles          *Styles        `json:"styles,omitempty"`
	Tileable        *bool          `json:"tileable,omitempty"`
	VisualIntensity *float64       `json:"visualIntensity,omitempty"`
}

type ACPDirectory struct {
	CreativeCloudPath      string `json:"creativeCloudPath,omitempty"`
	CreativeCloudProjectID string `json:"creativeCloudProjectId"`
}

// OutputSpec sets the content credentials directive
// (dont_sign | sign_for_policy_mandate | sign_for_canvas).
type OutputSpec struct {
	CAI struct {
		Directive string `json:"directive"`
	} `json:"cai"`
}

type BatchOptions struct {
	CustomModelID string        `json:"customModelId,omitempty"`
	DetailLevel   string        `json:"detailLevel,omitempty"`
	ModelVersion  string        `json:"modelVersion,omitempty"`
	N             int           `json:"n,omitempty"`
	Output        *OutputSpec   `json:"output,omitempty"`
	TargetFolder  *ACPDirectory `json:"targetFolder,omitempty"`
	Seeds         []int64       `json:"seeds,omitempty"`
	Size          *Size         `json:"size,omitempty"`
}

type batchRequest struct {
	Requests []BatchImageRequest `json:"requests"`
	BatchOptions
}

// Image is an encoded image to upload.
type Image struct {
	Data        []byte
	ContentType string
}

type ImageResponse struct {
	Images []struct {
		ID string `json:"id"`
	} `json:"images"`
}

// ID returns the first uploaded image id.
func (r *ImageResponse) ID() string {
	if len(r.Images) == 0 {
		return ""
	}
	return r.Images[0].ID
}

type SimilarOptions struct {
	Seeds    []int64 `json:"seeds,omitempty"`
	Size     *Size   `json:"size,omitempty"`
	Tileable *bool   `json:"tileable,omitempty"`
}

type similarRequest struct {
	Image struct {
		ID string `json:"id"`
	} `json:"image"`
	SimilarOptions
}

type SimilarResponse struct {
	Version string   `json:"version"`
	Size    Size     `json:"size"`
	Outputs []Output `json:"outputs"`
}

type Coordinate struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type OriginalImage struct {
	Source             PublicBinary `json:"source"`
	Mask               PublicBinary `json:"mask"`
	LocalCoordinate    Coordinate   `json:"localCoordinate"`
	OriginalCoordinate Coordinate   `json:"originalCoordinate"`
}

type FillArea struct {
	FillMask *PublicBinary `json:"fillMask,omitempty"`
}

type FillInput struct {
	Source        PublicBinary   `json:"source"`
	FillArea      *FillArea      `json:"fillArea,omitempty"`
	OriginalImage *OriginalImage `json:"originalImage,omitempty"`
}

type FillOptions struct {
	Prompt               string        `json:"prompt,omitempty"`
	Seeds                []int64       `json:"seeds,omitempty"`
	Size                 *Size         `json:"size,omitempty"`
	InputImage           *FillInput    `json:"inputImage,omitempty"`
	NegativePrompt       string        `json:"negativePrompt,omitempty"`
	StyleInsertion       *PublicBinary `json:"styleInsertion,omitempty"`
	ContentInsertion     *PublicBinary `json:"contentInsertion,omitempty"`
	Locale               string        `json:"locale,omitempty"`
	Similarity           *int          `json:"similarity,omitempty"` // 0, 1 or 2
	Guidance             *float64      `json:"guidance,omitempty"`
	ContentPreserveLevel *float64      `json:"contentPreserveLevel,omitempty"`
}

type FillResponse struct {
	Version string   `json:"version"`
	Outputs []Output `json:"outputs"`
}

type VideoSettings struct {
	CameraMotion string `json:"cameraMotion,omitempty"`
	ShotAngle    string `json:"shotAngle,omitempty"`
	PromptStyle  string `json:"promptStyle,omitempty"`
	ShotSize     string `json:"shotSize,omitempty"`
}

type VideoImageCondition struct {
	Placement struct {
		// Start is the timeline position, 0 first frame to 1 last frame.
		Start float64 `json:"start"`
	} `json:"placement"`
	Source PublicBinary `json:"source"`
}

type VideoImage struct {
	Conditions []VideoImageCondition `json:"conditions"`
}

type VideoOptions struct {
	NegativePrompt string         `json:"negativePrompt,omitempty"`
	Seeds          []int64        `json:"seeds,omitempty"`
	Sizes          []VideoSize    `json:"sizes,omitempty"`
	VideoSettings  *VideoSettings `json:"videoSettings,omitempty"`
	Locale         string         `json:"locale,omitempty"`
	Image          *VideoImage    `json:"image,omitempty"`
	Output         *struct {
		StoreInputs *bool `json:"storeInputs,omitempty"`
	} `json:"output,omitempty"`
}

type videoRequest struct {
	Prompt string `json:"prompt"`
	VideoOptions
}

type Link struct {
	Href string `json:"href"`
}

type VideoLinks struct {
	Cancel Link `json:"cancel"`
	Result Link `json:"result"`
}

type VideoGenerateResponse struct {
	Links VideoLinks `json:"links"`
}

type VideoOutput struct {
	Seed  int64         `json:"seed"`
	Image *PublicBinary `json:"image,omitempty"`
	Video PublicBinary  `json:"video"`
}

type VideoResult struct {
	DebugData map[string]any `json:"debugData,omitempty"`
	Outputs   []VideoOutput  `json:"outputs"`
	Size      Size           `json:"size"`
	Version   string         `json:"version"`
}

// URLs returns the presigned video URLs.
func (r *VideoResult) URLs() []string {
	urls := make([]string, 0, len(r.Outputs))
	for _, o := range r.Outputs {
		urls = append(urls, o.Video.PresignedURL)
	}
	return urls
}

// VideoState discriminates a status response.
type VideoState int

const (
	VideoUnknown VideoState = iota
	VideoInProgress
	VideoDone
)

// VideoStatus is a classified video status response.
type VideoStatus struct {
	State    VideoState
	Progress float64
	Links    *VideoLinks
	Result   *VideoResult
}
