package thirdparty

import "time"

// Gateway base URLs.
const (
	BaseURL      = "https://firefall-gen-3p-colligov2-dev.corp.ethos851-stage-or2.ethos.adobe.net"
	StageBaseURL = "https://firefly-3p-stage.ff.adobe.io"
	ProdBaseURL  = "https://firefly-3p.ff.adobe.io"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 3
)

// Image models.
const (
	ModelFlux        = "flux"
	ModelFluxPro     = "fluxPro"
	ModelFluxUltra   = "fluxUltra"
	ModelImagen      = "imagen"
	ModelGPT4oImage  = "gpt-4o-image"
	ModelGeminiFlash = "gemini-flash"
)

// Video models.
const (
	ModelVeo  = "veo"
	ModelPika = "pika"
	ModelLuma = "luma"
)

// Model versions.
const (
	VersionImagen3Capability001   = "3.0-capability-001"
	VersionImagen3Generate002     = "3.0-generate-002"
	VersionImagen4GeneratePreview = "4.0-generate-preview-05-20"
	VersionFlux11                 = "1.1"
	VersionGeminiFlashNanoBanana  = "nano-banana"
	VersionVeo2Generate001        = "2.0-generate-001"
	VersionVeo3GeneratePreview    = "3.0-generate-preview"
	VersionPika22Pikaframes       = "2.2-pikaframes"
	VersionLuma20Ray              = "2.0-ray"
)

// Reference blob usages.
const (
	UsageSubject   = "subject"
	UsageGeneral   = "general"
	UsageNonGenRef = "nonGenRef"
	UsageUnknown   = "unknown" // deprecated
)

// SemanticUsageImageReference tags a canvas image reference.
const SemanticUsageImageReference = "imageReference"

// Endpoints.
const (
	PathGenerateImage = "/v2/3p-images/generate-async"
	PathGenerateVideo = "/v2/3p-videos/generate-async"
	PathJobResult     = "/jobs/result"
)

// DefaultSize is the default output size.
var DefaultSize = Size{Width: 1024, Height: 1024}

var imageContentTypes = map[string]bool{"image/png": true, "image/jpeg": true}

var videoContentTypes = map[string]bool{"video/mp4": true, "video/webm": true, "video/quicktime": true}

// IsImageModel reports whether id is a known image model.
func IsImageModel(id string) bool {
	switch id {
	case ModelFlux, ModelFluxPro, ModelFluxUltra, ModelImagen, ModelGPT4oImage, ModelGeminiFlash:
		return true
	}
	return false
}

// IsVideoModel reports whether id is a known video model.
func IsVideoModel(id string) bool {
	switch id {
	case ModelVeo, ModelPika, ModelLuma:
		return true
	}
	return false
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Output struct {
	StoreInputs *bool `json:"storeInputs,omitempty"`
}

type CanvasImageReference struct {
	CreativeCloudFileID      string `json:"creativeCloudFileId"`
	CreativeCloudComponentID string `json:"creativeCloudComponentId"`
	SemanticUsage            string `json:"semanticUsage"`
}

type GenerationMetadata struct {
	Module               string                `json:"module,omitempty"`
	SourceDocumentID     string                `json:"sourceDocumentId,omitempty"`
	FilterString         string                `json:"filterString,omitempty"`
	OriginalPrompt       string                `json:"originalPrompt,omitempty"`
	SubPrompts           []map[string]any      `json:"subPrompts,omitempty"`
	CanvasImageReference *CanvasImageReference `json:"canvasImageReference,omitempty"`
}

type ReferenceBlob struct {
	ID              string `json:"id"`
	Usage           string `json:"usage"`
	PromptReference *int   `json:"promptReference,omitempty"`
}

// Options configures a generation call. An empty ModelID selects the
// default model for the media kind.
type Options struct {
	ModelID              string              `json:"modelId"`
	ModelVersion         string              `json:"modelVersion,omitempty"`
	N                    int                 `json:"n,omitempty"`
	Seeds                []int64             `json:"seeds,omitempty"`
	Size                 *Size               `json:"size,omitempty"`
	GenerateAudio        *bool               `json:"generateAudio,omitempty"` // video only
	Output               *Output             `json:"output,omitempty"`
	GenerationMetadata   *GenerationMetadata `json:"generationMetadata,omitempty"`
	ReferenceBlobs       []ReferenceBlob     `json:"referenceBlobs,omitempty"`
	ModelSpecificPayload map[string]any      `json:"modelSpecificPayload,omitempty"`
}

// GenerateRequest is the wire body of a generate-async call.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Options
}

type Link struct {
	Href string `json:"href"`
}

type ResultLinks struct {
	Result Link `json:"result"`
}

// GenerateResponse is returned by the generate-async endpoints.
type GenerateResponse struct {
	Links ResultLinks `json:"links"`
}

type Asset struct {
	ID           string `json:"id"`
	PresignedURL string `json:"presignedUrl"`
}

type ImageOutput struct {
	Seed  int64 `json:"seed"`
	Image Asset `json:"image"`
}

type VideoOutput struct {
	Seed  int64 `json:"seed"`
	Video Asset `json:"video"`
}

type ImageJobResult struct {
	Outputs      []ImageOutput `json:"outputs"`
	ModelID      string        `json:"modelId"`
	ModelVersion string        `json:"modelVersion,omitempty"`
	Size         Size          `json:"size"`
	ContentType  string        `json:"contentType"`
}

// URLs returns the presigned output URLs.
func (r *ImageJobResult) URLs() []string {
	urls := make([]string, 0, len(r.Outputs))
	for _, o := range r.Outputs {
		urls = append(urls, o.Image.PresignedURL)
	}
	return urls
}

type VideoJobResult struct {
	Outputs      []VideoOutput `json:"outputs"`
	ModelID      string        `json:"modelId"`
	ModelVersion string        `json:"modelVersion,omitempty"`
	Size         Size          `json:"size"`
	ContentType  string        `json:"contentType"`
}

// URLs returns the presigned output URLs.
func (r *VideoJobResult) URLs() []string {
	urls := make([]string, 0, len(r.Outputs))
	for _, o := range r.Outputs {
		urls = append(urls, o.Video.PresignedURL)
	}
	return urls
}

// JobKind discriminates a job status payload.
type JobKind int

const (
	JobUnknown JobKind = iota
	JobInProgress
	JobImage
	JobVideo
)

func (k JobKind) String() string {
	switch k {
	case JobInProgress:
		return "in_progress"
	case JobImage:
		return "image"
	case JobVideo:
		return "video"
	default:
		return "unknown"
	}
}

// JobResult is a classified job status payload. Exactly one of Image/Video is
// set for terminal kinds.
type JobResult struct {
	Kind     JobKind
	Progress float64
	Links    *ResultLinks
	Image    *ImageJobResult
	Video    *VideoJobResult
}
