package firefly

import "time"

// Version selects which Firefly deployment a call targets.
type Version string

const (
	V2    Version = "v2"
	V3    Version = "v3"
	V4    Version = "v4"
	Batch Version = "batch"
	Video Version = "video"
)

// APIName returns the registry name for v, e.g. "firefly-v3".
func (v Version) APIName() string { return "firefly-" + string(v) }

// Default base URLs.
const (
	V2BaseURL    = "https://firefly-stage.adobe.io"
	V3BaseURL    = "https://firefly-clio-imaging-dev.adobe.io"
	V4BaseURL    = "https://clio-imaging-v4-colligov2-dev.corp.ethos851-stage-or2.ethos.adobe.net"
	BatchBaseURL = "https://inf-speed-debug-colligov2-dev.corp.ethos851-stage-or2.ethos.adobe.net"
	VideoBaseURL = "https://firefly-gen-video-stage.adobe.io"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 3
)

// Endpoints.
const (
	PathGenerate        = "/v2/images/generate"
	PathGenerateBatch   = "/v2/images/generate-batch"
	PathUploadImage     = "/v2/storage/image"
	PathGenerateSimilar = "/v2/images/generate-similar"
	PathFill            = "/v2/images/fill"
	PathGenerateVideo   = "/v2/videos/generate"
)

// MaxSeed is the largest seed Firefly accepts.
const MaxSeed = 2147483647

// MaxUploadDimension bounds both sides of an uploaded image.
const MaxUploadDimension = 2048

// DMD modes.
const (
	DMD1     = "dmd1"
	DMD2     = "dmd2"
	DMD4     = "dmd4"
	DMD1Fast = "dmd1_fast"
	DMD2Fast = "dmd2_fast"
	DMD4Fast = "dmd4_fast"
	DMDMoE1  = "dmdmoe1"
	DMDMoE2  = "dmdmoe2"
	DMDMoE5  = "dmdmoe5"
	DMDMoE10 = "dmdmoe10"
	DMDBest  = "dmdbest"
	DMDNone  = ""
)

// Output dimensions per aspect.
var (
	DimensionSquare     = Size{Width: 2048, Height: 2048}
	DimensionLandscape  = Size{Width: 2304, Height: 1792}
	DimensionPortrait   = Size{Width: 1792, Height: 2304}
	DimensionWidescreen = Size{Width: 2688, Height: 1536}
)

// Aspect returns width/height.
func (s Size) Aspect() float64 {
	if s.Height == 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// Aspect ratios of the standard dimensions.
var (
	AspectSquare     = DimensionSquare.Aspect()
	AspectLandscape  = DimensionLandscape.Aspect()
	AspectPortrait   = DimensionPortrait.Aspect()
	AspectWidescreen = DimensionWidescreen.Aspect()
)

// CommonHeaders are sent by every Firefly client.
func CommonHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}
