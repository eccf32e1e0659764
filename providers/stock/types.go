package stock

import "time"

// APIName is the default registry name.
const APIName = "stock"

const (
	BaseURL            = "https://stock.adobe.io/Rest"
	PathSearch         = "/Media/1/Search/Files"
	DefaultClientID    = "f96fcdb1a3694a5a8fbaceff70dc921f"
	DefaultProductName = "Stock Search with Firefly"
	DefaultTimeout     = 30 * time.Second
	DefaultRetries     = 3
	DefaultQuickLimit  = 20
)

// DefaultResultColumns are requested by QuickSearch unless overridden.
var DefaultResultColumns = []string{
	"nb_results",
	"id",
	"title",
	"creator_name",
	"creator_id",
	"width",
	"height",
	"thumbnail_url",
	"thumbnail_html_tag",
	"thumbnail_width",
	"thumbnail_height",
	"category",
	"media_type_id",
	"vector_type",
	"content_type",
	"premium_level_id",
}

// Filter keys whose values are id lists.
const (
	Filter3DTypeID       = "3d_type_id"
	FilterTemplateTypeID = "template_type_id"
)

// Filters maps filter keys to scalars, or to []int for the list filters.
type Filters map[string]any

// SearchParameters mirror the Stock search_parameters. Zero values are omitted.
type SearchParameters struct {
	Locale        string
	Words         string
	Limit         int
	Offset        int
	Order         string // relevance | creation | featured | nb_downloads | undiscovered
	CreatorID     int64
	MediaID       int64
	ModelID       int64
	SeriesID      int64
	Similar       int64
	SimilarURL    string
	SimilarImage  *int
	ThumbnailSize int // 110 | 160 | 220 | 240 | 500 | 1000
	Filters       Filters
	GalleryID     string
	ResultColumns []string
	// Extra carries any other search_parameters key.
	Extra map[string]string
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Result is one file entry. Only requested columns are populated.
type Result struct {
	NbResults        int      `json:"nb_results,omitempty"`
	ID               int64    `json:"id"`
	Title            string   `json:"title,omitempty"`
	CreatorName      string   `json:"creator_name,omitempty"`
	CreatorID        int64    `json:"creator_id,omitempty"`
	CountryName      string   `json:"country_name,omitempty"`
	Width            int      `json:"width,omitempty"`
	Height           int      `json:"height,omitempty"`
	ThumbnailURL     string   `json:"thumbnail_url,omitempty"`
	ThumbnailHTMLTag string   `json:"thumbnail_html_tag,omitempty"`
	ThumbnailWidth   int      `json:"thumbnail_width,omitempty"`
	ThumbnailHeight  int      `json:"thumbnail_height,omitempty"`
	Thumbnail500URL  string   `json:"thumbnail_500_url,omitempty"`
	Thumbnail1000URL string   `json:"thumbnail_1000_url,omitempty"`
	MediaTypeID      int      `json:"media_type_id,omitempty"`
	Category         Category `json:"category"`
	Keywords         []string `json:"keywords,omitempty"`
	CompURL          string   `json:"comp_url,omitempty"`
	IsLicensed       string   `json:"is_licensed,omitempty"`
	VectorType       string   `json:"vector_type,omitempty"`
	ContentType      string   `json:"content_type,omitempty"`
	Framerate        float64  `json:"framerate,omitempty"`
	Duration         float64  `json:"duration,omitempty"`
	DetailsURL       string   `json:"details_url,omitempty"`
	TemplateTypeID   int      `json:"template_type_id,omitempty"`
	Description      string   `json:"description,omitempty"`
	SizeBytes        int64    `json:"size_bytes,omitempty"`
	PremiumLevelID   int      `json:"premium_level_id,omitempty"`
	IsLoop           bool     `json:"is_loop,omitempty"`
	IsTransparent    bool     `json:"is_transparent,omitempty"`
	IsGentech        bool     `json:"is_gentech,omitempty"`
}

type SearchResponse struct {
	NbResults int      `json:"nb_results"`
	Files     []Result `json:"files"`
}
