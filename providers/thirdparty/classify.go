package thirdparty

import (
	"encoding/json"
	"regexp"

	"github.com/BaSui01/genbridge/types"
)

var jobHrefPattern = regexp.MustCompile(`/jobs/result/([^/]+)$`)

// ExtractJobID returns the trailing id of a /jobs/result/<id> href.
func ExtractJobID(href string) (string, error) {
	m := jobHrefPattern.FindStringSubmatch(href)
	if m == nil {
		return "", types.Errorf(types.ErrInvalidHref, "Invalid job result href: %s", href)
	}
	return m[1], nil
}

type jobProbe struct {
	Progress    any          `json:"progress"`
	ContentType string       `json:"contentType"`
	Links       *ResultLinks `json:"links"`
}

// ClassifyJobResult decodes raw into a JobResult. A recognized content type
// wins over a progress field.
func ClassifyJobResult(raw []byte) (*JobResult, error) {
	var probe jobProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, types.NewError(types.ErrDecode, "failed to decode job result").WithCause(err)
	}

	switch {
	case imageContentTypes[probe.ContentType]:
		var img ImageJobResult
		if err := json.Unmarshal(raw, &img); err != nil {
			return nil, types.NewError(types.ErrDecode, "failed to decode image job result").WithCause(err)
		}
		return &JobResult{Kind: JobImage, Image: &img}, nil
	case videoContentTypes[probe.ContentType]:
		var vid VideoJobResult
		if err := json.Unmarshal(raw, &vid); err != nil {
			return nil, types.NewError(types.ErrDecode, "failed to decode video job result").WithCause(err)
		}
		return &JobResult{Kind: JobVideo, Video: &vid}, nil
	}

	if p, ok := probe.Progress.(float64); ok {
		return &JobResult{Kind: JobInProgress, Progress: p, Links: probe.Links}, nil
	}
	return &JobResult{Kind: JobUnknown, Links: probe.Links}, nil
}
