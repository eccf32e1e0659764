package stock

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// EncodeQuery renders p as the Stock query string. Bracketed keys are kept
// literal; values are escaped.
func EncodeQuery(p SearchParameters) string {
	var parts []string
	add := func(key, value string) {
		parts = append(parts, key+"="+url.QueryEscape(value))
	}
	param := func(key, value string) {
		if value != "" {
			add("search_parameters["+key+"]", value)
		}
	}
	num := func(key string, v int64) {
		if v != 0 {
			param(key, strconv.FormatInt(v, 10))
		}
	}

	param("locale", p.Locale)
	param("words", p.Words)
	num("limit", int64(p.Limit))
	num("offset", int64(p.Offset))
	param("order", p.Order)
	num("creator_id", p.CreatorID)
	num("media_id", p.MediaID)
	num("model_id", p.ModelID)
	num("series_id", p.SeriesID)
	num("similar", p.Similar)
	param("similar_url", p.SimilarURL)
	if p.SimilarImage != nil {
		param("similar_image", strconv.Itoa(*p.SimilarImage))
	}
	if p.ThumbnailSize != 0 {
		add("search_parameters[thumbnail_size]", strconv.Itoa(p.ThumbnailSize))
	}
	param("gallery_id", p.GalleryID)

	for _, k := range sortedKeys(p.Extra) {
		param(k, p.Extra[k])
	}

	filterKeys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		filterKeys = append(filterKeys, k)
	}
	sort.Strings(filterKeys)
	for _, k := range filterKeys {
		key := "search_parameters[filters][" + k + "]"
		v := p.Filters[k]
		if v == nil {
			continue
		}
		// 任意切片（数组）都编码为 key[]=a&key[]=b
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := 0; i < rv.Len(); i++ {
				add(key+"[]", fmt.Sprint(rv.Index(i).Interface()))
			}
			continue
		}
		add(key, fmt.Sprint(v))
	}

	for _, c := range p.ResultColumns {
		add("result_columns[]", c)
	}
	return strings.Join(parts, "&")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
