package curate

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/bep/imagemeta"
	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/webp"
)

// metadataConfidence is assigned to content features reconstructed from
// embedded metadata or URL hints. Low enough that analyzer-backed features
// always win, high enough that attribute overlap still contributes to
// similarity.
const metadataConfidence = 0.3

// pixelInfo is what a single best-effort fetch contributes to a record.
type pixelInfo struct {
	width    int
	height   int
	hash     *goimagehash.ImageHash
	keywords []string
}

// enrichPixels downloads the image and extracts dimensions, a perceptual
// hash, and embedded keyword tags. Every failure degrades to a partial or
// empty pixelInfo; nothing here can fail the batch.
func (cfg *Config) enrichPixels(ctx context.Context, url string) pixelInfo {
	result := cfg.Download(ctx, url, DownloadOpts{})
	if result == nil {
		return pixelInfo{}
	}

	info := decodePixels(result.Data)
	info.keywords = extractKeywords(result.Data)

	if info.width == 0 {
		if w, h := metadataDimensions(result.Data); w > 0 && h > 0 {
			info.width, info.height = w, h
		}
	}

	return info
}

// decodePixels reads dimensions from the image header and computes a
// difference hash from the decoded pixels. A header that decodes but pixels
// that don't still yield dimensions.
func decodePixels(data []byte) pixelInfo {
	var info pixelInfo

	imgCfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		info.width, info.height = imgCfg.Width, imgCfg.Height
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return info
	}
	if hash, err := goimagehash.DifferenceHash(img); err == nil {
		info.hash = hash
	}
	return info
}

// keywordTags maps (source, tag-name) → true for tags that carry subject
// keywords usable as fallback content attributes.
var keywordTags = map[imagemeta.Source]map[string]bool{
	imagemeta.IPTC: {"Keywords": true},
	imagemeta.XMP:  {"Subject": true, "subject": true},
}

// extractKeywords pulls IPTC/XMP subject keywords from raw image bytes.
// Returns nil if the data has no parseable metadata. Never errors.
func extractKeywords(data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	var keywords []string
	err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF | imagemeta.IPTC | imagemeta.XMP,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			if tags, ok := keywordTags[ti.Source]; ok {
				return tags[ti.Tag]
			}
			return false
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			keywords = append(keywords, tagValueStrings(ti.Value)...)
			return nil
		},
	})
	if err != nil || len(keywords) == 0 {
		return nil
	}
	return keywords
}

// metadataDimensions reads EXIF pixel dimensions as a fallback when the
// image body itself could not be decoded.
func metadataDimensions(data []byte) (width, height int) {
	if len(data) == 0 {
		return 0, 0
	}

	dimTags := map[string]bool{"PixelXDimension": true, "PixelYDimension": true}
	err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return dimTags[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			v := tagValueInt(ti.Value)
			switch ti.Tag {
			case "PixelXDimension":
				width = v
			case "PixelYDimension":
				height = v
			}
			return nil
		},
	})
	if err != nil {
		return 0, 0
	}
	return width, height
}

// fallbackFeatures reconstructs content features from embedded keywords and
// URL hints when the analyzer degraded. Purely local; confidence stays low.
func fallbackFeatures(url string, keywords []string) ContentFeatures {
	attrs := normalizeTags(keywords)
	cat := CategoryHint(url)
	if cat == CategoryUnknown && attrs == nil {
		return ContentFeatures{Category: CategoryUnknown}
	}

	slog.Debug("curate: metadata fallback features", "url", url, "category", cat.String(), "attributes", len(attrs))
	return ContentFeatures{
		Category:   cat,
		Attributes: attrs,
		Confidence: metadataConfidence,
	}
}

// tagValueStrings flattens a metadata tag value into strings.
// XMP values may be string or []string (from altList/seqList).
func tagValueStrings(v any) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []string:
		return val
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// tagValueInt extracts an integer from a numeric metadata tag value.
func tagValueInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case uint16:
		return int(val)
	case uint32:
		return int(val)
	case uint64:
		return int(val)
	case float64:
		return int(val)
	default:
		return 0
	}
}
