package youtube

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"focusfeed/internal/domain"
)

// PlaceholderThumbnail is returned when a video carries no thumbnails at
// all.
const PlaceholderThumbnail = "https://i.ytimg.com/img/no_thumbnail.jpg"

// thumbnailPreference is the fixed resolution cascade for picking a single
// display image.
var thumbnailPreference = []string{"maxres", "high", "medium", "standard", "default"}

func (c *Client) transformVideo(item videoItem) domain.Video {
	publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	if err != nil && item.Snippet.PublishedAt != "" {
		c.logger.Warn("failed to parse publish date",
			"video_id", item.ID,
			"published_at", item.Snippet.PublishedAt,
		)
	}

	return domain.Video{
		ID:           item.ID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		PublishedAt:  publishedAt,
		ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
		ChannelID:    item.Snippet.ChannelID,
		ChannelTitle: item.Snippet.ChannelTitle,
		ViewCount:    parseCount(item.Statistics.ViewCount),
		LikeCount:    parseCount(item.Statistics.LikeCount),
		CommentCount: parseCount(item.Statistics.CommentCount),
		Duration:     item.ContentDetails.Duration,
	}
}

// bestThumbnail picks the highest-resolution named variant, falls back to
// the first available variant by key order, then to the placeholder.
func bestThumbnail(thumbnails map[string]thumbnail) string {
	for _, name := range thumbnailPreference {
		if t, ok := thumbnails[name]; ok && t.URL != "" {
			return t.URL
		}
	}

	if len(thumbnails) > 0 {
		keys := make([]string, 0, len(thumbnails))
		for k := range thumbnails {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if thumbnails[k].URL != "" {
				return thumbnails[k].URL
			}
		}
	}

	return PlaceholderThumbnail
}

// parseCount reads an upstream statistics value, treating absent or
// non-numeric strings as zero.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatDuration renders an ISO 8601 duration ("PT1H23M45S") as "1:23:45",
// or "23:45" when there is no hour segment. Missing fields mean zero;
// unparseable input renders as "0:00".
func FormatDuration(iso string) string {
	match := durationPattern.FindStringSubmatch(iso)
	if match == nil {
		return "0:00"
	}

	hours := atoiOrZero(match[1])
	minutes := atoiOrZero(match[2])
	seconds := atoiOrZero(match[3])

	if hours > 0 {
		return strconv.Itoa(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return strconv.Itoa(minutes) + ":" + pad(seconds)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
