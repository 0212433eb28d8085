package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestThumbnail(t *testing.T) {
	tests := []struct {
		name       string
		thumbnails map[string]thumbnail
		want       string
	}{
		{
			name: "prefers maxres",
			thumbnails: map[string]thumbnail{
				"default": {URL: "http://img/default.jpg"},
				"high":    {URL: "http://img/high.jpg"},
				"maxres":  {URL: "http://img/maxres.jpg"},
			},
			want: "http://img/maxres.jpg",
		},
		{
			name: "falls through to medium",
			thumbnails: map[string]thumbnail{
				"default": {URL: "http://img/default.jpg"},
				"medium":  {URL: "http://img/medium.jpg"},
			},
			want: "http://img/medium.jpg",
		},
		{
			name: "default only",
			thumbnails: map[string]thumbnail{
				"default": {URL: "http://img/default.jpg"},
			},
			want: "http://img/default.jpg",
		},
		{
			name: "unknown variant by key order",
			thumbnails: map[string]thumbnail{
				"zeta":  {URL: "http://img/zeta.jpg"},
				"alpha": {URL: "http://img/alpha.jpg"},
			},
			want: "http://img/alpha.jpg",
		},
		{
			name: "skips empty urls",
			thumbnails: map[string]thumbnail{
				"maxres": {},
				"high":   {URL: "http://img/high.jpg"},
			},
			want: "http://img/high.jpg",
		},
		{
			name:       "no thumbnails",
			thumbnails: map[string]thumbnail{},
			want:       PlaceholderThumbnail,
		},
		{
			name:       "nil map",
			thumbnails: nil,
			want:       PlaceholderThumbnail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bestThumbnail(tt.thumbnails))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		iso  string
		want string
	}{
		{"PT1H23M45S", "1:23:45"},
		{"PT2H", "2:00:00"},
		{"PT1H5S", "1:00:05"},
		{"PT23M45S", "23:45"},
		{"PT1M5S", "1:05"},
		{"PT45S", "0:45"},
		{"PT5S", "0:05"},
		{"PT0S", "0:00"},
		{"", "0:00"},
		{"garbage", "0:00"},
		{"P1DT2H", "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.iso, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.iso))
		})
	}
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, int64(12345), parseCount("12345"))
	assert.Equal(t, int64(0), parseCount(""))
	assert.Equal(t, int64(0), parseCount("n/a"))
	assert.Equal(t, int64(0), parseCount("12.5"))
}
