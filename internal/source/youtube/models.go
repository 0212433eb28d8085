package youtube

// Wire types for the YouTube Data API v3 endpoints the client consumes.

type searchResponse struct {
	Items         []searchItem `json:"items"`
	PageInfo      pageInfo     `json:"pageInfo"`
	NextPageToken string       `json:"nextPageToken"`
	PrevPageToken string       `json:"prevPageToken"`
}

type pageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

type searchItem struct {
	ID      searchItemID `json:"id"`
	Snippet snippet      `json:"snippet"`
}

type searchItemID struct {
	Kind      string `json:"kind"`
	VideoID   string `json:"videoId"`
	ChannelID string `json:"channelId"`
}

type videoListResponse struct {
	Items    []videoItem `json:"items"`
	PageInfo pageInfo    `json:"pageInfo"`
}

type videoItem struct {
	ID             string         `json:"id"`
	Snippet        snippet        `json:"snippet"`
	Statistics     statistics     `json:"statistics"`
	ContentDetails contentDetails `json:"contentDetails"`
}

type snippet struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	PublishedAt  string               `json:"publishedAt"`
	ChannelID    string               `json:"channelId"`
	ChannelTitle string               `json:"channelTitle"`
	Thumbnails   map[string]thumbnail `json:"thumbnails"`
}

type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Statistics arrive as decimal strings; absent or malformed values are
// treated as zero during transformation.
type statistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

type contentDetails struct {
	Duration string `json:"duration"`
}

type subscriptionsResponse struct {
	Items         []subscriptionItem `json:"items"`
	PageInfo      pageInfo           `json:"pageInfo"`
	NextPageToken string             `json:"nextPageToken"`
}

type subscriptionItem struct {
	Snippet subscriptionSnippet `json:"snippet"`
}

type subscriptionSnippet struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	PublishedAt string               `json:"publishedAt"`
	ResourceID  resourceID           `json:"resourceId"`
	Thumbnails  map[string]thumbnail `json:"thumbnails"`
}

type resourceID struct {
	ChannelID string `json:"channelId"`
}
