package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"focusfeed/internal/domain"
	"focusfeed/internal/feed"
	"focusfeed/internal/source/youtube"
	"focusfeed/internal/token"
)

type fetchVideosRequest struct {
	ChannelIDs []string `json:"channelIds"`
	VideoIDs   []string `json:"videoIds"`
	MaxResults int      `json:"maxResults"`
	Order      string   `json:"order"`
}

type videoResponse struct {
	domain.Video
	DurationText string `json:"durationText,omitempty"`
}

func toVideoResponses(videos []domain.Video) []videoResponse {
	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		resp := videoResponse{Video: v}
		if v.Duration != "" {
			resp.DurationText = youtube.FormatDuration(v.Duration)
		}
		out = append(out, resp)
	}
	return out
}

func (s *Server) fetchVideos(c *gin.Context) {
	var req fetchVideosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order := domain.SortOrder(req.Order)
	if req.Order == "" {
		order = domain.OrderDate
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.fetchTimeout)
	defer cancel()

	result, err := s.aggregator.FetchVideos(ctx, feed.FetchRequest{
		ChannelIDs: req.ChannelIDs,
		VideoIDs:   req.VideoIDs,
		MaxResults: req.MaxResults,
		Order:      order,
	})
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrNoInput), errors.Is(err, feed.ErrBothModes), errors.Is(err, feed.ErrInvalidOrder):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, youtube.ErrMissingAPIKey):
			s.logger.Error("fetch videos", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "service misconfigured"})
		default:
			s.logger.Error("fetch videos", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch videos"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": toVideoResponses(result.Videos)})
}

func (s *Server) userFeed(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	channelID := c.Query("channelId")
	if channelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channelId is required"})
		return
	}

	maxResults := intQuery(c, "maxResults", feed.DefaultMaxResults)
	order := domain.SortOrder(c.DefaultQuery("order", string(domain.OrderDate)))

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.fetchTimeout)
	defer cancel()

	page, err := s.aggregator.FetchUserFeed(ctx, uid, channelID, maxResults, order, c.Query("pageToken"))
	if err != nil {
		s.respondFeedError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":         toVideoResponses(page.Items),
		"pageInfo":      page.PageInfo,
		"nextPageToken": page.NextPageToken,
	})
}

func (s *Server) subscriptions(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	maxResults := intQuery(c, "maxResults", feed.DefaultMaxResults)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.fetchTimeout)
	defer cancel()

	page, err := s.aggregator.FetchSubscriptions(ctx, uid, maxResults, c.Query("pageToken"))
	if err != nil {
		s.respondFeedError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":         page.Items,
		"pageInfo":      page.PageInfo,
		"nextPageToken": page.NextPageToken,
	})
}

// respondFeedError collapses token lifecycle failures and upstream 401s
// into a single reconnect signal so the client knows to restart the
// OAuth flow.
func (s *Server) respondFeedError(c *gin.Context, err error) {
	var refreshErr *token.RefreshError
	var statusErr *youtube.StatusError

	switch {
	case errors.Is(err, token.ErrNotConnected),
		errors.Is(err, token.ErrRefreshUnavailable),
		errors.As(err, &refreshErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "youtube account not connected", "needsReconnect": true})
	case errors.As(err, &statusErr) && statusErr.Status == http.StatusUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "youtube authorization rejected", "needsReconnect": true})
	default:
		s.logger.Error("fetch user feed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch videos"})
	}
}

func (s *Server) authURL(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.tokens.AuthURL(uid)})
}

// authCallback handles the provider redirect. The state parameter
// round-trips the user id from AuthURL since the redirect carries no
// headers.
func (s *Server) authCallback(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	code := c.Query("code")
	uid := c.Query("state")
	if code == "" || uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and state are required"})
		return
	}

	if err := s.tokens.Connect(c.Request.Context(), uid, code); err != nil {
		s.logger.Error("oauth callback", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to connect youtube account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": true})
}

func (s *Server) authStatus(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": s.tokens.HasConnection(c.Request.Context(), uid)})
}

func (s *Server) disconnect(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	if err := s.tokens.Disconnect(c.Request.Context(), uid); err != nil {
		s.logger.Error("disconnect", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to disconnect"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) searchChannels(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	maxResults := intQuery(c, "maxResults", feed.DefaultMaxResults)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.fetchTimeout)
	defer cancel()

	results, err := s.search.SearchChannels(ctx, query, maxResults)
	if err != nil {
		if errors.Is(err, youtube.ErrMissingAPIKey) {
			s.logger.Error("search channels", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "service misconfigured"})
			return
		}
		s.logger.Error("search channels", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to search channels"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"channels": results})
}

type addChannelRequest struct {
	ChannelID    string `json:"channelId" binding:"required"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

func (s *Server) listChannels(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	channels, err := s.channels.ListByUser(c.Request.Context(), uid)
	if err != nil {
		s.logger.Error("list channels", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list channels"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

func (s *Server) addChannel(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	var req addChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channelId is required"})
		return
	}

	channel := &domain.Channel{
		UserID:       uid,
		ChannelID:    req.ChannelID,
		Title:        req.Title,
		ThumbnailURL: req.ThumbnailURL,
	}
	if err := s.channels.Add(c.Request.Context(), channel); err != nil {
		s.logger.Error("add channel", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add channel"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"channel": channel})
}

func (s *Server) removeChannel(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	if err := s.channels.Remove(c.Request.Context(), uid, c.Param("channelID")); err != nil {
		s.logger.Error("remove channel", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove channel"})
		return
	}

	c.Status(http.StatusNoContent)
}

type createPlaylistRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	VideoIDs    []string `json:"videoIds"`
}

func (s *Server) listPlaylists(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	playlists, err := s.playlists.ListByUser(c.Request.Context(), uid)
	if err != nil {
		s.logger.Error("list playlists", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list playlists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"playlists": playlists})
}

func (s *Server) createPlaylist(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	var req createPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	playlist := &domain.Playlist{
		ID:          uuid.New().String(),
		UserID:      uid,
		Name:        req.Name,
		Description: req.Description,
		VideoIDs:    req.VideoIDs,
	}

	err := s.txManager.WithTransaction(c.Request.Context(), func(ctx context.Context) error {
		return s.playlists.Create(ctx, playlist)
	})
	if err != nil {
		s.logger.Error("create playlist", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create playlist"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"playlist": playlist})
}

// loadOwnPlaylist fetches the playlist and enforces ownership. When it
// returns nil the response has already been written.
func (s *Server) loadOwnPlaylist(c *gin.Context, uid string) *domain.Playlist {
	playlist, err := s.playlists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.logger.Error("get playlist", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load playlist"})
		return nil
	}
	if playlist == nil || playlist.UserID != uid {
		c.JSON(http.StatusNotFound, gin.H{"error": "playlist not found"})
		return nil
	}
	return playlist
}

func (s *Server) getPlaylist(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	playlist := s.loadOwnPlaylist(c, uid)
	if playlist == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{"playlist": playlist})
}

func (s *Server) playlistVideos(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	playlist := s.loadOwnPlaylist(c, uid)
	if playlist == nil {
		return
	}
	if len(playlist.VideoIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{"videos": []videoResponse{}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.fetchTimeout)
	defer cancel()

	result, err := s.aggregator.FetchVideos(ctx, feed.FetchRequest{
		VideoIDs:   playlist.VideoIDs,
		MaxResults: len(playlist.VideoIDs),
		Order:      domain.OrderDate,
	})
	if err != nil {
		s.logger.Error("playlist videos", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch videos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": toVideoResponses(result.Videos)})
}

func (s *Server) deletePlaylist(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	err := s.txManager.WithTransaction(c.Request.Context(), func(ctx context.Context) error {
		return s.playlists.Delete(ctx, c.Param("id"), uid)
	})
	if err != nil {
		s.logger.Error("delete playlist", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete playlist"})
		return
	}

	c.Status(http.StatusNoContent)
}

type addPlaylistVideoRequest struct {
	VideoID string `json:"videoId" binding:"required"`
}

func (s *Server) addPlaylistVideo(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	playlist := s.loadOwnPlaylist(c, uid)
	if playlist == nil {
		return
	}

	var req addPlaylistVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoId is required"})
		return
	}

	if err := s.playlists.AddVideo(c.Request.Context(), playlist.ID, req.VideoID); err != nil {
		s.logger.Error("add playlist video", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add video"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) removePlaylistVideo(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	playlist := s.loadOwnPlaylist(c, uid)
	if playlist == nil {
		return
	}

	if err := s.playlists.RemoveVideo(c.Request.Context(), playlist.ID, c.Param("videoID")); err != nil {
		s.logger.Error("remove playlist video", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove video"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) featuredCollections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"collections": domain.FeaturedCollections()})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
