package server

//go:generate mockgen -source=server.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"focusfeed/internal/domain"
	"focusfeed/internal/feed"
	"focusfeed/internal/source/youtube"
)

// Aggregator is the video aggregation service consumed by the handlers.
type Aggregator interface {
	FetchVideos(ctx context.Context, req feed.FetchRequest) (*feed.FetchResult, error)
	FetchUserFeed(ctx context.Context, userID, channelID string, maxResults int, order domain.SortOrder, pageToken string) (*feed.FeedPage, error)
	FetchSubscriptions(ctx context.Context, userID string, maxResults int, pageToken string) (*youtube.SubscriptionPage, error)
}

// TokenManager is the OAuth credential lifecycle consumed by the auth
// handlers.
type TokenManager interface {
	AuthURL(state string) string
	Connect(ctx context.Context, userID, code string) error
	HasConnection(ctx context.Context, userID string) bool
	Disconnect(ctx context.Context, userID string) error
}

// ChannelSearcher finds channels by free-text query for the setup flow.
type ChannelSearcher interface {
	SearchChannels(ctx context.Context, query string, maxResults int) ([]domain.ChannelResult, error)
}

// ChannelStore persists per-user channel selections.
type ChannelStore interface {
	Add(ctx context.Context, channel *domain.Channel) error
	ListByUser(ctx context.Context, userID string) ([]domain.Channel, error)
	Remove(ctx context.Context, userID, channelID string) error
}

// PlaylistStore persists user playlists.
type PlaylistStore interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	Get(ctx context.Context, id string) (*domain.Playlist, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Playlist, error)
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	Delete(ctx context.Context, id, userID string) error
}

// TransactionManager wraps multi-statement writes.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Config struct {
	AllowedOrigins []string
	FetchTimeout   time.Duration
}

type Server struct {
	aggregator   Aggregator
	tokens       TokenManager
	search       ChannelSearcher
	channels     ChannelStore
	playlists    PlaylistStore
	txManager    TransactionManager
	origins      []string
	fetchTimeout time.Duration
	logger       *slog.Logger
}

func New(
	aggregator Aggregator,
	tokens TokenManager,
	search ChannelSearcher,
	channels ChannelStore,
	playlists PlaylistStore,
	txManager TransactionManager,
	cfg Config,
	logger *slog.Logger,
) *Server {
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout == 0 {
		fetchTimeout = 10 * time.Second
	}

	return &Server{
		aggregator:   aggregator,
		tokens:       tokens,
		search:       search,
		channels:     channels,
		playlists:    playlists,
		txManager:    txManager,
		origins:      cfg.AllowedOrigins,
		fetchTimeout: fetchTimeout,
		logger:       logger.With("component", "server"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(s.origins) > 0 {
		corsCfg.AllowOrigins = s.origins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-User-ID")
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.POST("/videos", s.fetchVideos)
		api.GET("/feed", s.userFeed)
		api.GET("/subscriptions", s.subscriptions)

		api.GET("/auth/url", s.authURL)
		api.GET("/auth/callback", s.authCallback)
		api.GET("/auth/status", s.authStatus)
		api.DELETE("/auth", s.disconnect)

		api.GET("/channels/search", s.searchChannels)
		api.GET("/channels", s.listChannels)
		api.POST("/channels", s.addChannel)
		api.DELETE("/channels/:channelID", s.removeChannel)

		api.GET("/playlists", s.listPlaylists)
		api.POST("/playlists", s.createPlaylist)
		api.GET("/playlists/:id", s.getPlaylist)
		api.GET("/playlists/:id/videos", s.playlistVideos)
		api.DELETE("/playlists/:id", s.deletePlaylist)
		api.POST("/playlists/:id/videos", s.addPlaylistVideo)
		api.DELETE("/playlists/:id/videos/:videoID", s.removePlaylistVideo)

		api.GET("/collections/featured", s.featuredCollections)
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

// userID pulls the caller identity from the X-User-ID header. Session
// handling lives in the fronting proxy; this service only needs the
// opaque id.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}
