package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"focusfeed/internal/domain"
	"focusfeed/internal/feed/mocks"
	"focusfeed/internal/source/youtube"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source *mocks.MockVideoSource
	tokens *mocks.MockTokenProvider

	service *Service
	logger  *slog.Logger
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockVideoSource(s.ctrl)
	s.tokens = mocks.NewMockTokenProvider(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewService(s.source, s.tokens, s.logger)
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("vid%03d", i)
	}
	return ids
}

func makeVideos(ids []string) []domain.Video {
	videos := make([]domain.Video, len(ids))
	for i, id := range ids {
		videos[i] = domain.Video{ID: id}
	}
	return videos
}

func (s *ServiceTestSuite) TestFetchVideos_NoInput() {
	_, err := s.service.FetchVideos(context.Background(), FetchRequest{})
	s.ErrorIs(err, ErrNoInput)
}

func (s *ServiceTestSuite) TestFetchVideos_BothModes() {
	_, err := s.service.FetchVideos(context.Background(), FetchRequest{
		ChannelIDs: []string{"ch1"},
		VideoIDs:   []string{"vid1"},
	})
	s.ErrorIs(err, ErrBothModes)
}

func (s *ServiceTestSuite) TestFetchVideos_InvalidOrder() {
	_, err := s.service.FetchVideos(context.Background(), FetchRequest{
		VideoIDs: []string{"vid1"},
		Order:    "rating",
	})
	s.ErrorIs(err, ErrInvalidOrder)
}

func (s *ServiceTestSuite) TestFetchVideos_ByIDs_SplitsIntoBatches() {
	ctx := context.Background()
	ids := makeIDs(120)

	s.source.EXPECT().VideosByIDs(ctx, "", ids[0:50]).Return(makeVideos(ids[0:50]), nil)
	s.source.EXPECT().VideosByIDs(ctx, "", ids[50:100]).Return(makeVideos(ids[50:100]), nil)
	s.source.EXPECT().VideosByIDs(ctx, "", ids[100:120]).Return(makeVideos(ids[100:120]), nil)

	result, err := s.service.FetchVideos(ctx, FetchRequest{VideoIDs: ids})

	s.NoError(err)
	s.Len(result.Videos, 120)
	s.Equal("vid000", result.Videos[0].ID)
	s.Equal("vid119", result.Videos[119].ID)
}

func (s *ServiceTestSuite) TestFetchVideos_ByIDs_BatchFailureFailsRequest() {
	ctx := context.Background()
	ids := makeIDs(60)

	s.source.EXPECT().VideosByIDs(ctx, "", ids[0:50]).Return(makeVideos(ids[0:50]), nil)
	s.source.EXPECT().VideosByIDs(ctx, "", ids[50:60]).Return(nil, errors.New("quota exceeded"))

	_, err := s.service.FetchVideos(ctx, FetchRequest{VideoIDs: ids})

	s.Error(err)
	s.Contains(err.Error(), "fetch video batch 1")
}

func (s *ServiceTestSuite) TestFetchVideos_ByIDs_ViewCountSortsAndTruncates() {
	ctx := context.Background()
	ids := []string{"a", "b", "c"}

	s.source.EXPECT().VideosByIDs(ctx, "", ids).Return([]domain.Video{
		{ID: "a", ViewCount: 10},
		{ID: "b", ViewCount: 300},
		{ID: "c", ViewCount: 200},
	}, nil)

	result, err := s.service.FetchVideos(ctx, FetchRequest{VideoIDs: ids, MaxResults: 2, Order: domain.OrderViewCount})

	s.NoError(err)
	s.Len(result.Videos, 2)
	s.Equal("b", result.Videos[0].ID)
	s.Equal("c", result.Videos[1].ID)
}

func (s *ServiceTestSuite) TestFetchVideos_ByChannels_MergesAndSortsByDate() {
	ctx := context.Background()
	now := time.Now()

	var ch1, ch2 []domain.Video
	for i := 0; i < 8; i++ {
		ch1 = append(ch1, domain.Video{ID: fmt.Sprintf("a%d", i), ChannelID: "ch1", PublishedAt: now.Add(-time.Duration(2*i) * time.Hour)})
	}
	for i := 0; i < 7; i++ {
		ch2 = append(ch2, domain.Video{ID: fmt.Sprintf("b%d", i), ChannelID: "ch2", PublishedAt: now.Add(-time.Duration(2*i+1) * time.Hour)})
	}

	s.source.EXPECT().SearchChannelVideos(gomock.Any(), "", "ch1", 10, domain.OrderDate, "").
		Return(&youtube.SearchPage{VideoIDs: idsOf(ch1)}, nil)
	s.source.EXPECT().VideosByIDs(gomock.Any(), "", idsOf(ch1)).Return(ch1, nil)
	s.source.EXPECT().SearchChannelVideos(gomock.Any(), "", "ch2", 10, domain.OrderDate, "").
		Return(&youtube.SearchPage{VideoIDs: idsOf(ch2)}, nil)
	s.source.EXPECT().VideosByIDs(gomock.Any(), "", idsOf(ch2)).Return(ch2, nil)

	result, err := s.service.FetchVideos(ctx, FetchRequest{ChannelIDs: []string{"ch1", "ch2"}, MaxResults: 10})

	s.NoError(err)
	s.Len(result.Videos, 10)
	for i := 1; i < len(result.Videos); i++ {
		s.False(result.Videos[i].PublishedAt.After(result.Videos[i-1].PublishedAt))
	}
	s.Equal("a0", result.Videos[0].ID)
	s.Equal("b0", result.Videos[1].ID)
}

func (s *ServiceTestSuite) TestFetchVideos_ByChannels_SkipsFailedChannel() {
	ctx := context.Background()
	now := time.Now()

	ch2 := []domain.Video{{ID: "b0", ChannelID: "ch2", PublishedAt: now}}

	s.source.EXPECT().SearchChannelVideos(gomock.Any(), "", "ch1", 10, domain.OrderDate, "").
		Return(nil, errors.New("channel not found"))
	s.source.EXPECT().SearchChannelVideos(gomock.Any(), "", "ch2", 10, domain.OrderDate, "").
		Return(&youtube.SearchPage{VideoIDs: []string{"b0"}}, nil)
	s.source.EXPECT().VideosByIDs(gomock.Any(), "", []string{"b0"}).Return(ch2, nil)

	result, err := s.service.FetchVideos(ctx, FetchRequest{ChannelIDs: []string{"ch1", "ch2"}})

	s.NoError(err)
	s.Len(result.Videos, 1)
	s.Equal("b0", result.Videos[0].ID)
}

func (s *ServiceTestSuite) TestFetchVideos_ByChannels_EmptyChannelContributesNothing() {
	ctx := context.Background()

	s.source.EXPECT().SearchChannelVideos(gomock.Any(), "", "ch1", 10, domain.OrderDate, "").
		Return(&youtube.SearchPage{}, nil)

	result, err := s.service.FetchVideos(ctx, FetchRequest{ChannelIDs: []string{"ch1"}})

	s.NoError(err)
	s.Empty(result.Videos)
}

func (s *ServiceTestSuite) TestFetchVideos_ByChannels_MissingAPIKeyFailsRequest() {
	ctx := context.Background()

	s.source.EXPECT().SearchChannelVideos(gomock.Any(), "", gomock.Any(), 10, domain.OrderDate, "").
		Return(nil, youtube.ErrMissingAPIKey).Times(2)

	_, err := s.service.FetchVideos(ctx, FetchRequest{ChannelIDs: []string{"ch1", "ch2"}})

	s.ErrorIs(err, youtube.ErrMissingAPIKey)
}

func (s *ServiceTestSuite) TestFetchVideos_ByChannels_CancelledContextFailsRequest() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.source.EXPECT().SearchChannelVideos(gomock.Any(), "", gomock.Any(), 10, domain.OrderDate, "").
		Return(nil, context.Canceled).AnyTimes()

	_, err := s.service.FetchVideos(ctx, FetchRequest{ChannelIDs: []string{"ch1", "ch2"}})

	s.ErrorIs(err, context.Canceled)
}

func (s *ServiceTestSuite) TestFetchVideos_ByChannels_CapsChannelList() {
	ctx := context.Background()

	var channels []string
	for i := 0; i < 12; i++ {
		channels = append(channels, fmt.Sprintf("ch%d", i))
	}

	for i := 0; i < MaxChannelsPerRequest; i++ {
		s.source.EXPECT().SearchChannelVideos(gomock.Any(), "", channels[i], 10, domain.OrderDate, "").
			Return(&youtube.SearchPage{}, nil)
	}

	result, err := s.service.FetchVideos(ctx, FetchRequest{ChannelIDs: channels})

	s.NoError(err)
	s.Empty(result.Videos)
}

func (s *ServiceTestSuite) TestFetchUserFeed_UsesBearer() {
	ctx := context.Background()
	now := time.Now()

	s.tokens.EXPECT().ValidToken(ctx, "user-1").Return("tok-abc", nil)
	s.source.EXPECT().SearchChannelVideos(ctx, "tok-abc", "ch1", 10, domain.OrderDate, "page-2").
		Return(&youtube.SearchPage{
			VideoIDs:      []string{"a"},
			PageInfo:      domain.PageInfo{TotalResults: 42, ResultsPerPage: 10},
			NextPageToken: "page-3",
		}, nil)
	s.source.EXPECT().VideosByIDs(ctx, "tok-abc", []string{"a"}).
		Return([]domain.Video{{ID: "a", PublishedAt: now}}, nil)

	page, err := s.service.FetchUserFeed(ctx, "user-1", "ch1", 10, domain.OrderDate, "page-2")

	s.NoError(err)
	s.Len(page.Items, 1)
	s.Equal(42, page.PageInfo.TotalResults)
	s.Equal("page-3", page.NextPageToken)
}

func (s *ServiceTestSuite) TestFetchUserFeed_TokenFailurePropagates() {
	ctx := context.Background()
	tokenErr := errors.New("not connected")

	s.tokens.EXPECT().ValidToken(ctx, "user-1").Return("", tokenErr)

	_, err := s.service.FetchUserFeed(ctx, "user-1", "ch1", 10, domain.OrderDate, "")

	s.ErrorIs(err, tokenErr)
}

func (s *ServiceTestSuite) TestFetchSubscriptions() {
	ctx := context.Background()

	s.tokens.EXPECT().ValidToken(ctx, "user-1").Return("tok-abc", nil)
	s.source.EXPECT().Subscriptions(ctx, "tok-abc", 50, "").
		Return(&youtube.SubscriptionPage{
			Items: []domain.Subscription{{ChannelID: "ch1", Title: "Channel One"}},
		}, nil)

	page, err := s.service.FetchSubscriptions(ctx, "user-1", 0, "")

	s.NoError(err)
	s.Len(page.Items, 1)
	s.Equal("ch1", page.Items[0].ChannelID)
}

func idsOf(videos []domain.Video) []string {
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	return ids
}
