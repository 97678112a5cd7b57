// YouTube Data API v3 implementation of [VideoSource]
//
// Response types based on https://developers.google.com/youtube/v3/docs/videos
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/tubecorr/internal/models"
	"github.com/desertthunder/tubecorr/internal/shared"
)

const (
	youtubeBaseURL = "https://www.googleapis.com/youtube/v3"
	youtubePageMax = 50
	videoParts     = "snippet,statistics,contentDetails,status"
)

// YouTubeSnippet is the snippet part of a video resource.
type YouTubeSnippet struct {
	PublishedAt          string   `json:"publishedAt"`
	ChannelID            string   `json:"channelId"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	ChannelTitle         string   `json:"channelTitle"`
	Tags                 []string `json:"tags"`
	CategoryID           string   `json:"categoryId"`
	DefaultLanguage      string   `json:"defaultLanguage"`
	DefaultAudioLanguage string   `json:"defaultAudioLanguage"`
}

// YouTubeStatistics is the statistics part of a video resource. Counts are decimal strings and
// may be absent when the owner hides them.
type YouTubeStatistics struct {
	ViewCount     *string `json:"viewCount"`
	LikeCount     *string `json:"likeCount"`
	DislikeCount  *string `json:"dislikeCount"`
	FavoriteCount *string `json:"favoriteCount"`
	CommentCount  *string `json:"commentCount"`
}

// YouTubeContentDetails is the contentDetails part of a video resource.
type YouTubeContentDetails struct {
	Duration        string `json:"duration"`
	Dimension       string `json:"dimension"`
	Definition      string `json:"definition"`
	Caption         string `json:"caption"`
	LicensedContent bool   `json:"licensedContent"`
}

// YouTubeStatus is the status part of a video resource.
type YouTubeStatus struct {
	UploadStatus        string `json:"uploadStatus"`
	PrivacyStatus       string `json:"privacyStatus"`
	License             string `json:"license"`
	Embeddable          *bool  `json:"embeddable"`
	PublicStatsViewable *bool  `json:"publicStatsViewable"`
}

// YouTubeVideo is a video resource.
type YouTubeVideo struct {
	ID             string                `json:"id"`
	Snippet        YouTubeSnippet        `json:"snippet"`
	Statistics     YouTubeStatistics     `json:"statistics"`
	ContentDetails YouTubeContentDetails `json:"contentDetails"`
	Status         *YouTubeStatus        `json:"status"`
}

// YouTubeVideoList is the response of videos.list.
type YouTubeVideoList struct {
	Items         []YouTubeVideo `json:"items"`
	NextPageToken string         `json:"nextPageToken"`
}

// YouTubeSearchList is the response of search.list.
type YouTubeSearchList struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// YouTubeService implements [VideoSource] for the YouTube Data API.
type YouTubeService struct {
	*client
	apiKey  string
	baseURL string
}

// NewYouTubeService creates a new YouTube service from the configured API key.
func NewYouTubeService(cfg shared.YouTubeConfig, requestsPerSecond float64, opts ...Option) (*YouTubeService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing youtube api_key", shared.ErrMissingCredentials)
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = youtubeBaseURL
	}

	return &YouTubeService{
		client:  newClient("youtube", requestsPerSecond, opts...),
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
	}, nil
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

func (y *YouTubeService) endpoint(resource string, params url.Values) string {
	params.Set("key", y.apiKey)
	return y.baseURL + "/" + resource + "?" + params.Encode()
}

func (y *YouTubeService) get(ctx context.Context, resource string, params url.Values, result any) error {
	err := y.getJSON(ctx, y.http, y.endpoint(resource, params), result)

	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden && strings.Contains(apiErr.Body, "quotaExceeded") {
		apiErr.Sentinel = shared.ErrQuotaExceeded
	}
	return err
}

// PopularVideos pages through the most-popular chart of region until limit videos are collected.
func (y *YouTubeService) PopularVideos(ctx context.Context, region string, limit int) ([]models.RawVideo, error) {
	if region == "" {
		return nil, fmt.Errorf("%w: region code", shared.ErrMissingArgument)
	}

	extractedAt := y.timestamp()
	var videos []models.RawVideo
	pageToken := ""

	for len(videos) < limit {
		params := url.Values{
			"part":       {videoParts},
			"chart":      {"mostPopular"},
			"regionCode": {region},
			"maxResults": {strconv.Itoa(min(youtubePageMax, limit-len(videos)))},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page YouTubeVideoList
		if err := y.get(ctx, "videos", params, &page); err != nil {
			return videos, fmt.Errorf("popular videos %s: %w", region, err)
		}

		for _, item := range page.Items {
			raw := rawVideo(item, extractedAt)
			raw.SourceRegion = models.V(region)
			videos = append(videos, raw)
		}

		if pageToken = page.NextPageToken; pageToken == "" || len(page.Items) == 0 {
			break
		}
	}

	return videos, nil
}

// SearchVideos searches for "{artist} {track} official music video" and looks up the details
// of the results. Every returned video carries the search metadata.
func (y *YouTubeService) SearchVideos(ctx context.Context, artist, track string, limit int) ([]models.RawVideo, error) {
	if strings.TrimSpace(artist+track) == "" {
		return nil, fmt.Errorf("%w: artist or track", shared.ErrMissingArgument)
	}

	extractedAt := y.timestamp()
	query := strings.TrimSpace(fmt.Sprintf("%s %s official music video", artist, track))
	var videos []models.RawVideo
	pageToken := ""

	for len(videos) < limit {
		params := url.Values{
			"part":       {"snippet"},
			"q":          {query},
			"type":       {"video"},
			"order":      {"relevance"},
			"maxResults": {strconv.Itoa(min(youtubePageMax, limit-len(videos)))},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var search YouTubeSearchList
		if err := y.get(ctx, "search", params, &search); err != nil {
			return videos, fmt.Errorf("search %q: %w", query, err)
		}

		ids := make([]string, 0, len(search.Items))
		for _, item := range search.Items {
			if item.ID.VideoID != "" {
				ids = append(ids, item.ID.VideoID)
			}
		}
		if len(ids) == 0 {
			break
		}

		var details YouTubeVideoList
		err := y.get(ctx, "videos", url.Values{"part": {videoParts}, "id": {strings.Join(ids, ",")}}, &details)
		if err != nil {
			return videos, fmt.Errorf("video details: %w", err)
		}

		for _, item := range details.Items {
			raw := rawVideo(item, extractedAt)
			raw.SearchArtist = models.V(artist)
			raw.SearchTrack = models.V(track)
			videos = append(videos, raw)
		}

		if pageToken = search.NextPageToken; pageToken == "" {
			break
		}
	}

	return videos, nil
}

// rawVideo flattens snippet, statistics, contentDetails and status into one record. Parts the
// API omitted stay absent so the normalizer applies its defaults.
func rawVideo(v YouTubeVideo, extractedAt string) models.RawVideo {
	raw := models.RawVideo{
		VideoID:              models.V(v.ID),
		Title:                models.V(v.Snippet.Title),
		Description:          models.V(v.Snippet.Description),
		ChannelID:            models.V(v.Snippet.ChannelID),
		ChannelTitle:         models.V(v.Snippet.ChannelTitle),
		PublishedAt:          models.V(v.Snippet.PublishedAt),
		Tags:                 models.V(v.Snippet.Tags),
		CategoryID:           models.V(v.Snippet.CategoryID),
		DefaultLanguage:      models.V(v.Snippet.DefaultLanguage),
		DefaultAudioLanguage: models.V(v.Snippet.DefaultAudioLanguage),
		Duration:             models.V(v.ContentDetails.Duration),
		Dimension:            models.V(v.ContentDetails.Dimension),
		Definition:           models.V(v.ContentDetails.Definition),
		Caption:              models.V(v.ContentDetails.Caption),
		LicensedContent:      models.V(v.ContentDetails.LicensedContent),
		ExtractionTimestamp:  models.V(extractedAt),
		ViewCount:            optional(v.Statistics.ViewCount),
		LikeCount:            optional(v.Statistics.LikeCount),
		DislikeCount:         optional(v.Statistics.DislikeCount),
		FavoriteCount:        optional(v.Statistics.FavoriteCount),
		CommentCount:         optional(v.Statistics.CommentCount),
	}

	if s := v.Status; s != nil {
		raw.UploadStatus = models.V(s.UploadStatus)
		raw.PrivacyStatus = models.V(s.PrivacyStatus)
		raw.License = models.V(s.License)
		raw.Embeddable = optional(s.Embeddable)
		raw.PublicStatsViewable = optional(s.PublicStatsViewable)
	}
	return raw
}

func optional[T any](p *T) models.Value {
	if p == nil {
		return models.Value{}
	}
	return models.V(*p)
}
