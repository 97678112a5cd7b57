package transform

import (
	"reflect"
	"testing"

	"github.com/desertthunder/tubecorr/internal/models"
)

func TestEngagementMetrics(t *testing.T) {
	tc := []struct {
		name                     string
		views, likes, comments   int64
		likeRate, rate, scoreOut float64
	}{
		{name: "zero views", views: 0, likes: 10, comments: 5},
		{name: "typical", views: 1000, likes: 40, comments: 10, likeRate: 0.04, rate: 0.05, scoreOut: 50},
		{name: "score capped", views: 100, likes: 50, comments: 50, likeRate: 0.5, rate: 1, scoreOut: 100},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := EngagementMetrics(tt.views, tt.likes, tt.comments)
			if !approx(got.LikeRate, tt.likeRate) || !approx(got.EngagementRate, tt.rate) || !approx(got.EngagementScore, tt.scoreOut) {
				t.Errorf("EngagementMetrics() = %+v", got)
			}
		})
	}
}

func TestEnrichVideoZeroViews(t *testing.T) {
	got := EnrichVideo(models.Video{VideoID: "v", LikeCount: 100, CommentCount: 3})
	if got.LikeRate != 0 || got.CommentRate != 0 || got.EngagementRate != 0 || got.EngagementScore != 0 {
		t.Errorf("rates with zero views = %v %v %v %v", got.LikeRate, got.CommentRate, got.EngagementRate, got.EngagementScore)
	}
}

func TestEnrichIdempotent(t *testing.T) {
	t.Run("track", func(t *testing.T) {
		tr := models.Track{Name: "Hello", ArtistName: "Adele", Artists: []string{"Adele"}, Popularity: 79, DurationSeconds: 295}
		once := EnrichTrack(tr)
		if twice := EnrichTrack(once); !reflect.DeepEqual(once, twice) {
			t.Errorf("EnrichTrack not idempotent:\n%+v\n%+v", once, twice)
		}
	})

	t.Run("features", func(t *testing.T) {
		f := models.AudioFeatures{Danceability: 0.7, Energy: 0.5, Valence: 0.3, Acousticness: 0.1}
		once := EnrichFeatures(f)
		if twice := EnrichFeatures(once); !reflect.DeepEqual(once, twice) {
			t.Errorf("EnrichFeatures not idempotent:\n%+v\n%+v", once, twice)
		}
	})

	t.Run("video", func(t *testing.T) {
		v := models.Video{Title: "Song (Official Audio)", ViewCount: 5000, LikeCount: 20, Tags: []string{"music"}, DurationSeconds: 200}
		once := EnrichVideo(v)
		if twice := EnrichVideo(once); !reflect.DeepEqual(once, twice) {
			t.Errorf("EnrichVideo not idempotent:\n%+v\n%+v", once, twice)
		}
	})
}

func TestIsMusicVideo(t *testing.T) {
	tc := []struct {
		name  string
		video models.Video
		want  bool
	}{
		{name: "two title keywords", video: models.Video{Title: "New Song (Official Video)"}, want: true},
		{name: "one title keyword", video: models.Video{Title: "Behind the video"}, want: false},
		{name: "tag hits", video: models.Video{Title: "x", Tags: []string{"music", "lyrics", "album"}}, want: true},
		{name: "search origin", video: models.Video{Title: "x", SearchArtist: "a", SearchTrack: "b"}, want: true},
		{name: "half search origin", video: models.Video{Title: "x", SearchArtist: "a"}, want: false},
		{name: "unrelated", video: models.Video{Title: "cat compilation"}, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMusicVideo(tt.video); got != tt.want {
				t.Errorf("IsMusicVideo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOfficial(t *testing.T) {
	tc := []struct {
		name  string
		video models.Video
		want  bool
	}{
		{name: "vevo channel", video: models.Video{Title: "Hello", ChannelTitle: "AdeleVEVO"}, want: true},
		{name: "records channel", video: models.Video{Title: "Hi", ChannelTitle: "XL Records"}, want: true},
		{name: "official title", video: models.Video{Title: "Hello (OFFICIAL)"}, want: true},
		{name: "fan upload", video: models.Video{Title: "hello cover", ChannelTitle: "fan"}, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOfficial(tt.video); got != tt.want {
				t.Errorf("IsOfficial() = %v, want %v", got, tt.want)
			}
		})
	}
}
