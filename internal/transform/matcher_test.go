package transform

import (
	"fmt"
	"testing"

	"github.com/desertthunder/tubecorr/internal/models"
)

func adeleHello() models.Track {
	return models.Track{TrackID: "t1", Name: "Hello", ArtistName: "Adele", Popularity: 90, DurationSeconds: 295}
}

func TestNameSimilarity(t *testing.T) {
	tc := []struct {
		name  string
		a, b  string
		want  float64
		above float64
	}{
		{name: "identical", a: "hello", b: "hello", want: 1},
		{name: "contained", a: "hello", b: "adele - hello (official video)", want: 1},
		{name: "empty name", a: "", b: "hello", want: 0},
		{name: "empty title", a: "hello", b: "", want: 0},
		{name: "disjoint", a: "xyz", b: "adele", want: 0},
		{name: "close typo", a: "hello", b: "helo", above: 0.85},
		{name: "every word present", a: "skinny love", b: "bon iver - love, skinny (live)", want: 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NameSimilarity(tt.a, tt.b)
			if tt.above > 0 {
				if got <= tt.above || got > 1 {
					t.Errorf("NameSimilarity(%q, %q) = %v, want in (%v, 1]", tt.a, tt.b, got, tt.above)
				}
				return
			}
			if !approx(got, tt.want) {
				t.Errorf("NameSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNameSimilarityWordBoundaries(t *testing.T) {
	tc := []struct {
		name, title string
		below       float64
	}{
		{name: "hello", title: "othello full movie", below: 0.5},
		{name: "me", title: "documentary about something", below: 0.2},
		{name: "me", title: "memories of summer", below: 0.25},
	}

	for _, tt := range tc {
		t.Run(tt.title, func(t *testing.T) {
			if got := NameSimilarity(tt.name, tt.title); got >= tt.below {
				t.Errorf("NameSimilarity(%q, %q) = %v, want below %v", tt.name, tt.title, got, tt.below)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio("abcd", "bcde"); !approx(got, 0.75) {
		t.Errorf("Ratio() = %v, want 0.75", got)
	}
	if got := Ratio("héllo", "héllo"); got != 1 {
		t.Errorf("Ratio() = %v, want 1 for identical multibyte strings", got)
	}
}

func TestSimilarity(t *testing.T) {
	track := adeleHello()

	t.Run("search short-circuit ignores title", func(t *testing.T) {
		v := models.Video{Title: "completely unrelated", SearchArtist: "ADELE", SearchTrack: "hello"}
		if got := Similarity(track, v); got != 1 {
			t.Errorf("Similarity() = %v, want 1", got)
		}
	})

	t.Run("search metadata for another track", func(t *testing.T) {
		v := models.Video{Title: "completely unrelated", SearchArtist: "Adele", SearchTrack: "Skyfall"}
		if got := Similarity(track, v); got >= 0.3 {
			t.Errorf("Similarity() = %v, want textual score below threshold", got)
		}
	})

	t.Run("title contains name and artist", func(t *testing.T) {
		v := models.Video{Title: "Adele - Hello (Official Video)"}
		if got := Similarity(track, v); got <= 0.7 {
			t.Errorf("Similarity() = %v, want > 0.7", got)
		}
	})

	t.Run("empty artist never counts as in title", func(t *testing.T) {
		tr := models.Track{Name: "xyz"}
		if got := Similarity(tr, models.Video{Title: "abc"}); got != 0 {
			t.Errorf("Similarity() = %v, want 0", got)
		}
	})
}

func TestMatcherFindMatches(t *testing.T) {
	track := adeleHello()

	t.Run("threshold is exclusive", func(t *testing.T) {
		// Artist in title with no name overlap scores exactly 0.3.
		tr := models.Track{Name: "xyz", ArtistName: "adele"}
		got := NewMatcher(DefaultThreshold, DefaultTopK).FindMatches(tr, []models.Video{{VideoID: "v", Title: "adele qqq"}})
		if len(got) != 0 {
			t.Errorf("FindMatches() = %d matches, want none at score 0.3", len(got))
		}
	})

	t.Run("top k and ordering", func(t *testing.T) {
		var videos []models.Video
		titles := []string{"hello", "adele hello", "helo", "hell", "hello adele live", "hallo", "adele - hello", "yellow"}
		for i, title := range titles {
			videos = append(videos, models.Video{VideoID: fmt.Sprintf("v%d", i), Title: title})
		}

		got := NewMatcher(DefaultThreshold, DefaultTopK).FindMatches(track, videos)
		if len(got) == 0 || len(got) > DefaultTopK {
			t.Fatalf("FindMatches() returned %d matches, want 1..%d", len(got), DefaultTopK)
		}
		for i, m := range got {
			if m.Score <= DefaultThreshold {
				t.Errorf("match %d score %v at or below threshold", i, m.Score)
			}
			if i > 0 && m.Score > got[i-1].Score {
				t.Errorf("match %d score %v above previous %v", i, m.Score, got[i-1].Score)
			}
		}
	})

	t.Run("ties keep input order", func(t *testing.T) {
		videos := []models.Video{
			{VideoID: "first", Title: "Adele Hello"},
			{VideoID: "second", Title: "Adele Hello"},
		}
		got := NewMatcher(DefaultThreshold, DefaultTopK).FindMatches(track, videos)
		if len(got) != 2 || got[0].Video.VideoID != "first" || got[1].Video.VideoID != "second" {
			t.Errorf("FindMatches() order = %v", got)
		}
	})

	t.Run("name hidden inside another word", func(t *testing.T) {
		tr := models.Track{Name: "Me", ArtistName: "Zz"}
		videos := []models.Video{
			{VideoID: "doc", Title: "Documentary about something"},
			{VideoID: "mem", Title: "Memories of summer"},
		}
		if got := NewMatcher(DefaultThreshold, DefaultTopK).FindMatches(tr, videos); len(got) != 0 {
			t.Errorf("FindMatches() = %v, want none", got)
		}
	})

	t.Run("one match per video", func(t *testing.T) {
		videos := []models.Video{
			{VideoID: "v1", Title: "Hello (Live)", SourceRegion: "GB"},
			{VideoID: "v1", Title: "Hello (Live)", SourceRegion: "US"},
			{VideoID: "v1", Title: "Hello (Live)", SearchArtist: "Adele", SearchTrack: "Hello"},
		}
		got := NewMatcher(DefaultThreshold, DefaultTopK).FindMatches(track, videos)
		if len(got) != 1 || got[0].Score != 1 || got[0].Video.SearchTrack != "Hello" {
			t.Errorf("FindMatches() = %+v, want the search appearance only", got)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		if got := NewMatcher(DefaultThreshold, DefaultTopK).FindMatches(track, nil); len(got) != 0 {
			t.Errorf("FindMatches(nil) = %v, want empty", got)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		videos := []models.Video{{VideoID: "a", Title: "hello from adele"}, {VideoID: "b", Title: "hello"}}
		m := NewMatcher(DefaultThreshold, DefaultTopK)
		first, second := m.FindMatches(track, videos), m.FindMatches(track, videos)
		if fmt.Sprint(first) != fmt.Sprint(second) {
			t.Errorf("FindMatches() not deterministic: %v vs %v", first, second)
		}
	})
}

func TestNewMatcherDefaults(t *testing.T) {
	tc := []struct {
		threshold float64
		topK      int
		want      Matcher
	}{
		{threshold: 0.5, topK: 3, want: Matcher{Threshold: 0.5, TopK: 3}},
		{threshold: -1, topK: 0, want: Matcher{Threshold: DefaultThreshold, TopK: DefaultTopK}},
		{threshold: 1, topK: -2, want: Matcher{Threshold: DefaultThreshold, TopK: DefaultTopK}},
	}

	for _, tt := range tc {
		t.Run(fmt.Sprint(tt.threshold, tt.topK), func(t *testing.T) {
			if got := NewMatcher(tt.threshold, tt.topK); *got != tt.want {
				t.Errorf("NewMatcher() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}
