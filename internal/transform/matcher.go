package transform

import (
	"slices"

	"github.com/desertthunder/tubecorr/internal/models"
)

// Matcher defaults.
const (
	DefaultThreshold = 0.3
	DefaultTopK      = 5
)

// Match is one scored candidate video for a track.
type Match struct {
	Video models.Video
	Score float64
}

// Matcher ranks candidate videos for a track. Candidates scoring at or below Threshold are
// discarded and at most TopK are returned.
type Matcher struct {
	Threshold float64
	TopK      int
}

// NewMatcher creates a [Matcher]. A non-positive topK falls back to [DefaultTopK] and a threshold
// outside [0, 1) falls back to [DefaultThreshold].
func NewMatcher(threshold float64, topK int) *Matcher {
	if threshold < 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Matcher{Threshold: threshold, TopK: topK}
}

// FindMatches compares track against every video and returns the best matches, highest score
// first. Ties keep the input order of videos. A video listed more than once, for example from
// two region charts, is matched once at its best score.
func (m *Matcher) FindMatches(track models.Track, videos []models.Video) []Match {
	return m.rank(newTrackKey(track), prepare(videos))
}

func prepare(videos []models.Video) []candidate {
	cands := make([]candidate, len(videos))
	for i, v := range videos {
		cands[i] = newCandidate(v, i)
	}
	return cands
}

func (m *Matcher) rank(t trackKey, cands []candidate) []Match {
	var matches []Match
	for _, c := range cands {
		s := score(t, c)
		if s > m.Threshold {
			matches = append(matches, Match{Video: c.video, Score: s})
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	matches = bestPerVideo(matches)
	if len(matches) > m.TopK {
		matches = matches[:m.TopK]
	}
	return matches
}

// bestPerVideo keeps the first, and so highest scoring, match of each video id.
func bestPerVideo(matches []Match) []Match {
	seen := make(map[string]bool, len(matches))
	return slices.DeleteFunc(matches, func(m Match) bool {
		if m.Video.VideoID == "" {
			return false
		}
		if seen[m.Video.VideoID] {
			return true
		}
		seen[m.Video.VideoID] = true
		return false
	})
}
