package transform

import (
	"slices"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/desertthunder/tubecorr/internal/models"
)

const (
	nameWeight   = 0.7
	artistWeight = 0.3
)

// Ratio is the Ratcliff/Obershelp similarity of a and b: twice the number of characters in
// the longest matching blocks over the total length. Two empty strings have ratio 1.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// TokenSetRatio compares the words a and b have in common. Words are runs of letters and
// digits, so "hello" is a word of "adele - hello (official video)" but not of "othello".
// When every word of one side appears in the other the result is 1; otherwise it is the best
// [Ratio] among the shared words and each side's full sorted word set.
func TokenSetRatio(a, b string) float64 {
	wa, wb := words(a), words(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for w := range wa {
		if _, ok := wb[w]; ok {
			common = append(common, w)
		} else {
			onlyA = append(onlyA, w)
		}
	}
	for w := range wb {
		if _, ok := wa[w]; !ok {
			onlyB = append(onlyB, w)
		}
	}
	slices.Sort(common)
	slices.Sort(onlyA)
	slices.Sort(onlyB)

	joined := strings.Join(common, " ")
	withA := strings.TrimSpace(joined + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(joined + " " + strings.Join(onlyB, " "))

	best := Ratio(withA, withB)
	if len(common) > 0 {
		best = max(best, Ratio(joined, withA), Ratio(joined, withB))
	}
	return best
}

// NameSimilarity scores a track name against a video title in [0, 1]. Both inputs are expected
// lower-cased. It is the better of [Ratio] and [TokenSetRatio], so a title that contains every
// word of the name scores 1. Letters of the name hidden inside a longer word do not count.
// Empty inputs score 0.
func NameSimilarity(name, title string) float64 {
	if name == "" || title == "" {
		return 0
	}
	return max(Ratio(name, title), TokenSetRatio(name, title))
}

// Similarity scores a track against a video.
//
// A video found through a directed search for exactly this artist and track scores 1.
// Otherwise the score is 0.7 * name similarity + 0.3 * (artist appears in title).
func Similarity(track models.Track, video models.Video) float64 {
	return score(newTrackKey(track), newCandidate(video, 0))
}

type trackKey struct {
	name   string
	artist string
}

func newTrackKey(t models.Track) trackKey {
	return trackKey{name: strings.ToLower(t.Name), artist: strings.ToLower(t.ArtistName)}
}

// candidate is a video with its lower-cased comparison fields computed once.
type candidate struct {
	video        models.Video
	index        int
	title        string
	searchArtist string
	searchTrack  string
}

func newCandidate(v models.Video, index int) candidate {
	return candidate{
		video:        v,
		index:        index,
		title:        strings.ToLower(v.Title),
		searchArtist: strings.ToLower(v.SearchArtist),
		searchTrack:  strings.ToLower(v.SearchTrack),
	}
}

func score(t trackKey, c candidate) float64 {
	if c.searchArtist != "" && c.searchTrack != "" &&
		c.searchArtist == t.artist && c.searchTrack == t.name {
		return 1
	}

	artistInTitle := 0.0
	if t.artist != "" && strings.Contains(c.title, t.artist) {
		artistInTitle = 1
	}

	return NameSimilarity(t.name, c.title)*nameWeight + artistInTitle*artistWeight
}

// runes splits s into single-character strings, the element type difflib compares.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// words is the set of letter and digit runs in s.
func words(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[w] = struct{}{}
	}
	return set
}
