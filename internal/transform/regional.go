package transform

import (
	"slices"
	"time"

	"github.com/desertthunder/tubecorr/internal/models"
)

const (
	unknownKey = "unknown"
	topN       = 5
)

// counter counts keys and remembers first-seen order for tie breaking.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns the n most frequent keys, ties in first-seen order.
func (c *counter) top(n int) []models.RankedCount {
	ranked := make([]models.RankedCount, len(c.order))
	for i, key := range c.order {
		ranked[i] = models.RankedCount{Name: key, Count: c.counts[key]}
	}
	slices.SortStableFunc(ranked, func(a, b models.RankedCount) int {
		return b.Count - a.Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// regionState is the running total for one region. It is discarded by Finalize.
type regionState struct {
	code       string
	videos     int
	views      int64
	likes      int64
	comments   int64
	duration   int64
	music      int
	official   int
	channels   *counter
	categories *counter
}

// RegionFold accumulates videos by region code in a single left-to-right pass.
type RegionFold struct {
	order   []string
	regions map[string]*regionState
}

// NewRegionFold returns an empty accumulator.
func NewRegionFold() *RegionFold {
	return &RegionFold{regions: make(map[string]*regionState)}
}

// RegionOf returns the aggregation key of v, "unknown" when it carries no region.
func RegionOf(v models.Video) string {
	return orUnknown(v.SourceRegion)
}

// Add folds one video into the totals of its region and returns the fold.
func (f *RegionFold) Add(v models.Video) *RegionFold {
	code := RegionOf(v)
	st, ok := f.regions[code]
	if !ok {
		st = &regionState{code: code, channels: newCounter(), categories: newCounter()}
		f.regions[code] = st
		f.order = append(f.order, code)
	}

	st.videos++
	st.views += v.ViewCount
	st.likes += v.LikeCount
	st.comments += v.CommentCount
	st.duration += int64(v.DurationSeconds)
	if v.IsMusicVideo {
		st.music++
	}
	if v.IsOfficial {
		st.official++
	}
	st.channels.add(orUnknown(v.ChannelTitle))
	st.categories.add(orUnknown(v.CategoryID))
	return f
}

// Len returns the number of regions seen so far.
func (f *RegionFold) Len() int { return len(f.order) }

// Finalize computes averages and top-5 rankings for every region in first-seen order.
func (f *RegionFold) Finalize(now time.Time) []models.RegionalAggregate {
	out := make([]models.RegionalAggregate, 0, len(f.order))
	for _, code := range f.order {
		out = append(out, f.regions[code].finalize(now))
	}
	return out
}

func (st *regionState) finalize(now time.Time) models.RegionalAggregate {
	agg := models.RegionalAggregate{
		RegionCode:          st.code,
		TotalVideos:         st.videos,
		TotalViews:          st.views,
		TotalLikes:          st.likes,
		TotalComments:       st.comments,
		MusicVideosCount:    st.music,
		OfficialVideosCount: st.official,
		Top5Channels:        st.channels.top(topN),
		Top5Categories:      st.categories.top(topN),
		CreatedAt:           now,
	}

	if st.videos > 0 {
		n := float64(st.videos)
		agg.AvgDuration = float64(st.duration) / n
		agg.AvgViewsPerVideo = float64(st.views) / n
		agg.AvgLikesPerVideo = float64(st.likes) / n
		agg.AvgCommentsPerVideo = float64(st.comments) / n
	}
	if st.views > 0 {
		agg.AvgEngagementRate = float64(st.likes+st.comments) / float64(st.views)
	}
	return agg
}

// AggregateByRegion folds videos by region and finalizes the result. CreatedAt is left zero.
func AggregateByRegion(videos []models.Video) []models.RegionalAggregate {
	fold := NewRegionFold()
	for _, v := range videos {
		fold.Add(v)
	}
	return fold.Finalize(time.Time{})
}

func orUnknown(s string) string {
	if s == "" {
		return unknownKey
	}
	return s
}
