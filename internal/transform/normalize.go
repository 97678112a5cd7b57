package transform

import (
	"github.com/desertthunder/tubecorr/internal/models"
)

const descriptionLimit = 1000

// NormalizeTrack converts a raw Spotify track into a [models.Track].
//
// Every field degrades to a type-appropriate default; the function never fails.
// TransformedAt is left zero for the caller to stamp.
func NormalizeTrack(raw models.RawTrack) models.Track {
	artists := toStrings(raw.Artists)
	for i, a := range artists {
		artists[i] = CleanText(a)
	}

	artistName := CleanText(toString(raw.ArtistName))
	if artistName == "" && len(artists) > 0 {
		artistName = artists[0]
	}

	durationMS := max(int(toInt(raw.DurationMS, 0)), 0)

	t := models.Track{
		TrackID:             firstString(raw.TrackID, raw.ID),
		Name:                CleanText(toString(raw.Name)),
		ArtistName:          artistName,
		Artists:             artists,
		AlbumID:             toString(raw.AlbumID),
		AlbumName:           CleanText(toString(raw.AlbumName)),
		Popularity:          min(max(int(toInt(raw.Popularity, 0)), 0), 100),
		DurationMS:          durationMS,
		DurationSeconds:     durationMS / 1000,
		Explicit:            toBool(raw.Explicit, false),
		IsLocal:             toBool(raw.IsLocal, false),
		PreviewURL:          toString(raw.PreviewURL),
		ReleaseDate:         ParseDate(toString(raw.ReleaseDate)),
		TotalTracks:         int(toInt(raw.TotalTracks, 0)),
		DiscNumber:          int(toInt(raw.DiscNumber, 1)),
		TrackNumber:         int(toInt(raw.TrackNumber, 1)),
		AvailableMarkets:    toStrings(raw.AvailableMarkets),
		ExtractionTimestamp: toString(raw.ExtractionTimestamp),
		SourcePlaylistID:    toString(raw.SourcePlaylistID),
		DataSource:          toString(raw.DataSource),
	}
	if t.DataSource == "" {
		t.DataSource = "spotify"
	}

	return EnrichTrack(t)
}

// NormalizeFeatures converts raw audio features into [models.AudioFeatures], clamping the
// perceptual dimensions to [0, 1].
func NormalizeFeatures(raw models.RawAudioFeatures) models.AudioFeatures {
	f := models.AudioFeatures{
		TrackID:             firstString(raw.TrackID, raw.ID),
		Danceability:        unit(toFloat(raw.Danceability, 0)),
		Energy:              unit(toFloat(raw.Energy, 0)),
		Speechiness:         unit(toFloat(raw.Speechiness, 0)),
		Acousticness:        unit(toFloat(raw.Acousticness, 0)),
		Instrumentalness:    unit(toFloat(raw.Instrumentalness, 0)),
		Liveness:            unit(toFloat(raw.Liveness, 0)),
		Valence:             unit(toFloat(raw.Valence, 0)),
		Loudness:            toFloat(raw.Loudness, 0),
		Tempo:               max(toFloat(raw.Tempo, 0), 0),
		Key:                 int(toInt(raw.Key, -1)),
		Mode:                int(toInt(raw.Mode, -1)),
		TimeSignature:       int(toInt(raw.TimeSignature, 4)),
		DurationMS:          max(int(toInt(raw.DurationMS, 0)), 0),
		ExtractionTimestamp: toString(raw.ExtractionTimestamp),
		DataSource:          toString(raw.DataSource),
	}
	if f.DataSource == "" {
		f.DataSource = "spotify_features"
	}

	return EnrichFeatures(f)
}

// NormalizeVideo converts a raw YouTube video into a [models.Video].
func NormalizeVideo(raw models.RawVideo) models.Video {
	published := toString(raw.PublishedAt)
	duration := toString(raw.Duration)

	v := models.Video{
		VideoID:              firstString(raw.VideoID, raw.ID),
		Title:                CleanText(toString(raw.Title)),
		Description:          Truncate(CleanText(toString(raw.Description)), descriptionLimit),
		ChannelID:            toString(raw.ChannelID),
		ChannelTitle:         CleanText(toString(raw.ChannelTitle)),
		ViewCount:            count(raw.ViewCount),
		LikeCount:            count(raw.LikeCount),
		DislikeCount:         count(raw.DislikeCount),
		CommentCount:         count(raw.CommentCount),
		FavoriteCount:        count(raw.FavoriteCount),
		PublishedAt:          ParseDateTime(published),
		PublishedDate:        ParseDate(published),
		Tags:                 toStrings(raw.Tags),
		CategoryID:           toString(raw.CategoryID),
		DefaultLanguage:      toString(raw.DefaultLanguage),
		DefaultAudioLanguage: toString(raw.DefaultAudioLanguage),
		Duration:             duration,
		DurationSeconds:      ParseDuration(duration),
		Dimension:            toString(raw.Dimension),
		Definition:           toString(raw.Definition),
		Caption:              toString(raw.Caption),
		LicensedContent:      toBool(raw.LicensedContent, false),
		UploadStatus:         toString(raw.UploadStatus),
		PrivacyStatus:        toString(raw.PrivacyStatus),
		License:              toString(raw.License),
		Embeddable:           toBool(raw.Embeddable, true),
		PublicStatsViewable:  toBool(raw.PublicStatsViewable, true),
		ExtractionTimestamp:  toString(raw.ExtractionTimestamp),
		SourceRegion:         toString(raw.SourceRegion),
		SearchArtist:         CleanText(toString(raw.SearchArtist)),
		SearchTrack:          CleanText(toString(raw.SearchTrack)),
		DataSource:           toString(raw.DataSource),
	}
	if v.DataSource == "" {
		v.DataSource = "youtube"
	}

	return EnrichVideo(v)
}

func count(v models.Value) int64 {
	return max(toInt(v, 0), 0)
}

func unit(f float64) float64 {
	return min(max(f, 0), 1)
}
