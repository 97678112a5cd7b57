package models

// RawTrack is one Spotify track as extracted from a playlist.
//
// Both the upstream key (id) and the extractor's flattened key (track_id) are accepted.
type RawTrack struct {
	ID                  Value `json:"id,omitzero"`
	TrackID             Value `json:"track_id,omitzero"`
	Name                Value `json:"name,omitzero"`
	ArtistName          Value `json:"artist_name,omitzero"`
	Artists             Value `json:"artists,omitzero"`
	AlbumID             Value `json:"album_id,omitzero"`
	AlbumName           Value `json:"album_name,omitzero"`
	Popularity          Value `json:"popularity,omitzero"`
	DurationMS          Value `json:"duration_ms,omitzero"`
	Explicit            Value `json:"explicit,omitzero"`
	IsLocal             Value `json:"is_local,omitzero"`
	PreviewURL          Value `json:"preview_url,omitzero"`
	ReleaseDate         Value `json:"release_date,omitzero"`
	TotalTracks         Value `json:"total_tracks,omitzero"`
	DiscNumber          Value `json:"disc_number,omitzero"`
	TrackNumber         Value `json:"track_number,omitzero"`
	AvailableMarkets    Value `json:"available_markets,omitzero"`
	ExtractionTimestamp Value `json:"extraction_timestamp,omitzero"`
	SourcePlaylistID    Value `json:"source_playlist_id,omitzero"`
	DataSource          Value `json:"data_source,omitzero"`
}

// RawAudioFeatures is the Spotify audio analysis for one track.
type RawAudioFeatures struct {
	ID                  Value `json:"id,omitzero"`
	TrackID             Value `json:"track_id,omitzero"`
	Danceability        Value `json:"danceability,omitzero"`
	Energy              Value `json:"energy,omitzero"`
	Speechiness         Value `json:"speechiness,omitzero"`
	Acousticness        Value `json:"acousticness,omitzero"`
	Instrumentalness    Value `json:"instrumentalness,omitzero"`
	Liveness            Value `json:"liveness,omitzero"`
	Valence             Value `json:"valence,omitzero"`
	Loudness            Value `json:"loudness,omitzero"`
	Tempo               Value `json:"tempo,omitzero"`
	Key                 Value `json:"key,omitzero"`
	Mode                Value `json:"mode,omitzero"`
	TimeSignature       Value `json:"time_signature,omitzero"`
	DurationMS          Value `json:"duration_ms,omitzero"`
	ExtractionTimestamp Value `json:"extraction_timestamp,omitzero"`
	DataSource          Value `json:"data_source,omitzero"`
}

// RawVideo is one YouTube video with snippet, statistics, contentDetails and status flattened.
//
// SearchArtist and SearchTrack are stamped by the extractor when the video was found through a
// directed artist/track query; SourceRegion is stamped when it came from a regional chart.
type RawVideo struct {
	ID                   Value `json:"id,omitzero"`
	VideoID              Value `json:"video_id,omitzero"`
	Title                Value `json:"title,omitzero"`
	Description          Value `json:"description,omitzero"`
	ChannelID            Value `json:"channel_id,omitzero"`
	ChannelTitle         Value `json:"channel_title,omitzero"`
	ViewCount            Value `json:"view_count,omitzero"`
	LikeCount            Value `json:"like_count,omitzero"`
	DislikeCount         Value `json:"dislike_count,omitzero"`
	CommentCount         Value `json:"comment_count,omitzero"`
	FavoriteCount        Value `json:"favorite_count,omitzero"`
	PublishedAt          Value `json:"published_at,omitzero"`
	Tags                 Value `json:"tags,omitzero"`
	CategoryID           Value `json:"category_id,omitzero"`
	DefaultLanguage      Value `json:"default_language,omitzero"`
	DefaultAudioLanguage Value `json:"default_audio_language,omitzero"`
	Duration             Value `json:"duration,omitzero"`
	Dimension            Value `json:"dimension,omitzero"`
	Definition           Value `json:"definition,omitzero"`
	Caption              Value `json:"caption,omitzero"`
	LicensedContent      Value `json:"licensed_content,omitzero"`
	UploadStatus         Value `json:"upload_status,omitzero"`
	PrivacyStatus        Value `json:"privacy_status,omitzero"`
	License              Value `json:"license,omitzero"`
	Embeddable           Value `json:"embeddable,omitzero"`
	PublicStatsViewable  Value `json:"public_stats_viewable,omitzero"`
	ExtractionTimestamp  Value `json:"extraction_timestamp,omitzero"`
	SourceRegion         Value `json:"source_region,omitzero"`
	SearchArtist         Value `json:"search_artist,omitzero"`
	SearchTrack          Value `json:"search_track,omitzero"`
	DataSource           Value `json:"data_source,omitzero"`
}

// RawDataset bundles everything one extraction produced. It is the on-disk dump format.
type RawDataset struct {
	Tracks   []RawTrack         `json:"tracks"`
	Features []RawAudioFeatures `json:"features"`
	Videos   []RawVideo         `json:"videos"`
	Errors   []string           `json:"errors,omitempty"`
}
