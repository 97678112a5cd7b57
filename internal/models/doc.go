// Package models defines the record shapes that flow through the tubecorr pipeline.
//
// The package contains two categories of types:
//
// 1. Raw records: loosely typed inputs exactly as the upstream APIs (or a dump file) deliver them
//   - [RawTrack] : Spotify playlist item, flattened
//   - [RawAudioFeatures] : Spotify audio analysis for one track
//   - [RawVideo] : YouTube video with snippet, statistics and content details flattened
//
// Every raw field is a [Value], which accepts any JSON. Nothing about a raw record is
// trusted until the transform package coerces it.
//
// 2. Normalized records: fully typed, total structs produced by the transform package
//   - [Track], [AudioFeatures], [Video] : one per upstream record
//   - [Correlation] : a scored link between one track and one video
//   - [RegionalAggregate] : engagement totals for one region code
//
// Normalized records carry snake_case JSON tags and are persisted as documents keyed by
// [Track.TrackID], [AudioFeatures.TrackID], [Video.VideoID], [Correlation.CorrelationID]
// and [RegionalAggregate.RegionCode].
package models
