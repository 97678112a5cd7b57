// Package repositories implements SQLite persistence for the pipeline's output collections.
//
// Every collection is keyed the way downstream consumers look records up:
//   - tracks and audio_features by track id
//   - videos by video id
//   - correlations by "{track_id}_{video_id}"
//   - regional_stats by region code
//
// Rows keep the full record as JSON in a data column next to the handful of scalar columns the
// read side filters and sorts on. Writes are idempotent upserts applied in batches, one
// transaction per batch, and report inserted/updated/error counts in a [models.LoadResult].
//
// Key Implementations:
//   - [Store] : batched upserts and dashboard read queries
//   - [RunRepository] : pipeline run history with status tracking
package repositories
