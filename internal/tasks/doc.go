// Package tasks runs the correlation pipeline with real-time progress reporting.
//
// # Core Operations
//
// The [ETL] interface defines the stages of a run:
//
//  1. [ETL.Extract] : Pull raw records from the upstream services
//     - Playlist tracks, then audio features for the distinct track ids
//     - Most-popular charts per region and directed artist/track searches, fetched concurrently
//     - Per-playlist, per-region and per-query failures are recorded, not fatal
//
//  2. [ETL.Transform] : Normalize, correlate and aggregate
//     - Tracks, features and videos are normalized concurrently; skipped records are kept
//     - Correlation and regional aggregation run concurrently over the normalized records
//
//  3. [ETL.Load] : Upsert each collection in batches
//
//  4. [ETL.Run] : All of the above, recorded as a pipeline run
//
// [Pipeline.Recorrelate] and [Pipeline.Reaggregate] rebuild derived collections from stored
// records, and [ExportReport] writes stored results as CSV, Markdown or JSON.
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [Pipeline] implements [ETL] with dependencies on:
//   - [services.TrackSource] and [services.VideoSource] : upstream API clients
//   - [Store] : persistence layer (repositories.Store)
//   - [RunRecorder] : run bookkeeping (repositories.RunRepository)
package tasks
