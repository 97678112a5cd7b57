// Package transform turns raw Spotify and YouTube records into normalized, enriched records and
// derives the cross-source correlations and regional aggregates from them.
//
// # Stages
//
//  1. Normalization ([NormalizeTrack], [NormalizeFeatures], [NormalizeVideo]) is the single
//     coercion boundary: every raw field resolves to a typed default, so nothing downstream
//     deals with missing or mistyped data.
//  2. Enrichment ([EnrichTrack], [EnrichFeatures], [EnrichVideo]) recomputes derived fields from
//     source fields only and is idempotent.
//  3. Matching ([Matcher.FindMatches]) scores every video against a track and keeps the top 5
//     above 0.3.
//  4. Correlation ([Correlate]) turns matches into [models.Correlation] records. Links are
//     many-to-many: a video may correlate with several tracks.
//  5. Regional aggregation ([RegionFold]) is a left fold over videos followed by a finalize step.
//
// All of the above are pure, synchronous functions. [Transformer] wraps them with batch
// semantics: a record whose transformation panics is logged and skipped, never fatal.
package transform
