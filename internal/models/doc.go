// Package models defines the domain types shared by the dashboard pipeline and its presentation layers.
//
// The package contains two categories of types:
//
// 1. Read-only API data, valid for a single render:
//   - [Track] : Track metadata copied verbatim from the API
//   - [AudioFeatures] : Per-track numeric descriptors, joined to tracks by ID
//
// 2. Reshaped tables handed to the presentation layer:
//   - [FeatureTable] : Feature values indexed by track name, in top-tracks order
//   - [RecommendationTable] : Recommended tracks with link, artist and album
//   - [FeatureSummary] : Descriptive statistics for one feature column
//
// [StoredToken] is the only persisted entity. It implements [Model].
package models
