package dashboard

import "fmt"

// ProgressUpdate represents a progress event during a build.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number, 1-based
	Total   int    // Total steps in the pipeline
	Message string // Human-readable message for display
}

// Phase enumerates the pipeline steps.
type Phase int

const (
	FetchTopTracks Phase = iota
	FetchFeatures
	FetchRecommendations
	FetchDetails
	Reshape
)

const totalSteps = 5

func (p Phase) String() string {
	switch p {
	case FetchTopTracks:
		return "fetch_top_tracks"
	case FetchFeatures:
		return "fetch_features"
	case FetchRecommendations:
		return "fetch_recommendations"
	case FetchDetails:
		return "fetch_details"
	case Reshape:
		return "reshape"
	default:
		return ""
	}
}

// sendProgress sends update without blocking; updates are dropped when nobody is listening.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func topTracksUpdate(limit int, timeRange string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTopTracks,
		Step:    1,
		Total:   totalSteps,
		Message: fmt.Sprintf("Fetching top %d tracks (%s)...", limit, timeRange),
	}
}

func featuresUpdate(n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeatures,
		Step:    2,
		Total:   totalSteps,
		Message: fmt.Sprintf("Fetching audio features for %d tracks...", n),
	}
}

func recommendationsUpdate(seeds int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecommendations,
		Step:    3,
		Total:   totalSteps,
		Message: fmt.Sprintf("Fetching recommendations from %d seed tracks...", seeds),
	}
}

func detailsUpdate(n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    4,
		Total:   totalSteps,
		Message: fmt.Sprintf("Fetching details for %d recommended tracks...", n),
	}
}

func reshapeUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Reshape,
		Step:    5,
		Total:   totalSteps,
		Message: "Building tables...",
	}
}
