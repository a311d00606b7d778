package dto

// RateRequest deliberately carries no binding constraint on Stars:
// out-of-range values, zero included, are clamped by the service rather
// than rejected at the boundary.
type RateRequest struct {
	Stars int `json:"stars"`
}

type SummaryResponse struct {
	Likes            int64   `json:"likes"`
	Dislikes         int64   `json:"dislikes"`
	LikeRatioPercent float64 `json:"like_ratio_percent"`
}

type RatingResponse struct {
	Average float64 `json:"rating"`
}

type BookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}
