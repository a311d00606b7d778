package service

import "math"

// LikeRatioPercent is likes/(likes+dislikes) as a percentage rounded to
// 1 decimal place, or 0 when there are no votes at all.
func LikeRatioPercent(likes, dislikes int64) float64 {
	total := likes + dislikes
	if total == 0 {
		return 0
	}
	return math.Round(float64(likes)/float64(total)*1000) / 10
}

// ClampStars forces a star rating into [1,5].
func ClampStars(stars int) int {
	if stars < 1 {
		return 1
	}
	if stars > 5 {
		return 5
	}
	return stars
}
