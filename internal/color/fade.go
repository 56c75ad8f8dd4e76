package color

import "math"

// FadeBuckets is the number of discrete proximity fade levels
const FadeBuckets = 4

const darkenPerBucket = 0.12

// FadeBucket maps a distance within radius onto one of the FadeBuckets levels.
// A non-positive radius is treated as maximum distance.
func FadeBucket(distance, radius float64) int {
	t := 1.0
	if radius > 0 {
		t = distance / radius
	}

	bucket := int(math.Floor(t * FadeBuckets))
	if bucket < 0 {
		bucket = 0
	}
	if bucket > FadeBuckets-1 {
		bucket = FadeBuckets - 1
	}
	return bucket
}

// Fade desaturates and darkens base according to how far away the speaker is.
// Levels are discrete: bucket 0 returns base unchanged, bucket 3 is fully grey
// and darkest. The result depends only on the inputs.
func Fade(base RGB, distance, radius float64) RGB {
	bucket := FadeBucket(distance, radius)
	if bucket == 0 {
		return base
	}

	desaturate := float64(bucket) / float64(FadeBuckets-1)
	darken := 1 - float64(bucket)*darkenPerBucket

	r, g, b := float64(base.R), float64(base.G), float64(base.B)
	lum := 0.299*r + 0.587*g + 0.114*b

	blend := func(ch float64) uint8 {
		return clampChannel((ch + (lum-ch)*desaturate) * darken)
	}

	return RGB{R: blend(r), G: blend(g), B: blend(b)}
}
