package trellis

import (
	"sort"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// InterpolateFunc blends a toward b by t in [0, 1].
type InterpolateFunc func(a, b, t float64) float64

// Lerp is the default linear interpolation.
func Lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}

var easings = map[string]ease.TweenFunc{
	"linear": ease.Linear,

	"quadIn": ease.InQuad, "quadOut": ease.OutQuad, "quadInOut": ease.InOutQuad,
	"cubicIn": ease.InCubic, "cubicOut": ease.OutCubic, "cubicInOut": ease.InOutCubic,
	"quartIn": ease.InQuart, "quartOut": ease.OutQuart, "quartInOut": ease.InOutQuart,
	"quintIn": ease.InQuint, "quintOut": ease.OutQuint, "quintInOut": ease.InOutQuint,
	"sineIn": ease.InSine, "sineOut": ease.OutSine, "sineInOut": ease.InOutSine,
	"expoIn": ease.InExpo, "expoOut": ease.OutExpo, "expoInOut": ease.InOutExpo,
	"circIn": ease.InCirc, "circOut": ease.OutCirc, "circInOut": ease.InOutCirc,
	"elasticIn": ease.InElastic, "elasticOut": ease.OutElastic, "elasticInOut": ease.InOutElastic,
	"backIn": ease.InBack, "backOut": ease.OutBack, "backInOut": ease.InOutBack,
	"bounceIn": ease.InBounce, "bounceOut": ease.OutBounce, "bounceInOut": ease.InOutBounce,
}

// EasingByName returns the easing function registered under name
// ("cubicOut", "linear", ...).
func EasingByName(name string) (ease.TweenFunc, bool) {
	fn, ok := easings[name]
	return fn, ok
}

// EasingNames returns the registered easing names, sorted.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// progress evaluates eased progress in [0, 1] for a tween of the given
// duration.
type progress struct {
	tween *gween.Tween
	dur   time.Duration
	fn    ease.TweenFunc
}

func newProgress(dur time.Duration, fn ease.TweenFunc) progress {
	return progress{tween: gween.New(0, 1, float32(dur.Seconds()), fn), dur: dur, fn: fn}
}

// at returns the eased progress after elapsed.
func (p progress) at(elapsed time.Duration) float64 {
	v, _ := p.tween.Set(float32(elapsed.Seconds()))
	return float64(v)
}
