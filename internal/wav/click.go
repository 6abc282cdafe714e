package wav

import (
	"math"
	"time"
)

const (
	clickFreqHz   = 2000
	clickDuration = 5 * time.Millisecond
	clickPeak     = 24000 // below int16 max, leaves headroom
)

// Click synthesizes the 5 ms 2 kHz sine marker with a linear decay
// envelope, used to separate joined annotations for downstream
// transcription tools.
func Click(rate int) []int {
	n := int(float64(rate) * clickDuration.Seconds())
	out := make([]int, n)
	for i := 0; i < n; i++ {
		tm := float64(i) / float64(rate)
		env := 1 - float64(i)/float64(n)
		out[i] = int(clickPeak * env * math.Sin(2*math.Pi*clickFreqHz*tm))
	}
	return out
}

// Silence returns d worth of zero samples at the given rate.
func Silence(rate int, d time.Duration) []int {
	return make([]int, int(float64(rate)*d.Seconds()))
}

// Separator is the full inter-annotation marker: 500 ms silence,
// click, 500 ms silence.
func Separator(rate int) []int {
	pad := Silence(rate, 500*time.Millisecond)
	out := make([]int, 0, 2*len(pad)+len(Click(rate)))
	out = append(out, pad...)
	out = append(out, Click(rate)...)
	out = append(out, pad...)
	return out
}
