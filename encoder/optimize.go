package encoder

import (
	"slices"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/scene"
)

// OptimizeAnimations drops keys equal to both neighbours from every channel.
// A constant channel ends up with its first and last key only.
func OptimizeAnimations(f *scene.File) {
	for _, anim := range f.Animations {
		optimized := 0
		for _, ch := range anim.Channels {
			if removed := OptimizeChannel(ch); removed != 0 {
				optimized++
				encerr.Warning(encerr.WarnDuplicateKeyframes, removed, ch.TargetID+":"+ch.TargetAttribute.String())
			}
		}
		if optimized != 0 {
			encerr.Warning(encerr.WarnOptimizingChannels, optimized, anim.ID)
		}
	}
}

// OptimizeChannel removes redundant keys of ch in place, returns removed count
func OptimizeChannel(ch *scene.AnimationChannel) int {
	n := ch.KeyCount()
	if n <= 2 {
		return 0
	}
	arity := ch.TargetAttribute.Arity()

	times := make([]float32, 0, n)
	values := make([]float32, 0, len(ch.KeyValues))

	times = append(times, ch.KeyTimes[0])
	values = append(values, ch.Key(0)...)
	for i := 1; i < n-1; i++ {
		prev := values[len(values)-arity:]
		if slices.Equal(prev, ch.Key(i)) && slices.Equal(ch.Key(i), ch.Key(i+1)) {
			continue
		}
		times = append(times, ch.KeyTimes[i])
		values = append(values, ch.Key(i)...)
	}
	times = append(times, ch.KeyTimes[n-1])
	values = append(values, ch.Key(n-1)...)

	removed := n - len(times)
	ch.KeyTimes = times
	ch.KeyValues = values
	return removed
}
