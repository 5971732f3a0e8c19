package sprite

// Assignment places one clip inside a sprite.
type Assignment struct {
	// Group is the index of the sprite holding the clip.
	Group int
	// Start is the nominal start of the clip within the sprite, in seconds.
	Start float64
}

// Group is one sprite: the clips concatenated into a single pair of output
// files sharing one timeline.
type Group struct {
	Index int
	// Clips holds clip IDs in playback order.
	Clips []int
	// Length is the full timeline of the sprite in seconds, including the
	// spacing before, between and after its clips.
	Length float64
}

// Plan is the result of packing. Assignments is indexed by clip ID, so the
// clip list itself is never mutated.
type Plan struct {
	Groups      []Group
	Assignments []Assignment
}

// Pack assigns clips to sprites first-fit. durations is indexed by clip ID and
// its order is the order clips are placed in; clips are never reordered,
// split or deferred to a later sprite.
//
// A sprite is closed as soon as the next clip would push its timeline past
// maxDuration. Every clip is expected to fit an empty sprite on its own
// (duration <= maxDuration - 2*spacing), which the catalog enforces.
func Pack(durations []float64, spacing, maxDuration float64) Plan {
	plan := Plan{Assignments: make([]Assignment, len(durations))}
	if len(durations) == 0 {
		return plan
	}

	current := Group{Index: 0}
	elapsed := spacing

	for id, d := range durations {
		// An empty sprite always takes the clip, so float rounding on a clip
		// of exactly the maximum length can never produce an empty sprite.
		if len(current.Clips) > 0 && elapsed+d+spacing > maxDuration {
			current.Length = elapsed
			plan.Groups = append(plan.Groups, current)
			current = Group{Index: current.Index + 1}
			elapsed = spacing
		}

		plan.Assignments[id] = Assignment{Group: current.Index, Start: elapsed}
		current.Clips = append(current.Clips, id)
		elapsed += d + spacing
	}

	current.Length = elapsed
	plan.Groups = append(plan.Groups, current)
	return plan
}
