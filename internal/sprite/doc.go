// Package sprite decides where every clip lives inside the combined audio
// files.
//
// Pack groups clips first-fit, in discovery order, into sprites no longer
// than a maximum duration and records each clip's nominal start time. The
// offset model (Paddings) then turns a group into per-clip silence padding
// for one output encoding, shortening the very first lead-in by the
// encoder's start delay so that every encoding plays each clip at the start
// time Pack recorded.
package sprite
