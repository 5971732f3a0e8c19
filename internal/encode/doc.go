// Package encode drives the external tools that turn sprite timelines into
// compressed audio, and probes what they produce.
//
// MP3 sprites are encoded by piping raw 16-bit PCM into ffmpeg. OGG sprites
// are converted from an intermediate wav file. Both go through a Runner so
// the process boundary can be replaced in tests.
package encode
