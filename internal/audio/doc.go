// Package audio picks and plays pose cue files.
//
// Cue files follow "<padded asana id>_<alnum name>.mp3". A pose tries its
// full identifier first and then the bare numeric identifier; the first
// file a Sink accepts wins and failures are silent.
package audio
