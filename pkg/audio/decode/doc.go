// ABOUTME: Audio decoding package
// ABOUTME: Decodes WAV, MP3, FLAC, Ogg Opus and raw PCM sources to int32 PCM
// Package decode turns raw audio sources into playable PCM.
//
// decode.New sniffs the container by magic bytes and returns a progressive
// Decoder; decode.ReadAll decodes a whole source into one audio.Buffer plus
// its audio.Metadata in a single step.
//
// Example:
//
//	f, _ := os.Open("song.flac")
//	buf, meta, err := decode.ReadAll(f)
//	if err != nil {
//	    var derr *decode.Error
//	    if errors.As(err, &derr) {
//	        // unparseable or truncated source
//	    }
//	}
package decode
