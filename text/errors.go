package text

import "errors"

// ErrNoFont reports that no registered font source matches a requested
// font configuration.
var ErrNoFont = errors.New("text: no matching font source")

// ErrShaping reports that the shaper could not produce glyphs for a run.
// Layout degrades gracefully on shaping errors, substituting placeholder
// advances, so callers usually only see this from direct Shaper use.
var ErrShaping = errors.New("text: shaping failed")
