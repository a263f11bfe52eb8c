package text

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-text/typesetting/font"

	"github.com/gogpu/ui/style"
)

var nextSourceID atomic.Uint64

// Source is one parsed font file registered with a Library. The underlying
// font.Font is read-only and safe for concurrent use; per-shaping font.Face
// instances are created on demand by the shaper.
type Source struct {
	id     uint64
	family string
	weight uint16
	style  style.FontStyle
	font   *font.Font
	data   []byte
}

// ID returns a process-unique identifier, stable for the Source's lifetime.
// Cache keys use it instead of hashing font bytes.
func (s *Source) ID() uint64 { return s.id }

// Family returns the registered family name.
func (s *Source) Family() string { return s.family }

// Font returns the parsed font.
func (s *Source) Font() *font.Font { return s.font }

// Data returns the raw font file bytes the source was registered with.
// Rasterizers that need a second parse of the same file (outline
// extraction) read from here instead of holding their own copy.
func (s *Source) Data() []byte { return s.data }

// Library is a registry of font sources matched by font configuration.
// It is safe for concurrent use.
type Library struct {
	mu      sync.RWMutex
	sources []*Source
}

// NewLibrary creates an empty font library.
func NewLibrary() *Library {
	return &Library{}
}

// Register parses TTF/OTF data and adds it under the given family name.
func (l *Library) Register(family string, weight uint16, fs style.FontStyle, data []byte) (*Source, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parsing font %q: %w", family, err)
	}
	src := &Source{
		id:     nextSourceID.Add(1),
		family: strings.ToLower(family),
		weight: weight,
		style:  fs,
		font:   face.Font,
		data:   data,
	}
	l.mu.Lock()
	l.sources = append(l.sources, src)
	l.mu.Unlock()
	return src, nil
}

// Match selects the best source for a font configuration: exact family
// (case-insensitive) with nearest weight, preferring a matching style.
// When the family is unknown the first registered source serves as the
// fallback. Returns ErrNoFont when the library is empty.
func (l *Library) Match(cfg style.FontConfig) (*Source, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.sources) == 0 {
		return nil, fmt.Errorf("%w: family %q", ErrNoFont, cfg.Family)
	}

	family := strings.ToLower(cfg.Family)
	var best *Source
	var bestScore int
	for _, s := range l.sources {
		if s.family != family {
			continue
		}
		score := 1000 - weightDistance(s.weight, cfg.Weight)
		if s.style == cfg.Style {
			score += 2000
		}
		if best == nil || score > bestScore {
			best, bestScore = s, score
		}
	}
	if best != nil {
		return best, nil
	}
	return l.sources[0], nil
}

func weightDistance(a, b uint16) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
