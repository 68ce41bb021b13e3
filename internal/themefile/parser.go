// Package themefile reads the sectioned key=value theme-description files
// that name a visual style and wallpaper settings.
package themefile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"autotheme/internal/logging"
)

// Canonical setting names produced by the parser.
const (
	KeyVisualStyle    = "VisualStyle"
	KeyWallpaper      = "Wallpaper"
	KeyWallpaperStyle = "WallpaperStyle"
	KeyTileWallpaper  = "TileWallpaper"
)

const (
	sectionVisualStyles = "VisualStyles"
	sectionDesktop      = `Control Panel\Desktop`

	maxLineSize = 1 << 20
)

// Settings maps canonical setting names to values. An absent key means the
// theme file does not specify that setting.
type Settings map[string]string

// Lookup finds key case-insensitively.
func (s Settings) Lookup(key string) (string, bool) {
	if v, ok := s[key]; ok {
		return v, true
	}
	for k, v := range s {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func (s Settings) VisualStyle() string    { v, _ := s.Lookup(KeyVisualStyle); return v }
func (s Settings) Wallpaper() string      { v, _ := s.Lookup(KeyWallpaper); return v }
func (s Settings) WallpaperStyle() string { v, _ := s.Lookup(KeyWallpaperStyle); return v }
func (s Settings) TileWallpaper() string  { v, _ := s.Lookup(KeyTileWallpaper); return v }

// Result is the outcome of parsing one file. Err is a diagnostic that has
// already been reported to the sink; Settings is always usable.
type Result struct {
	Settings Settings
	Err      error
}

// Sink receives parse diagnostics.
type Sink func(path string, err error)

// Parser extracts the appearance settings from theme-description files.
type Parser struct {
	expand   Expander
	sink     Sink
	readFile func(string) ([]byte, error)
}

// Option configures a Parser.
type Option func(*Parser)

// WithExpander replaces the placeholder expansion applied to values.
func WithExpander(e Expander) Option {
	return func(p *Parser) { p.expand = e }
}

// WithSink replaces the diagnostic sink.
func WithSink(s Sink) Option {
	return func(p *Parser) { p.sink = s }
}

// WithReadFile replaces the function used to read files.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(p *Parser) { p.readFile = fn }
}

// NewParser returns a parser that expands placeholders from the process
// environment and logs diagnostics as warnings.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		expand:   EnvExpander(os.LookupEnv),
		sink:     logSink,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func logSink(path string, err error) {
	logging.Warnf("theme file %s: %v", path, err)
}

// Parse reads path and returns the settings it declares. It never fails:
// unreadable files yield empty settings and a diagnostic.
func (p *Parser) Parse(path string) Result {
	data, err := p.readFile(path)
	if err != nil {
		err = fmt.Errorf("read theme file: %w", err)
		p.sink(path, err)
		return Result{Settings: Settings{}, Err: err}
	}
	settings, err := p.parse(bytes.NewReader(data))
	if err != nil {
		p.sink(path, err)
	}
	logging.Tracef("theme file %s: %d settings", path, len(settings))
	return Result{Settings: settings, Err: err}
}

// ParseReader parses an already opened theme description.
func (p *Parser) ParseReader(r io.Reader) Result {
	settings, err := p.parse(r)
	if err != nil {
		p.sink("<reader>", err)
	}
	return Result{Settings: settings, Err: err}
}

func (p *Parser) parse(r io.Reader) (Settings, error) {
	settings := Settings{}
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	section := ""
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") && len(line) >= 2 {
			section = line[1 : len(line)-1]
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			logging.Tracef("theme line %d skipped: no '='", lineNo)
			continue
		}
		key = strings.TrimSpace(key)
		value = p.expand(strings.TrimSpace(value))

		if name, ok := canonicalKey(section, key); ok {
			settings[name] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return settings, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	return settings, nil
}

func canonicalKey(section, key string) (string, bool) {
	switch {
	case strings.EqualFold(section, sectionVisualStyles):
		if strings.EqualFold(key, "Path") {
			return KeyVisualStyle, true
		}
	case strings.EqualFold(section, sectionDesktop):
		for _, k := range []string{KeyWallpaper, KeyWallpaperStyle, KeyTileWallpaper} {
			if strings.EqualFold(key, k) {
				return k, true
			}
		}
	}
	return "", false
}
