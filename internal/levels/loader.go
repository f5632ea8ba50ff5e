package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/spikebeat/internal/levels/formats"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// Loader handles loading levels from a file tree.
type Loader struct {
	fsys fs.FS
	Root string // on-disk root, empty for embedded levels
}

// NewLoader creates a loader over a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), Root: root}
}

// NewEmbeddedLoader creates a loader over the built-in levels.
func NewEmbeddedLoader() *Loader {
	sub, err := fs.Sub(defaultFS, "defaults")
	if err != nil {
		panic(fmt.Sprintf("levels: embedded defaults: %v", err))
	}
	return &Loader{fsys: sub}
}

// Load returns the levels under dir, or the built-in levels when dir is empty
// or does not exist.
func Load(dir string) ([]Level, error) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return NewLoader(dir).LoadAll()
		}
	}
	return NewEmbeddedLoader().LoadAll()
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by ID for deterministic ordering.
// The first invalid file aborts the load.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	seen := make(map[string]string)

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		if prev, dup := seen[level.ID]; dup {
			return fmt.Errorf("levels: %s: %w: duplicate id (also in %s)", p, ErrInvalidLevel, prev)
		}
		seen[level.ID] = p

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking levels %s: %w", l.describe(), err)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("levels: %s: %w", l.describe(), ErrNotFound)
	}

	// Sort by ID for determinism
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadFile loads and validates a single level file, relative to the loader root.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	ext := strings.ToLower(path.Ext(p))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	level := Level{
		ID:        parsed.ID,
		Name:      parsed.Name,
		Year:      parsed.Year,
		BPM:       parsed.BPM,
		Music:     parsed.Music,
		Color:     parsed.Color,
		Narrative: append([]string(nil), parsed.Narrative...),
		Goal:      parsed.Goal,
		FX: FX{
			Parallax:  parsed.FX.Parallax,
			Particles: parsed.FX.Particles,
			Glow:      parsed.FX.Glow,
		},
	}
	if l.Root != "" {
		level.FilePath = filepath.Join(l.Root, filepath.FromSlash(p))
	}
	for _, s := range parsed.Spikes {
		level.Spikes = append(level.Spikes, SpikeDef{X: s.X, W: s.W, H: s.H})
	}
	sort.SliceStable(level.Spikes, func(i, j int) bool {
		return level.Spikes[i].X < level.Spikes[j].X
	})

	if err := level.Validate(); err != nil {
		return Level{}, err
	}
	return level, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("levels: %s: %w", id, ErrNotFound)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// IsValidationError reports whether err came from level validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidLevel)
}

func (l *Loader) describe() string {
	if l.Root == "" {
		return "<embedded>"
	}
	return l.Root
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.YAMLLevel, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.YAMLLevel{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
