package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mazehack/quizmaze/game/maze"
)

var (
	ErrMazeNotFound = errors.New("maze definition not found")
	ErrInvalidMaze  = errors.New("invalid maze definition")
)

// MazeInfo summarizes an available maze definition.
type MazeInfo struct {
	Name        string `json:"name"`
	MazeID      string `json:"maze_id"`
	Version     string `json:"version"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Manager loads and caches maze definitions from a directory. Files may
// be JSON (.json) or YAML (.yaml/.yml); the name of a maze is its
// filename without extension. The built-in maze is always available under
// the name "default".
type Manager struct {
	mazesDir string
	mazes    map[string]*maze.Maze
	byID     map[string]*maze.Maze
	mu       sync.RWMutex
}

// DefaultMazeName is the reserved name of the built-in maze.
const DefaultMazeName = "default"

// NewManager creates a manager over mazesDir. A missing or empty
// directory is fine: the built-in maze is still served.
func NewManager(mazesDir string) *Manager {
	m := &Manager{
		mazesDir: mazesDir,
		mazes:    make(map[string]*maze.Maze),
		byID:     make(map[string]*maze.Maze),
	}
	builtin := maze.Builtin()
	m.mazes[DefaultMazeName] = builtin
	m.byID[builtin.MazeID()] = builtin
	return m
}

// Load returns the maze registered under name, loading and caching it
// from disk on first use.
func (m *Manager) Load(name string) (*maze.Maze, error) {
	m.mu.RLock()
	if mz, ok := m.mazes[name]; ok {
		m.mu.RUnlock()
		return mz, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check after acquiring the write lock.
	if mz, ok := m.mazes[name]; ok {
		return mz, nil
	}

	path, err := m.findFile(name)
	if err != nil {
		return nil, err
	}
	def, err := DecodeDefinitionFile(path)
	if err != nil {
		return nil, err
	}
	mz, err := maze.FromDefinition(def)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMaze, name, err)
	}

	m.mazes[name] = mz
	m.byID[mz.MazeID()] = mz
	return mz, nil
}

// ByID returns a maze by its maze_id, loading every definition in the
// directory if the id is not cached yet. Used when resuming a persisted
// game that only carries the maze id.
func (m *Manager) ByID(mazeID string) (*maze.Maze, error) {
	m.mu.RLock()
	if mz, ok := m.byID[mazeID]; ok {
		m.mu.RUnlock()
		return mz, nil
	}
	m.mu.RUnlock()

	infos, err := m.List()
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		mz, err := m.Load(info.Name)
		if err != nil {
			continue
		}
		if mz.MazeID() == mazeID {
			return mz, nil
		}
	}
	return nil, fmt.Errorf("%w: id %q", ErrMazeNotFound, mazeID)
}

// List returns information about all available mazes, the built-in one
// included, sorted by name.
func (m *Manager) List() ([]MazeInfo, error) {
	builtin := maze.BuiltinDefinition()
	infos := []MazeInfo{{
		Name:        DefaultMazeName,
		MazeID:      builtin.MazeID,
		Version:     builtin.Version,
		Title:       builtin.Name,
		Description: builtin.Description,
		Width:       builtin.Width,
		Height:      builtin.Height,
	}}

	entries, err := os.ReadDir(m.mazesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return infos, nil
		}
		return nil, fmt.Errorf("read mazes directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !hasMazeExtension(entry.Name()) {
			continue
		}
		name := trimMazeExtension(entry.Name())
		if name == DefaultMazeName {
			continue
		}
		def, err := DecodeDefinitionFile(filepath.Join(m.mazesDir, entry.Name()))
		if err != nil {
			continue
		}
		infos = append(infos, MazeInfo{
			Name:        name,
			MazeID:      def.MazeID,
			Version:     def.Version,
			Title:       def.Name,
			Description: def.Description,
			Width:       def.Width,
			Height:      def.Height,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// findFile locates the definition file for name, trying each supported
// extension. Caller must hold the lock.
func (m *Manager) findFile(name string) (string, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(m.mazesDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrMazeNotFound, name)
}

// DecodeDefinitionFile parses a maze definition from a JSON or YAML file,
// picking the decoder by extension.
func DecodeDefinitionFile(path string) (*maze.Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read maze file: %w", err)
	}

	var def maze.Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &def); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidMaze, filepath.Base(path), err)
		}
	default:
		if err := json.Unmarshal(raw, &def); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidMaze, filepath.Base(path), err)
		}
	}
	return &def, nil
}

func hasMazeExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func trimMazeExtension(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
