package selector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Slot keeps the last selected effect across low-power resets. Load reports
// ok=false when nothing has been stored yet.
type Slot interface {
	Load() (t Tag, ok bool, err error)
	Store(t Tag) error
}

// MemorySlot is a process-local Slot.
type MemorySlot struct {
	mu  sync.Mutex
	tag Tag
	ok  bool
}

func (m *MemorySlot) Load() (Tag, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tag, m.ok, nil
}

func (m *MemorySlot) Store(t Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tag, m.ok = t, true
	return nil
}

// FileSlot stores the effect in a small YAML file. Point it at a tmpfs path
// (e.g. /run) so it survives suspend and restarts but not power loss.
type FileSlot struct {
	Path string
}

type slotFile struct {
	Effect string `yaml:"effect"`
}

func (f FileSlot) Load() (Tag, bool, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var sf slotFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return 0, false, fmt.Errorf("slot %s: %w", f.Path, err)
	}
	t, err := ParseTag(sf.Effect)
	if err != nil {
		return 0, false, fmt.Errorf("slot %s: %w", f.Path, err)
	}
	return t, true, nil
}

func (f FileSlot) Store(t Tag) error {
	b, err := yaml.Marshal(slotFile{Effect: t.String()})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

// Restore builds a Selector from the slot, falling back to def when the slot
// is empty or unreadable.
func Restore(slot Slot, def Tag) *Selector {
	if slot == nil {
		return New(def)
	}
	t, ok, err := slot.Load()
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("effect slot unreadable; using default")
		return New(def)
	case !ok:
		return New(def)
	}
	log.Debug().Str("effect", t.String()).Msg("restored effect from slot")
	return New(t)
}
