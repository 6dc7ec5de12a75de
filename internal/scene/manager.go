package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/facetland/internal/logger"
	"github.com/Faultbox/facetland/internal/renderer"
	"github.com/Faultbox/facetland/internal/session"
)

// Manager owns the current scene. Regeneration builds the replacement
// completely before the old scene is released, so Current never returns
// a half-built scene.
type Manager struct {
	dev     renderer.Device
	opts    Options
	current *Scene
	log     *zap.Logger
}

// NewManager creates a manager without a scene.
func NewManager(dev renderer.Device, opts Options) *Manager {
	return &Manager{dev: dev, opts: opts, log: logger.Named("scene")}
}

// Current returns the current scene, nil before the first successful
// Regenerate.
func (m *Manager) Current() *Scene { return m.current }

// Options returns the generation options.
func (m *Manager) Options() Options { return m.opts }

// SetOptions changes the options used by the next Regenerate.
func (m *Manager) SetOptions(opts Options) { m.opts = opts }

// Regenerate builds a scene for p and makes it current. On failure the
// previous scene stays current and p is left untouched. A save failure
// still swaps in the new scene and is returned as ErrSaveFailed.
func (m *Manager) Regenerate(p *session.Parameters, outPath string) (*Scene, error) {
	next := *p
	s, err := Generate(m.dev, &next, m.opts, outPath)
	if s == nil {
		m.log.Warn("regeneration failed, keeping current scene", zap.Error(err))
		return m.current, err
	}

	old := m.current
	m.current = s
	*p = next
	if old != nil {
		old.Destroy()
	}
	return s, err
}

// Close destroys the current scene.
func (m *Manager) Close() {
	if m.current != nil {
		m.current.Destroy()
		m.current = nil
	}
}
