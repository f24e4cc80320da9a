package plugins

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry manages all loaded plugins
type Registry struct {
	plugins map[string]Plugin
	mu      sync.RWMutex

	// Type-specific registries
	archiveSources    map[string]ArchiveSourcePlugin
	enrichers  []JudgmentEnricherPlugin
	validators  []ValidatorPlugin
	exporters   map[string]ExporterPlugin
	middlewares []MiddlewarePlugin
}

// NewRegistry creates a new plugin registry
func NewRegistry() *Registry {
	return &Registry{
		plugins:     make(map[string]Plugin),
		archiveSources:    make(map[string]ArchiveSourcePlugin),
		enrichers:  make([]JudgmentEnricherPlugin, 0),
		validators:  make([]ValidatorPlugin, 0),
		exporters:   make(map[string]ExporterPlugin),
		middlewares: make([]MiddlewarePlugin, 0),
	}
}

// Register registers a plugin
func (r *Registry) Register(plugin Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := plugin.Name()

	// Check if plugin already registered
	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("plugin already registered: %s", name)
	}

	// Register in main registry
	r.plugins[name] = plugin

	// Register in type-specific registry
	switch p := plugin.(type) {
	case ArchiveSourcePlugin:
		r.archiveSources[name] = p
		log.Info().Str("plugin", name).Str("type", "archive_source").Msg("Registered archive source plugin")

	case JudgmentEnricherPlugin:
		r.enrichers = append(r.enrichers, p)
		r.sortEnrichers()
		log.Info().Str("plugin", name).Str("type", "enricher").Msg("Registered enricher plugin")

	case ValidatorPlugin:
		r.validators = append(r.validators, p)
		log.Info().Str("plugin", name).Str("type", "validator").Msg("Registered validator plugin")

	case ExporterPlugin:
		r.exporters[name] = p
		log.Info().Str("plugin", name).Str("type", "exporter").Msg("Registered exporter plugin")

	case MiddlewarePlugin:
		r.middlewares = append(r.middlewares, p)
		r.sortMiddlewares()
		log.Info().Str("plugin", name).Str("type", "middleware").Msg("Registered middleware plugin")

	default:
		log.Info().Str("plugin", name).Str("type", "generic").Msg("Registered generic plugin")
	}

	return nil
}

// Unregister unregisters a plugin
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plugin, exists := r.plugins[name]
	if !exists {
		return fmt.Errorf("plugin not found: %s", name)
	}

	// Remove from type-specific registry
	switch p := plugin.(type) {
	case ArchiveSourcePlugin:
		delete(r.archiveSources, name)

	case JudgmentEnricherPlugin:
		for i, proc := range r.enrichers {
			if proc.Name() == name {
				r.enrichers = append(r.enrichers[:i], r.enrichers[i+1:]...)
				break
			}
		}

	case ValidatorPlugin:
		for i, val := range r.validators {
			if val.Name() == name {
				r.validators = append(r.validators[:i], r.validators[i+1:]...)
				break
			}
		}

	case ExporterPlugin:
		delete(r.exporters, name)

	case MiddlewarePlugin:
		for i, mw := range r.middlewares {
			if mw.Name() == name {
				r.middlewares = append(r.middlewares[:i], r.middlewares[i+1:]...)
				break
			}
		}
	}

	// Remove from main registry
	delete(r.plugins, name)

	log.Info().Str("plugin", name).Msg("Unregistered plugin")
	return nil
}

// Get retrieves a plugin by name
func (r *Registry) Get(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugin, exists := r.plugins[name]
	if !exists {
		return nil, fmt.Errorf("plugin not found: %s", name)
	}

	return plugin, nil
}

// GetArchiveSource retrieves an archive source plugin by name
func (r *Registry) GetArchiveSource(name string) (ArchiveSourcePlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scraper, exists := r.archiveSources[name]
	if !exists {
		return nil, fmt.Errorf("archive source plugin not found: %s", name)
	}

	return scraper, nil
}

// GetExporter retrieves an exporter plugin by name
func (r *Registry) GetExporter(name string) (ExporterPlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exporter, exists := r.exporters[name]
	if !exists {
		return nil, fmt.Errorf("exporter plugin not found: %s", name)
	}

	return exporter, nil
}

// ListArchiveSources returns all registered archive source plugins
func (r *Registry) ListArchiveSources() []ArchiveSourcePlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	archiveSources := make([]ArchiveSourcePlugin, 0, len(r.archiveSources))
	for _, s := range r.archiveSources {
		archiveSources = append(archiveSources, s)
	}

	return archiveSources
}

// ListEnrichers returns all registered judgment enricher plugins (sorted by priority)
func (r *Registry) ListEnrichers() []JudgmentEnricherPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]JudgmentEnricherPlugin{}, r.enrichers...)
}

// ListValidators returns all registered validator plugins
func (r *Registry) ListValidators() []ValidatorPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]ValidatorPlugin{}, r.validators...)
}

// ListExporters returns all registered exporter plugins
func (r *Registry) ListExporters() []ExporterPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exporters := make([]ExporterPlugin, 0, len(r.exporters))
	for _, e := range r.exporters {
		exporters = append(exporters, e)
	}

	return exporters
}

// ListMiddlewares returns all registered middleware plugins (sorted by order)
func (r *Registry) ListMiddlewares() []MiddlewarePlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]MiddlewarePlugin{}, r.middlewares...)
}

// List returns all registered plugins
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		plugins = append(plugins, p)
	}

	return plugins
}

// Count returns the total number of registered plugins
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.plugins)
}

// sortEnrichers sorts enrichers by priority (descending)
func (r *Registry) sortEnrichers() {
	for i := 0; i < len(r.enrichers)-1; i++ {
		for j := i + 1; j < len(r.enrichers); j++ {
			if r.enrichers[i].Priority() < r.enrichers[j].Priority() {
				r.enrichers[i], r.enrichers[j] = r.enrichers[j], r.enrichers[i]
			}
		}
	}
}

// sortMiddlewares sorts middlewares by order (ascending)
func (r *Registry) sortMiddlewares() {
	for i := 0; i < len(r.middlewares)-1; i++ {
		for j := i + 1; j < len(r.middlewares); j++ {
			if r.middlewares[i].Order() > r.middlewares[j].Order() {
				r.middlewares[i], r.middlewares[j] = r.middlewares[j], r.middlewares[i]
			}
		}
	}
}
