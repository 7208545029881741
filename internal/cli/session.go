package cli

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/plantbook/internal/catalogue"
	"github.com/mesh-intelligence/plantbook/internal/flow"
	"github.com/mesh-intelligence/plantbook/internal/paths"
	"github.com/mesh-intelligence/plantbook/internal/telemetry"
	"github.com/mesh-intelligence/plantbook/pkg/types"
)

// session owns one catalogue store and everything wired to it for the
// lifetime of a command.
type session struct {
	cfg     types.Config
	v       *viper.Viper
	store   *catalogue.Store
	screens *flow.Screens
	render  *renderer

	emitter      *telemetry.Emitter
	cancelEvents func()

	// reloads carries configuration re-read by the config watcher to the
	// goroutine that owns the store.
	reloads chan reload
}

// reload is the outcome of one re-read of config.yaml. Exactly one of cfg
// and err is meaningful.
type reload struct {
	cfg  types.Config
	file string
	err  error
}

// openSession loads configuration, builds the store and its screens, and
// attaches the event log when one is configured.
func openSession(cmd *cobra.Command) (*session, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, systemError("resolve config directory: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return nil, systemError("load config: %w", err)
	}

	cfg, err := configFromViper(v)
	if err != nil {
		return nil, err
	}

	eventsPath, err := paths.ResolveEventsPath(flags.eventsPath, cfg.EventsPath)
	if err != nil {
		return nil, systemError("resolve event log path: %w", err)
	}

	store := catalogue.New()
	s := &session{
		cfg:     cfg,
		v:       v,
		store:   store,
		screens: flow.New(store, flow.WithDateLayout(cfg.DateLayout)),
		render:  newRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Color, flags.jsonMode),
		reloads: make(chan reload, 1),
	}

	if eventsPath != "" {
		em, err := telemetry.NewEmitter(eventsPath)
		if err != nil {
			return nil, systemError("open event log: %w", err)
		}
		s.emitter = em
		s.cancelEvents = store.Subscribe(em.Observe)
	}

	return s, nil
}

// Close detaches and closes the event log. Write errors seen while the
// session ran are reported here.
func (s *session) Close() error {
	if s.cancelEvents != nil {
		s.cancelEvents()
		s.cancelEvents = nil
	}
	if err := s.emitter.Err(); err != nil {
		s.emitter.Close()
		return systemError("event log: %w", err)
	}
	if err := s.emitter.Close(); err != nil {
		return systemError("close event log: %w", err)
	}
	return nil
}

// watchConfig re-reads config.yaml when it changes on disk. The outcome is
// queued on s.reloads and handled by applyReloads on the store's goroutine;
// the watcher goroutine never writes output.
func (s *session) watchConfig() {
	if s.v.ConfigFileUsed() == "" {
		return
	}
	s.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := configFromViper(s.v)
		s.queueReload(reload{cfg: cfg, file: e.Name, err: err})
	})
	s.v.WatchConfig()
}

// queueReload replaces any pending reload with r without blocking.
func (s *session) queueReload(r reload) {
	for {
		select {
		case s.reloads <- r:
			return
		default:
			select {
			case <-s.reloads:
			default:
			}
		}
	}
}

// applyReloads applies queued configuration changes and reports a config
// file that failed to load. It reports whether anything changed.
func (s *session) applyReloads() bool {
	changed := false
	for {
		select {
		case r := <-s.reloads:
			if r.err != nil {
				s.render.failed(fmt.Errorf("config %s not reloaded: %w", r.file, r.err))
				continue
			}
			cfg := r.cfg
			s.cfg.DateLayout = cfg.DateLayout
			s.cfg.Color = cfg.Color
			s.screens.SetDateLayout(cfg.DateLayout)
			s.render.setColor(cfg.Color)
			changed = true
		default:
			return changed
		}
	}
}
