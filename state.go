package vfs

import (
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// SubsystemState is the lifecycle described in spec §4.12: Uninitialized -> Initialized -> ShuttingDown ->
// Uninitialized. Most public operations fail with KindNotInitializedYet outside Initialized.
type SubsystemState int

const (
	Uninitialized SubsystemState = iota
	Initialized
	ShuttingDown
)

func (s SubsystemState) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Initialized:
		return "Initialized"
	case ShuttingDown:
		return "ShuttingDown"
	default:
		return "Unknown"
	}
}

// State is the process-wide mutable core described in spec §3 "Process-wide mutable state": the filter
// registry, root path list, open-archive cache and open-file table, plus the coarse exclusive lock spec §5
// prescribes in place of the reference implementation's assumed single-threaded caller. There is no "last-error
// slot" and no "currently active archive" pointer - every operation returns its error directly (errors.go) and
// filter configuration is carried explicitly per archive (archive.go, decode.go) instead of through global
// state (spec §9).
type State struct {
	mu    sync.Mutex
	state SubsystemState

	Filters  *FilterRegistry
	Roots    *RootPathList
	Archives *ArchiveCache
	Handles  *HandleTable

	log zerolog.Logger
}

// Option configures a State at construction time.
type Option func(*State)

// WithLogger overrides the default logger (stderr, info level).
func WithLogger(log zerolog.Logger) Option {
	return func(s *State) { s.log = log }
}

// WithArchiveCacheCapacity bounds how many parsed archives stay resident at once (spec §4.5/§9 "Archive
// cache"). capacity <= 0 means unbounded, matching the reference implementation's plain map.
func WithArchiveCacheCapacity(capacity int) Option {
	return func(s *State) { s.Archives = NewArchiveCache(capacity) }
}

// New constructs a State in the Uninitialized state. Call Init before using it.
func New(opts ...Option) *State {
	s := &State{
		state:    Uninitialized,
		Filters:  NewFilterRegistry(),
		Roots:    NewRootPathList(),
		Archives: NewArchiveCache(0),
		Handles:  NewHandleTable(),
		log:      zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel).With().Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init transitions Uninitialized -> Initialized. Fails with KindAlreadyInitialized otherwise.
func (s *State) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Uninitialized {
		return newErr(KindAlreadyInitialized, "subsystem already initialized")
	}
	s.state = Initialized
	s.log.Debug().Msg("subsystem initialized")
	return nil
}

// checkReady fails with KindNotInitializedYet unless the subsystem is Initialized. Must be called with mu held.
func (s *State) checkReady() error {
	if s.state != Initialized {
		return newErr(KindNotInitializedYet, "subsystem is "+s.state.String())
	}
	return nil
}

// Flush evicts every open-archive entry with derived refcount 0 (spec §5 "opportunistic collector") and returns
// how many were evicted.
func (s *State) Flush() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return 0, err
	}
	evicted := s.Archives.Flush()
	s.log.Debug().Int("evicted", evicted).Msg("flush")
	return evicted, nil
}

// Shutdown transitions Initialized -> ShuttingDown -> Uninitialized, running flush first, then warning about
// and force-releasing any leaked open files and archives (spec §5). The leaks are aggregated into the returned
// error via go-multierror so callers can assert on them instead of only reading the log.
func (s *State) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}
	s.state = ShuttingDown

	s.Archives.Flush()

	var result *multierror.Error
	for _, path := range s.Handles.Leaked() {
		s.log.Warn().Str("path", path).Msg("leaked open file handle at shutdown")
		result = multierror.Append(result, newErr(KindInUse, "leaked open file handle: "+path))
	}
	for _, path := range s.Archives.Leaked() {
		s.log.Warn().Str("path", path).Msg("leaked open archive at shutdown")
		result = multierror.Append(result, newErr(KindInUse, "leaked open archive: "+path))
	}
	s.Handles.CloseAll()
	s.Archives.CloseAll()

	s.state = Uninitialized
	s.log.Debug().Msg("subsystem shut down")

	if result == nil {
		return nil
	}
	return result.ErrorOrNil()
}
