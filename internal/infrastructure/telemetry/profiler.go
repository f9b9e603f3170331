package telemetry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// Profiling label keys attached to request profiles. No other key is
// accepted, which keeps profile cardinality bounded.
const (
	ProfilingLabelModule   = "module"
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelTenantID = "tenant_id"
	ProfilingLabelDocument = "document_type"
)

// MaxLabelValueLength caps label values.
const MaxLabelValueLength = 128

var profilingLabelKeys = map[string]bool{
	ProfilingLabelModule:   true,
	ProfilingLabelRoute:    true,
	ProfilingLabelMethod:   true,
	ProfilingLabelTenantID: true,
	ProfilingLabelDocument: true,
}

var profileKinds = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"inuse_objects": {pyroscope.ProfileInuseObjects},
	"inuse_space":   {pyroscope.ProfileInuseSpace},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// ProfilerConfig holds Pyroscope settings.
type ProfilerConfig struct {
	Enabled         bool
	ServerAddress   string
	ApplicationName string
	// ProfileTypes are keys of profileKinds, matched case-insensitively
	ProfileTypes []string
}

// Profiler pushes continuous profiles to Pyroscope.
type Profiler struct {
	session *pyroscope.Profiler
	logger  *zap.Logger
	once    sync.Once
}

// NewProfiler validates cfg and starts the session. A disabled config gives
// a Profiler whose Stop does nothing.
func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}
	if cfg.ServerAddress == "" {
		return nil, errors.New("profiler server address is required when profiling is enabled")
	}
	if cfg.ApplicationName == "" {
		return nil, errors.New("profiler application name is required when profiling is enabled")
	}
	types, err := ProfileTypesFor(cfg.ProfileTypes)
	if err != nil {
		return nil, err
	}
	if slices.Contains(types, pyroscope.ProfileMutexCount) {
		runtime.SetMutexProfileFraction(5)
	}
	if slices.Contains(types, pyroscope.ProfileBlockCount) {
		runtime.SetBlockProfileRate(5)
	}

	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}
	p.session, err = pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          logger.Named("pyroscope").Sugar(),
		Tags:            tags,
		ProfileTypes:    types,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	logger.Info("Pyroscope profiler started",
		zap.String("server_address", cfg.ServerAddress),
		zap.Strings("profile_types", cfg.ProfileTypes),
	)
	return p, nil
}

// ProfileTypesFor maps configured profile names to Pyroscope profile types.
func ProfileTypesFor(names []string) ([]pyroscope.ProfileType, error) {
	var types []pyroscope.ProfileType
	for _, name := range names {
		kinds, ok := profileKinds[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown profile type %q", name)
		}
		types = append(types, kinds...)
	}
	return types, nil
}

// Stop flushes the last profiles. Only the first call does anything.
func (p *Profiler) Stop() error {
	var err error
	p.once.Do(func() {
		if p.session == nil {
			return
		}
		if err = p.session.Stop(); err != nil {
			err = fmt.Errorf("stop profiler: %w", err)
			return
		}
		p.logger.Info("Pyroscope profiler stopped")
	})
	return err
}

func (p *Profiler) IsEnabled() bool {
	return p.session != nil
}

// WithProfilingLabels runs fn with labels attached to the goroutine's
// profile samples. Unknown keys and empty values are dropped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// sanitizeLabels returns key/value pairs sorted by key.
func sanitizeLabels(labels map[string]string) []string {
	var pairs []string
	for _, raw := range slices.Sorted(maps.Keys(labels)) {
		key := strings.ToLower(strings.ReplaceAll(raw, "-", "_"))
		value := labels[raw]
		if value == "" || !profilingLabelKeys[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		pairs = append(pairs, key, value)
	}
	return pairs
}
