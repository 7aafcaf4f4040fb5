// Package cli holds the flag plumbing shared by the commands: repeatable
// key=value overrides, an optional JSON settings file and the log level.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"stable-fluids/internal/sims/smoke"
)

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

// Set validates the key=value shape and appends it.
func (l *KVList) Set(value string) error {
	key, _, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*l = append(*l, value)
	return nil
}

// Map returns the pairs as a map; later keys win.
func (l KVList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		key, value, _ := strings.Cut(kv, "=")
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}

// Options are the flags every command shares.
type Options struct {
	ConfigPath string
	Set        KVList
	LogLevel   string
}

// Bind registers -config, -set and -log-level on fs.
func (o *Options) Bind(fs *flag.FlagSet) {
	if o.LogLevel == "" {
		o.LogLevel = "info"
	}
	fs.StringVar(&o.ConfigPath, "config", o.ConfigPath, "JSON settings file")
	fs.Var(&o.Set, "set", "config override in key=value form (repeatable)")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level: debug, info, warn or error")
}

// Resolve layers the configuration: cfg as bound to fs, replaced by the
// settings file when one is given, then every flag the user set
// explicitly on fs, then -set overrides. The result is validated.
func (o *Options) Resolve(fs *flag.FlagSet, cfg smoke.Config) (smoke.Config, error) {
	if o.ConfigPath != "" {
		loaded, err := smoke.LoadConfigFile(o.ConfigPath)
		if err != nil {
			return cfg, err
		}
		// Explicit flags are parsed again, with their own types, onto the
		// loaded values.
		onto := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
		onto.SetOutput(io.Discard)
		loaded.Bind(onto)
		fs.Visit(func(f *flag.Flag) {
			if err != nil || onto.Lookup(f.Name) == nil {
				return
			}
			if setErr := onto.Set(f.Name, f.Value.String()); setErr != nil {
				err = fmt.Errorf("-%s: %w", f.Name, setErr)
			}
		})
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.Apply(o.Set.Map())
	return cfg, cfg.Validate()
}

// Logger builds a text logger writing to w at the configured level.
func (o *Options) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
