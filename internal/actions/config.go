package actions

import (
	"gitpusher.dev/gitpusher/internal/config"
	"gitpusher.dev/gitpusher/internal/runtime"
	"gitpusher.dev/gitpusher/internal/tui"
)

// ConfigShowAction prints the effective configuration with the token masked
func ConfigShowAction(ctx *runtime.Context) error {
	ctx.Splog.Info("%s", tui.ColorDim("# "+config.Path()))
	for _, key := range config.Keys() {
		value, err := ctx.Config.Get(key)
		if err != nil {
			return err
		}
		if value == "" {
			value = tui.ColorDim("(not set)")
		}
		ctx.Splog.Info("%s: %s", key, value)
	}
	return nil
}

// ConfigSetOptions contains options for the config set command
type ConfigSetOptions struct {
	Key   string
	Value string
}

// ConfigSetAction writes one key to the config file.
// Environment overrides are not written back.
func ConfigSetAction(ctx *runtime.Context, opts ConfigSetOptions) error {
	path := config.Path()
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(opts.Key, opts.Value); err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	shown, err := cfg.Get(opts.Key)
	if err != nil {
		return err
	}
	ctx.Splog.Info("Set %s to: %s", opts.Key, shown)
	return nil
}
