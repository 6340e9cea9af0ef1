// Package config loads importer options for the compiler tool from a config
// file and SWIGLOAD_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZenLiuCN/swigload"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SWIGLOAD_TOOLCHAIN_COMPILER.
const EnvPrefix = "SWIGLOAD"

// File mirrors the config file layout.
type File struct {
	Debug         bool          `mapstructure:"debug"`
	TempDir       string        `mapstructure:"temp_dir"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailurePolicy string        `mapstructure:"failure_policy"`
	KeepStage     bool          `mapstructure:"keep_stage"`
	ExtraCFlags   []string      `mapstructure:"extra_cflags"`
	ExtraLDFlags  []string      `mapstructure:"extra_ldflags"`
	Toolchain     struct {
		Generator     string   `mapstructure:"generator"`
		GeneratorArgs []string `mapstructure:"generator_args"`
		Compiler      string   `mapstructure:"compiler"`
		Probes        []string `mapstructure:"probes"`
		SharedExt     string   `mapstructure:"shared_ext"`
	} `mapstructure:"toolchain"`
}

// Load reads path (optional) on top of defaults; environment wins over both.
func Load(path string) (*File, error) {
	v := viper.New()
	d := swigload.DefaultToolchain()
	v.SetDefault("debug", false)
	v.SetDefault("temp_dir", "")
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("failure_policy", swigload.FailOnStderr.String())
	v.SetDefault("keep_stage", false)
	v.SetDefault("extra_cflags", []string{})
	v.SetDefault("extra_ldflags", []string{})
	v.SetDefault("toolchain.generator", d.Generator)
	v.SetDefault("toolchain.generator_args", d.GeneratorArgs)
	v.SetDefault("toolchain.compiler", d.Compiler)
	v.SetDefault("toolchain.probes", d.Probes)
	v.SetDefault("toolchain.shared_ext", d.SharedExt)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, ok := swigload.ParseFailurePolicy(f.FailurePolicy); !ok {
		return nil, fmt.Errorf("unknown failure_policy %q, want stderr or exit-status", f.FailurePolicy)
	}
	return &f, nil
}

// Options converts the file into importer options.
func (f *File) Options() swigload.Options {
	policy, _ := swigload.ParseFailurePolicy(f.FailurePolicy)
	return swigload.Options{
		Toolchain: swigload.Toolchain{
			Generator:     f.Toolchain.Generator,
			GeneratorArgs: f.Toolchain.GeneratorArgs,
			Compiler:      f.Toolchain.Compiler,
			Probes:        f.Toolchain.Probes,
			SharedExt:     f.Toolchain.SharedExt,
		},
		Debug:        f.Debug,
		TempDir:      f.TempDir,
		Timeout:      f.Timeout,
		Policy:       policy,
		ExtraCFlags:  f.ExtraCFlags,
		ExtraLDFlags: f.ExtraLDFlags,
		KeepStage:    f.KeepStage,
	}
}
