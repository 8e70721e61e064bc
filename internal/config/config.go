// Package config defines the compiler's optional TOML configuration file,
// loaded with github.com/BurntSushi/toml.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds settings a neonc invocation may read from a TOML file.
// neonc's -o/--output, when given, replaces the output path derived from
// OutputDir; neon-server's flags override the Server settings.
type Config struct {
	// TargetTriple overrides the LLVM target triple baked into emitted IR;
	// empty means "use the host's default triple".
	TargetTriple string `toml:"target_triple"`

	// OutputDir is where the object/IR file for each compiled program is
	// written; empty means the entry module's own directory.
	OutputDir string `toml:"output_dir"`

	// ImportRoots are additional directories searched when an import path
	// doesn't resolve relative to the importing file, for a
	// standard-library-style shared import set on top of plain
	// directory-relative resolution.
	ImportRoots []string `toml:"import_roots"`

	// KeepGoing, if true, continues compiling remaining queued modules
	// after one module accumulates a fatal diagnostic, instead of stopping
	// the whole program at the first failure.
	KeepGoing bool `toml:"keep_going"`

	// Server holds settings for the optional compile service
	// (internal/compilesvc).
	Server ServerConfig `toml:"server"`
}

// ServerConfig configures the optional HTTP compile service.
type ServerConfig struct {
	ListenAddress string `toml:"listen_address"`
	TokenSecret   string `toml:"token_secret"`
	DatabasePath  string `toml:"database_path"`
}

// Default returns the configuration used when no file is loaded.
func Default() Config {
	return Config{
		KeepGoing: false,
		Server: ServerConfig{
			ListenAddress: ":8080",
			DatabasePath:  "neon-builds.db",
		},
	}
}

// Load reads and parses a TOML config file at path, starting from Default()
// so an omitted field keeps its default rather than zeroing out.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
