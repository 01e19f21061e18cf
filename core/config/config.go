// Package config loads smplinfo settings from flags, environment and an
// optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ankit-chaubey/smplinfo/core"
	"github.com/ankit-chaubey/smplinfo/core/format"
	"github.com/ankit-chaubey/smplinfo/core/midi"
)

// Keys.
const (
	KeyNote             = "note"
	KeyNoteFromFilename = "note-from-filename"
	KeyRename           = "rename"
	KeyPermissive       = "permissive"
	KeyRecursive        = "recursive"
	KeyDryRun           = "dry-run"
	KeyAtomic           = "atomic"
	KeyExtensions       = "extensions"
	KeyJSON             = "json"
	KeyVerbose          = "verbose"
	KeyConfig           = "config"
)

// Config is the resolved configuration for one run.
type Config struct {
	Edit    core.EditOptions
	JSON    bool
	Verbose bool
	// File is the config file that was read, if any.
	File string
}

// Flags declares every setting on a new flag set.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP(KeyNote, "n", "", "set the root note (number or name, e.g. 60 or C3)")
	fs.BoolP(KeyNoteFromFilename, "f", false, "set the root note from a note name in the file name")
	fs.StringP(KeyRename, "r", "", "rename files using a template (%m note number, %n note name, %% percent)")
	fs.Bool(KeyPermissive, false, "keep unknown % escapes in templates as literal text")
	fs.BoolP(KeyRecursive, "R", false, "descend into subdirectories")
	fs.BoolP(KeyDryRun, "d", false, "show what would change without writing")
	fs.Bool(KeyAtomic, false, "edit a temporary copy and rename it over the original")
	fs.StringSlice(KeyExtensions, core.DefaultExtensions, "extensions treated as WAV when scanning directories")
	fs.Bool(KeyJSON, false, "print one JSON object per file")
	fs.BoolP(KeyVerbose, "v", false, "print sampler details and tags")
	fs.String(KeyConfig, "", "config file (default ./smplinfo.yaml or ~/.config/smplinfo/smplinfo.yaml)")
	return fs
}

// Load resolves settings from the parsed flag set, SMPLINFO_* environment
// variables and the config file.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("smplinfo")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("smplinfo")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/smplinfo")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		JSON:    v.GetBool(KeyJSON),
		Verbose: v.GetBool(KeyVerbose),
		File:    v.ConfigFileUsed(),
		Edit: core.EditOptions{
			NoteFromFilename: v.GetBool(KeyNoteFromFilename),
			Recursive:        v.GetBool(KeyRecursive),
			DryRun:           v.GetBool(KeyDryRun),
			Atomic:           v.GetBool(KeyAtomic),
			Extensions:       v.GetStringSlice(KeyExtensions),
		},
	}

	if s := v.GetString(KeyNote); s != "" {
		n, err := midi.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", KeyNote, err)
		}
		cfg.Edit.Note = &n
	}

	if s := v.GetString(KeyRename); s != "" {
		mode := format.Strict
		if v.GetBool(KeyPermissive) {
			mode = format.Permissive
		}
		t, err := format.Parse(s, mode)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", KeyRename, err)
		}
		cfg.Edit.Template = t
	}

	return cfg, nil
}
