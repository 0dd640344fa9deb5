package theme

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name  string      `toml:"name"`
	Base  thTOMLBase  `toml:"base"`
	State thTOMLState `toml:"state"`
	Meter thTOMLMeter `toml:"meter"`
}

type thTOMLBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLState struct {
	Focused     string `toml:"focused"`
	Displayed   string `toml:"displayed"`
	Warn        string `toml:"warn"`
	Charging    string `toml:"charging"`
	Muted       string `toml:"muted"`
	Paused      string `toml:"paused"`
	BindingMode string `toml:"binding_mode"`
	Off         string `toml:"off"`
	Playing     string `toml:"playing"`
}

type thTOMLMeter struct {
	Filled string `toml:"filled"`
	Empty  string `toml:"empty"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition from raw bytes. Colors missing
// from the file are taken from the default theme.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := Theme{
		Name:       tt.Name,
		Background: tt.Base.Background,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,

		Focused:     tt.State.Focused,
		Displayed:   tt.State.Displayed,
		Warn:        tt.State.Warn,
		Charging:    tt.State.Charging,
		Muted:       tt.State.Muted,
		Paused:      tt.State.Paused,
		BindingMode: tt.State.BindingMode,
		Off:         tt.State.Off,
		Playing:     tt.State.Playing,

		MeterFilled: tt.Meter.Filled,
		MeterEmpty:  tt.Meter.Empty,
	}

	def := thDefaultTheme()
	defFields := def.fields()
	for i, f := range t.fields() {
		if *f.ptr == "" {
			*f.ptr = *defFields[i].ptr
		}
	}

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// LoadFile reads a theme file from disk.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: %w", err)
	}
	return LoadFromTOML(data)
}

// LoadDir registers every *.toml theme in dir and returns the names it
// loaded. A missing dir is not an error. Bad files are skipped and reported
// together.
func LoadDir(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	sort.Strings(paths)

	var (
		names []string
		errs  []error
	)
	for _, p := range paths {
		t, err := LoadFile(p)
		if err == nil {
			err = Register(t)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(p), err))
			continue
		}
		names = append(names, t.Name)
	}
	return names, errors.Join(errs...)
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{
		Name: t.Name,
		Base: thTOMLBase{
			Background: t.Background,
			Foreground: t.Foreground,
			Dim:        t.Dim,
			Accent:     t.Accent,
		},
		State: thTOMLState{
			Focused:     t.Focused,
			Displayed:   t.Displayed,
			Warn:        t.Warn,
			Charging:    t.Charging,
			Muted:       t.Muted,
			Paused:      t.Paused,
			BindingMode: t.BindingMode,
			Off:         t.Off,
			Playing:     t.Playing,
		},
		Meter: thTOMLMeter{
			Filled: t.MeterFilled,
			Empty:  t.MeterEmpty,
		},
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// thValidateTheme checks that the theme is named and every color is valid
// hex.
func thValidateTheme(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}
	for _, f := range t.fields() {
		if *f.ptr == "" {
			return fmt.Errorf("theme: missing required field %q", f.key)
		}
		if !thHexColorRegex.MatchString(*f.ptr) {
			return fmt.Errorf("theme: invalid hex color %q for field %q (expected #RRGGBB)", *f.ptr, f.key)
		}
	}
	return nil
}
