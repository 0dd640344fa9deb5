package theme

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thGruvboxTheme(),
		thNordTheme(),
		thCatppuccinTheme(),
		thDraculaTheme(),
		thTokyoNightTheme(),
	} {
		thRegister(t)
	}
}

// thDefaultTheme returns the dark neutral theme with purple accent.
func thDefaultTheme() Theme {
	return Theme{
		Name:       "default",
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#a78bfa",

		Focused:     "#7c3aed",
		Displayed:   "#5b21b6",
		Warn:        "#e06c75",
		Charging:    "#4ec970",
		Muted:       "#6b6b6b",
		Paused:      "#e5c07b",
		BindingMode: "#61afef",
		Off:         "#6b6b6b",
		Playing:     "#4ec970",

		MeterFilled: "#7c3aed",
		MeterEmpty:  "#3e3e3e",
	}
}

// thGruvboxTheme returns the warm retro Gruvbox theme.
func thGruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Background: "#282828",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",

		Focused:     "#fe8019",
		Displayed:   "#d65d0e",
		Warn:        "#fb4934",
		Charging:    "#b8bb26",
		Muted:       "#928374",
		Paused:      "#fabd2f",
		BindingMode: "#83a598",
		Off:         "#928374",
		Playing:     "#b8bb26",

		MeterFilled: "#fe8019",
		MeterEmpty:  "#504945",
	}
}

// thNordTheme returns the cool arctic Nord theme.
func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Background: "#2e3440",
		Foreground: "#eceff4",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		Focused:     "#88c0d0",
		Displayed:   "#5e81ac",
		Warn:        "#bf616a",
		Charging:    "#a3be8c",
		Muted:       "#4c566a",
		Paused:      "#ebcb8b",
		BindingMode: "#b48ead",
		Off:         "#4c566a",
		Playing:     "#a3be8c",

		MeterFilled: "#88c0d0",
		MeterEmpty:  "#3b4252",
	}
}

// thCatppuccinTheme returns the Catppuccin Mocha theme.
func thCatppuccinTheme() Theme {
	return Theme{
		Name:       "catppuccin",
		Background: "#1e1e2e",
		Foreground: "#cdd6f4",
		Dim:        "#6c7086",
		Accent:     "#cba6f7",

		Focused:     "#cba6f7",
		Displayed:   "#89b4fa",
		Warn:        "#f38ba8",
		Charging:    "#a6e3a1",
		Muted:       "#6c7086",
		Paused:      "#f9e2af",
		BindingMode: "#fab387",
		Off:         "#6c7086",
		Playing:     "#a6e3a1",

		MeterFilled: "#cba6f7",
		MeterEmpty:  "#313244",
	}
}

// thDraculaTheme returns the Dracula theme.
func thDraculaTheme() Theme {
	return Theme{
		Name:       "dracula",
		Background: "#282a36",
		Foreground: "#f8f8f2",
		Dim:        "#6272a4",
		Accent:     "#bd93f9",

		Focused:     "#bd93f9",
		Displayed:   "#6272a4",
		Warn:        "#ff5555",
		Charging:    "#50fa7b",
		Muted:       "#6272a4",
		Paused:      "#f1fa8c",
		BindingMode: "#ffb86c",
		Off:         "#6272a4",
		Playing:     "#50fa7b",

		MeterFilled: "#bd93f9",
		MeterEmpty:  "#44475a",
	}
}

// thTokyoNightTheme returns the Tokyo Night theme.
func thTokyoNightTheme() Theme {
	return Theme{
		Name:       "tokyo-night",
		Background: "#1a1b26",
		Foreground: "#c0caf5",
		Dim:        "#565f89",
		Accent:     "#7aa2f7",

		Focused:     "#7aa2f7",
		Displayed:   "#3d59a1",
		Warn:        "#f7768e",
		Charging:    "#9ece6a",
		Muted:       "#565f89",
		Paused:      "#e0af68",
		BindingMode: "#bb9af7",
		Off:         "#565f89",
		Playing:     "#9ece6a",

		MeterFilled: "#7aa2f7",
		MeterEmpty:  "#292e42",
	}
}
