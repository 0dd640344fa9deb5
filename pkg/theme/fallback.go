package theme

import (
	"strconv"

	"github.com/muesli/termenv"
)

// Adapt converts every color to the nearest one profile can show: a
// 256-color or 16-color index as a decimal string. TrueColor and Ascii
// profiles return t unchanged; Ascii output carries no color at all.
func Adapt(t Theme, profile termenv.Profile) Theme {
	if profile == termenv.TrueColor || profile == termenv.Ascii {
		return t
	}
	for _, f := range t.fields() {
		*f.ptr = convert(*f.ptr, profile)
	}
	return t
}

func convert(hex string, profile termenv.Profile) string {
	switch c := profile.Color(hex).(type) {
	case termenv.ANSI256Color:
		return strconv.Itoa(int(c))
	case termenv.ANSIColor:
		return strconv.Itoa(int(c))
	}
	return hex
}
