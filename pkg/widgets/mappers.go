package widgets

import (
	"fmt"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

var signalTable = ThresholdTable{
	Rows: []Threshold{
		{Bound: 80, Icon: IconWifi4},
		{Bound: 65, Icon: IconWifi3},
		{Bound: 40, Icon: IconWifi2},
		{Bound: 25, Icon: IconWifi1},
	},
	Default: IconWifiOutline,
}

var interfaceIcons = NewEnumTable(map[providers.InterfaceType]Icon{
	providers.InterfaceEthernet:           IconEthernet,
	providers.InterfaceProprietaryVirtual: IconVPN,
}, IconWifiOff)

var batteryTable = ThresholdTable{
	Rows: []Threshold{
		{Bound: 90, Strict: true, Icon: IconBattery4},
		{Bound: 70, Strict: true, Icon: IconBattery3},
		{Bound: 40, Strict: true, Icon: IconBattery2},
		{Bound: 20, Strict: true, Icon: IconBattery1},
	},
	Default: IconBattery0,
}

var volumeTable = ThresholdTable{
	Rows: []Threshold{
		{Bound: 50, Icon: IconVolumeHigh},
		{Bound: 25, Strict: true, Icon: IconVolumeLow},
		{Bound: 0, Strict: true, Icon: IconVolumeOff},
	},
	Default: IconVolumeMuted,
}

// weatherIcons has no fallback: an unknown status draws no icon.
var weatherIcons = NewEnumTable(map[providers.WeatherStatus]Icon{
	providers.WeatherClearDay:       IconDaySunny,
	providers.WeatherClearNight:     IconNightClear,
	providers.WeatherCloudyDay:      IconDayCloudy,
	providers.WeatherCloudyNight:    IconNightCloudy,
	providers.WeatherLightRainDay:   IconDaySprinkle,
	providers.WeatherLightRainNight: IconNightSprinkle,
	providers.WeatherHeavyRainDay:   IconDayRain,
	providers.WeatherHeavyRainNight: IconNightRain,
	providers.WeatherSnowDay:        IconDaySnow,
	providers.WeatherSnowNight:      IconNightSnow,
	providers.WeatherThunderDay:     IconDayLightning,
	providers.WeatherThunderNight:   IconNightLightning,
}, "")

// cpuHighUsage is the usage above which the cpu label is flagged.
const cpuHighUsage = 85

func percent(v float64) string { return fmt.Sprintf("%d%%", Round(v)) }

// Network maps the default interface. No default interface is "off"
// whatever else the value carries.
func Network(n providers.Network) Representation {
	iface := n.DefaultInterface
	if iface == nil {
		return Representation{Icon: IconWifiOff, States: []string{StateOff}}
	}

	var gw providers.Gateway
	if n.DefaultGateway != nil {
		gw = *n.DefaultGateway
	}

	r := Representation{}
	if gw.SSID != nil {
		r.Label = *gw.SSID
	}
	if iface.Type == providers.InterfaceWifi {
		if gw.SignalStrength == nil {
			r.Icon = signalTable.Default
		} else {
			r.Icon = signalTable.Select(*gw.SignalStrength)
		}
		return r
	}
	icon, ok := interfaceIcons.Lookup(iface.Type)
	r.Icon = icon
	if !ok {
		r.States = []string{StateOff}
	}
	return r
}

func CPU(c providers.CPU) Representation {
	r := Representation{Icon: IconCPU, Label: percent(c.Usage)}
	if c.Usage > cpuHighUsage {
		r.States = []string{StateHighUsage}
	}
	return r
}

func Memory(m providers.Memory) Representation {
	return Representation{Icon: IconMemory, Label: percent(m.Usage)}
}

// Battery maps the charge level; charging adds the plug badge.
func Battery(b providers.Battery) Representation {
	r := Representation{
		Icon:  batteryTable.Select(b.ChargePercent),
		Label: percent(b.ChargePercent),
	}
	if b.IsCharging {
		r.Badge = IconPowerPlug
		r.States = []string{StateCharging}
	}
	return r
}

// Audio maps a playback volume. The caller resolves the device; a missing
// device is an absent source.
func Audio(volume int, muted bool) Representation {
	r := Representation{Icon: volumeTable.Select(float64(volume))}
	if muted {
		r.States = []string{StateMuted}
	}
	return r
}

// VolumeSlider draws the open audio editor.
func VolumeSlider(volume int) Representation {
	v := providers.ClampVolume(volume)
	return Representation{Label: fmt.Sprintf("%d%%", v), Meter: &v}
}

// Weather maps the condition and temperature. Unknown conditions keep the
// temperature label with no icon.
func Weather(w providers.Weather) Representation {
	icon, _ := weatherIcons.Lookup(w.Status)
	return Representation{Icon: icon, Label: fmt.Sprintf("%d°C", Round(w.CelsiusTemp))}
}

// Workspace maps one workspace button. Focus and display are independent
// tags.
func Workspace(ws providers.Workspace) Representation {
	r := Representation{Label: ws.Name}
	if ws.DisplayName != nil {
		r.Label = *ws.DisplayName
	}
	if ws.HasFocus {
		r.States = append(r.States, StateFocused)
	}
	if ws.IsDisplayed {
		r.States = append(r.States, StateDisplayed)
	}
	return r
}

func BindingMode(b providers.BindingMode) Representation {
	r := Representation{Label: b.Name, States: []string{StateBindingMode}}
	if b.DisplayName != nil {
		r.Label = *b.DisplayName
	}
	return r
}

// Paused is the button shown while the window manager is paused.
func Paused() Representation {
	return Representation{Label: "PAUSED", States: []string{StatePaused}}
}

func Tiling(d providers.TilingDirection) Representation {
	if d == providers.TilingHorizontal {
		return Representation{Icon: IconSwapHorizontal}
	}
	return Representation{Icon: IconSwapVertical}
}

func Date(d providers.Date) Representation {
	return Representation{Label: d.Formatted}
}

func Keyboard(k providers.Keyboard) Representation {
	return Representation{Icon: IconKeyboard, Label: k.Layout}
}

func Media(m providers.Media) Representation {
	r := Representation{Icon: IconPause, Label: m.Title}
	if m.Artist != "" {
		r.Label = m.Artist + " - " + m.Title
	}
	if m.IsPlaying {
		r.Icon = IconPlay
		r.States = []string{StatePlaying}
	}
	return r
}
