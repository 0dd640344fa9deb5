package widgets

// Icon is a Nerd Font class name such as "nf-md-wifi_strength_4". The empty
// Icon draws nothing.
type Icon string

const (
	IconEthernet       Icon = "nf-md-ethernet_cable"
	IconVPN            Icon = "nf-md-shield_lock_outline"
	IconWifi4          Icon = "nf-md-wifi_strength_4"
	IconWifi3          Icon = "nf-md-wifi_strength_3"
	IconWifi2          Icon = "nf-md-wifi_strength_2"
	IconWifi1          Icon = "nf-md-wifi_strength_1"
	IconWifiOutline    Icon = "nf-md-wifi_strength_outline"
	IconWifiOff        Icon = "nf-md-wifi_strength_off_outline"
	IconMemory         Icon = "nf-fae-chip"
	IconCPU            Icon = "nf-oct-cpu"
	IconBattery4       Icon = "nf-fa-battery_4"
	IconBattery3       Icon = "nf-fa-battery_3"
	IconBattery2       Icon = "nf-fa-battery_2"
	IconBattery1       Icon = "nf-fa-battery_1"
	IconBattery0       Icon = "nf-fa-battery_0"
	IconPowerPlug      Icon = "nf-md-power_plug"
	IconVolumeMuted    Icon = "nf-fa-volume_xmark"
	IconVolumeOff      Icon = "nf-fa-volume_off"
	IconVolumeLow      Icon = "nf-fa-volume_low"
	IconVolumeHigh     Icon = "nf-fa-volume_high"
	IconDaySunny       Icon = "nf-weather-day_sunny"
	IconNightClear     Icon = "nf-weather-night_clear"
	IconDayCloudy      Icon = "nf-weather-day_cloudy"
	IconNightCloudy    Icon = "nf-weather-night_alt_cloudy"
	IconDaySprinkle    Icon = "nf-weather-day_sprinkle"
	IconNightSprinkle  Icon = "nf-weather-night_alt_sprinkle"
	IconDayRain        Icon = "nf-weather-day_rain"
	IconNightRain      Icon = "nf-weather-night_alt_rain"
	IconDaySnow        Icon = "nf-weather-day_snow"
	IconNightSnow      Icon = "nf-weather-night_alt_snow"
	IconDayLightning   Icon = "nf-weather-day_lightning"
	IconNightLightning Icon = "nf-weather-night_alt_lightning"
	IconSwapHorizontal Icon = "nf-md-swap_horizontal"
	IconSwapVertical   Icon = "nf-md-swap_vertical"
	IconKeyboard       Icon = "nf-fa-keyboard"
	IconPlay           Icon = "nf-md-play"
	IconPause          Icon = "nf-md-pause"
)

var glyphs = map[Icon]rune{
	IconEthernet:       0xF0200,
	IconVPN:            0xF0CCC,
	IconWifi4:          0xF0928,
	IconWifi3:          0xF0925,
	IconWifi2:          0xF0922,
	IconWifi1:          0xF091F,
	IconWifiOutline:    0xF092F,
	IconWifiOff:        0xF092E,
	IconMemory:         0xE266,
	IconCPU:            0xF4BC,
	IconBattery4:       0xF240,
	IconBattery3:       0xF241,
	IconBattery2:       0xF242,
	IconBattery1:       0xF243,
	IconBattery0:       0xF244,
	IconPowerPlug:      0xF06A5,
	IconVolumeMuted:    0xF6A9,
	IconVolumeOff:      0xF026,
	IconVolumeLow:      0xF027,
	IconVolumeHigh:     0xF028,
	IconDaySunny:       0xE30D,
	IconNightClear:     0xE32B,
	IconDayCloudy:      0xE302,
	IconNightCloudy:    0xE37E,
	IconDaySprinkle:    0xE30B,
	IconNightSprinkle:  0xE328,
	IconDayRain:        0xE308,
	IconNightRain:      0xE325,
	IconDaySnow:        0xE30A,
	IconNightSnow:      0xE327,
	IconDayLightning:   0xE305,
	IconNightLightning: 0xE322,
	IconSwapHorizontal: 0xF04E1,
	IconSwapVertical:   0xF04E2,
	IconKeyboard:       0xF11C,
	IconPlay:           0xF040A,
	IconPause:          0xF03E4,
}

// asciiGlyphs stand in for icons on terminals without a Nerd Font.
var asciiGlyphs = map[Icon]string{
	IconEthernet:       "eth",
	IconVPN:            "vpn",
	IconWifi4:          "W4",
	IconWifi3:          "W3",
	IconWifi2:          "W2",
	IconWifi1:          "W1",
	IconWifiOutline:    "W0",
	IconWifiOff:        "W-",
	IconMemory:         "mem",
	IconCPU:            "cpu",
	IconBattery4:       "[####]",
	IconBattery3:       "[### ]",
	IconBattery2:       "[##  ]",
	IconBattery1:       "[#   ]",
	IconBattery0:       "[    ]",
	IconPowerPlug:      "+",
	IconVolumeMuted:    "vol:x",
	IconVolumeOff:      "vol:.",
	IconVolumeLow:      "vol:-",
	IconVolumeHigh:     "vol:=",
	IconSwapHorizontal: "<->",
	IconSwapVertical:   "^v",
	IconKeyboard:       "kb",
	IconPlay:           ">",
	IconPause:          "||",
}

// Glyph returns the Nerd Font character for i, or "" if i is unknown.
func (i Icon) Glyph() string {
	r, ok := glyphs[i]
	if !ok {
		return ""
	}
	return string(r)
}

// ASCII returns a plain-text stand-in for i. Weather icons fall back to
// their condition name.
func (i Icon) ASCII() string {
	if s, ok := asciiGlyphs[i]; ok {
		return s
	}
	if i == "" {
		return ""
	}
	for status, icon := range weatherIcons.entries {
		if icon == i {
			return string(status)
		}
	}
	return ""
}
