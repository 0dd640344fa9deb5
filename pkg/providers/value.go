package providers

import "time"

// Kind identifies which variant a Value carries. Mappers switch on the
// concrete type; Kind exists for logging and capability listings.
type Kind int

const (
	KindNetwork Kind = iota
	KindCPU
	KindMemory
	KindBattery
	KindAudio
	KindWeather
	KindWindowManager
	KindDate
	KindKeyboard
	KindMedia
)

var kindNames = [...]string{
	KindNetwork:       "network",
	KindCPU:           "cpu",
	KindMemory:        "memory",
	KindBattery:       "battery",
	KindAudio:         "audio",
	KindWeather:       "weather",
	KindWindowManager: "window-manager",
	KindDate:          "date",
	KindKeyboard:      "keyboard",
	KindMedia:         "media",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is the closed set of readings a provider can emit. Only the types in
// this file implement it.
type Value interface {
	Kind() Kind
	isValue()
}

// InterfaceType is the tag set for a network interface.
type InterfaceType string

const (
	InterfaceEthernet           InterfaceType = "ethernet"
	InterfaceWifi               InterfaceType = "wifi"
	InterfaceProprietaryVirtual InterfaceType = "proprietary_virtual"
	InterfaceLoopback           InterfaceType = "loopback"
	InterfaceOther              InterfaceType = "other"
)

// NetworkInterface describes the interface carrying the default route.
type NetworkInterface struct {
	Name string        `json:"name"`
	Type InterfaceType `json:"type"`
}

// Gateway describes the default gateway. SignalStrength is nil for wired
// links; SSID is nil when the link has no SSID.
type Gateway struct {
	SSID           *string  `json:"ssid,omitempty"`
	SignalStrength *float64 `json:"signalStrength,omitempty"`
}

// Network is the latest network reading. Both fields are optional.
type Network struct {
	DefaultInterface *NetworkInterface `json:"defaultInterface,omitempty"`
	DefaultGateway   *Gateway          `json:"defaultGateway,omitempty"`
}

// CPU carries total usage in percent (0-100).
type CPU struct {
	Usage float64 `json:"usage"`
}

// Memory carries used memory in percent (0-100).
type Memory struct {
	Usage float64 `json:"usage"`
}

// Battery carries charge in percent and whether the battery is charging.
type Battery struct {
	ChargePercent float64 `json:"chargePercent"`
	IsCharging    bool    `json:"isCharging"`
}

// AudioDevice is a playback device. Volume is 0-100.
type AudioDevice struct {
	Name   string `json:"name"`
	Volume int    `json:"volume"`
	Muted  bool   `json:"muted"`
}

// Audio carries the default playback device, if any.
type Audio struct {
	DefaultPlaybackDevice *AudioDevice `json:"defaultPlaybackDevice,omitempty"`
}

// WeatherStatus is one of the twelve condition tags. Providers may emit a tag
// outside that set; mappers must not fail on it.
type WeatherStatus string

const (
	WeatherClearDay       WeatherStatus = "clear_day"
	WeatherClearNight     WeatherStatus = "clear_night"
	WeatherCloudyDay      WeatherStatus = "cloudy_day"
	WeatherCloudyNight    WeatherStatus = "cloudy_night"
	WeatherLightRainDay   WeatherStatus = "light_rain_day"
	WeatherLightRainNight WeatherStatus = "light_rain_night"
	WeatherHeavyRainDay   WeatherStatus = "heavy_rain_day"
	WeatherHeavyRainNight WeatherStatus = "heavy_rain_night"
	WeatherSnowDay        WeatherStatus = "snow_day"
	WeatherSnowNight      WeatherStatus = "snow_night"
	WeatherThunderDay     WeatherStatus = "thunder_day"
	WeatherThunderNight   WeatherStatus = "thunder_night"
)

// Weather carries the current condition and temperature.
type Weather struct {
	Status      WeatherStatus `json:"status"`
	CelsiusTemp float64       `json:"celsiusTemp"`
}

// Workspace is a window-manager workspace.
type Workspace struct {
	Name        string  `json:"name"`
	DisplayName *string `json:"displayName,omitempty"`
	HasFocus    bool    `json:"hasFocus"`
	IsDisplayed bool    `json:"isDisplayed"`
}

// BindingMode is an active window-manager binding mode.
type BindingMode struct {
	Name        string  `json:"name"`
	DisplayName *string `json:"displayName,omitempty"`
}

// TilingDirection is the direction new windows tile in.
type TilingDirection string

const (
	TilingHorizontal TilingDirection = "horizontal"
	TilingVertical   TilingDirection = "vertical"
)

// WindowManager is the window-manager state.
type WindowManager struct {
	CurrentWorkspaces []Workspace     `json:"currentWorkspaces"`
	BindingModes      []BindingMode   `json:"bindingModes"`
	IsPaused          bool            `json:"isPaused"`
	TilingDirection   TilingDirection `json:"tilingDirection"`
}

// Date carries the formatted clock text.
type Date struct {
	Formatted string    `json:"formatted"`
	Now       time.Time `json:"now"`
}

// Keyboard carries the active keyboard layout.
type Keyboard struct {
	Layout string `json:"layout"`
}

// Media carries the current media session, if any.
type Media struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	IsPlaying bool   `json:"isPlaying"`
}

func (Network) Kind() Kind       { return KindNetwork }
func (CPU) Kind() Kind           { return KindCPU }
func (Memory) Kind() Kind        { return KindMemory }
func (Battery) Kind() Kind       { return KindBattery }
func (Audio) Kind() Kind         { return KindAudio }
func (Weather) Kind() Kind       { return KindWeather }
func (WindowManager) Kind() Kind { return KindWindowManager }
func (Date) Kind() Kind          { return KindDate }
func (Keyboard) Kind() Kind      { return KindKeyboard }
func (Media) Kind() Kind         { return KindMedia }

func (Network) isValue()       {}
func (CPU) isValue()           {}
func (Memory) isValue()        {}
func (Battery) isValue()       {}
func (Audio) isValue()         {}
func (Weather) isValue()       {}
func (WindowManager) isValue() {}
func (Date) isValue()          {}
func (Keyboard) isValue()      {}
func (Media) isValue()         {}
