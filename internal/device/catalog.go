package device

import "strings"

// Platform partitions entities by kind. The zero ordering of platforms is
// the enumeration order used by Device.Sensors and friends.
type Platform string

// Supported entity platforms.
const (
	PlatformSwitch       Platform = "switch"
	PlatformSensor       Platform = "sensor"
	PlatformBinarySensor Platform = "binary_sensor"
	PlatformSelect       Platform = "select"
	PlatformButton       Platform = "button"
)

// platformOrder is the canonical enumeration order across platforms.
var platformOrder = []Platform{
	PlatformSwitch,
	PlatformSensor,
	PlatformBinarySensor,
	PlatformSelect,
	PlatformButton,
}

// Entity names with special handling.
const (
	switchPushNotifications = "pushNotifications"
	sensorLastAlarm         = "lastAlarm"
	sensorStorageUsed       = "storageUsed"
	sensorCallbackURL       = "callbackUrl"
	binarySensorOnline      = "online"
	selectNightVisionMode   = "nightVisionMode"
	buttonRestartDevice     = "restartDevice"
	buttonRefreshData       = "refreshData"
)

// Capability tokens with special handling during entity instantiation.
const (
	capabilityMotionDetect = "motionDetect"
	capabilityLocalStorage = "localStorage"
	capabilityNightVision  = "NVM"
)

// switchTypes lists every switch the vendor can expose, in catalog order.
// During initialisation each type is matched case-insensitively against the
// device's capability tokens; the first capability match instantiates the
// switch (see https://open.imoulife.com/book/en/faq/feature.html).
var switchTypes = []string{
	"motionDetect",
	"headerDetect",
	"abAlarmSound",
	"breathingLight",
	"closeCamera",
	"linkDevAlarm",
	"whiteLight",
	"smartTrack",
	"linkagewhitelight",
	"pushNotifications",
}

// switchDescriptions maps normalised switch names to human descriptions.
var switchDescriptions = map[string]string{
	"motiondetect":      "Motion detection",
	"headerdetect":      "Human detection",
	"abalarmsound":      "Abnormal alarm sound",
	"breathinglight":    "Breathing light",
	"closecamera":       "Turn off camera",
	"linkdevalarm":      "Link device alarm",
	"whitelight":        "White light",
	"smarttrack":        "Smart tracking",
	"linkagewhitelight": "Linkage white light",
	"pushnotifications": "Push notifications",
}

// sensorDescriptions maps normalised sensor names to human descriptions.
var sensorDescriptions = map[string]string{
	"lastalarm":   "Last alarm time",
	"storageused": "SD card used",
	"callbackurl": "Callback URL",
}

// binarySensorDescriptions maps normalised binary sensor names to human descriptions.
var binarySensorDescriptions = map[string]string{
	"online":      "Online",
	"motionalarm": "Motion alarm",
}

// selectDescriptions maps normalised select names to human descriptions.
var selectDescriptions = map[string]string{
	"nightvisionmode": "Night vision mode",
}

// buttonDescriptions maps normalised button names to human descriptions.
var buttonDescriptions = map[string]string{
	"restartdevice": "Restart device",
	"refreshdata":   "Refresh data",
}

// capabilityDescriptions maps normalised vendor capability tokens to human
// descriptions. The vocabulary is vendor-defined and open-ended; unknown
// tokens fall back to the raw name.
var capabilityDescriptions = map[string]string{
	"wlan":               "Wireless network",
	"audiotalk":          "Two-way audio talk",
	"audioencodecontrol": "Audio encode control",
	"nvm":                "Night vision mode",
	"ptz":                "Pan/tilt control",
	"motiondetect":       "Motion detection",
	"mobiledetect":       "Motion detection push",
	"headerdetect":       "Human detection",
	"alarmpir":           "PIR alarm",
	"checksound":         "Sound detection",
	"sirenalarm":         "Siren alarm",
	"abalarmsound":       "Abnormal alarm sound",
	"localstorage":       "Local SD card storage",
	"cloudstorage":       "Cloud storage",
	"playbackbyfilename": "Playback by file name",
	"breathinglight":     "Breathing light",
	"whitelight":         "White light",
	"linkagewhitelight":  "Linkage white light",
	"closecamera":        "Turn off camera",
	"linkdevalarm":       "Link device alarm",
	"smarttrack":         "Smart tracking",
	"remotecontrol":      "Remote control",
	"timedcruise":        "Timed cruise",
	"reboot":             "Remote reboot",
	"timesync":           "Time synchronisation",
	"seccode":            "Security code",
	"dhp2p":              "P2P connectivity",
	"hsencrypt":          "Stream encryption",
	"tlsenable":          "TLS support",
	"daysummertime":      "Day summer time",
	"weeksummertime":     "Week summer time",
	"eco":                "Power saving mode",
	"dorbell":            "Doorbell",
	"callbyrtsp":         "RTSP calling",
}

// descriptionTables maps each platform to its description catalog.
var descriptionTables = map[Platform]map[string]string{
	PlatformSwitch:       switchDescriptions,
	PlatformSensor:       sensorDescriptions,
	PlatformBinarySensor: binarySensorDescriptions,
	PlatformSelect:       selectDescriptions,
	PlatformButton:       buttonDescriptions,
}

// describe renders "Description (name)" for known names and falls back to
// the raw name for unknown ones. Lookup is case-insensitive.
func describe(table map[string]string, name string) string {
	if desc, ok := table[strings.ToLower(name)]; ok {
		return desc + " (" + name + ")"
	}
	return name
}

// entityDescription resolves the catalog description for a platform/name pair.
func entityDescription(platform Platform, name string) string {
	table, ok := descriptionTables[platform]
	if !ok {
		return name
	}
	return describe(table, name)
}

// hasCapability reports whether the capability set contains the given token,
// matched case-insensitively.
func hasCapability(capabilities []string, token string) bool {
	for _, c := range capabilities {
		if strings.EqualFold(c, token) {
			return true
		}
	}
	return false
}
