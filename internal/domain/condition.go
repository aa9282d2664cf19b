package domain

// Condition is one tag from the closed set of weather condition labels
// produced by the classifier.
type Condition string

const (
	ConditionHeavyRain    Condition = "HeavyRain"
	ConditionRainy        Condition = "Rainy"
	ConditionLightRain    Condition = "LightRain"
	ConditionVeryWindy    Condition = "VeryWindy"
	ConditionWindy        Condition = "Windy"
	ConditionVeryHot      Condition = "VeryHot"
	ConditionHotSunny     Condition = "HotSunny"
	ConditionFreezing     Condition = "Freezing"
	ConditionCold         Condition = "Cold"
	ConditionVeryHumid    Condition = "VeryHumid"
	ConditionHumid        Condition = "Humid"
	ConditionSunny        Condition = "Sunny"
	ConditionCloudy       Condition = "Cloudy"
	ConditionPartlyCloudy Condition = "PartlyCloudy"
)

// conditionInfo carries the fixed presentation attributes of a tag.
type conditionInfo struct {
	icon        string
	description string
}

var conditionDetails = map[Condition]conditionInfo{
	ConditionHeavyRain:    {"⛈️", "Heavy rain"},
	ConditionRainy:        {"🌧️", "Rainy"},
	ConditionLightRain:    {"🌦️", "Light rain"},
	ConditionVeryWindy:    {"💨", "Very windy"},
	ConditionWindy:        {"🍃", "Windy"},
	ConditionVeryHot:      {"🥵", "Very hot"},
	ConditionHotSunny:     {"☀️", "Hot and sunny"},
	ConditionFreezing:     {"🥶", "Freezing"},
	ConditionCold:         {"❄️", "Cold"},
	ConditionVeryHumid:    {"💦", "Very humid"},
	ConditionHumid:        {"🌫️", "Humid"},
	ConditionSunny:        {"😎", "Sunny"},
	ConditionCloudy:       {"☁️", "Cloudy"},
	ConditionPartlyCloudy: {"⛅", "Partly cloudy"},
}

// Icon returns the fixed icon token for the tag.
func (c Condition) Icon() string {
	return conditionDetails[c].icon
}

// Description returns the fixed human-readable description for the tag.
func (c Condition) Description() string {
	return conditionDetails[c].description
}

// String implements fmt.Stringer.
func (c Condition) String() string {
	return string(c)
}
