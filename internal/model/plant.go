package model

import "time"

// Watering and light metadata enums for catalog plants. Stored as their
// string values.
type (
	WateringPeriod string
	WateringTime   string
	SunRequirement string
	PlantType      string
)

const (
	WateringPeriodHour  WateringPeriod = "HOUR"
	WateringPeriodDay   WateringPeriod = "DAY"
	WateringPeriodWeek  WateringPeriod = "WEEK"
	WateringPeriodMonth WateringPeriod = "MONTH"

	WateringTimeMorning   WateringTime = "MORNING"
	WateringTimeAfternoon WateringTime = "AFTERNOON"
	WateringTimeNight     WateringTime = "NIGHT"

	SunRequirementShade     SunRequirement = "SHADE"
	SunRequirementPartShade SunRequirement = "PART_SHADE"
	SunRequirementFullSun   SunRequirement = "FULL_SUN"

	PlantTypeTree       PlantType = "TREE"
	PlantTypeLeafyPlant PlantType = "LEAFY_PLANT"
	PlantTypeFlower     PlantType = "FLOWER"
	PlantTypeSucculent  PlantType = "SUCCULENT"
	PlantTypeHerb       PlantType = "HERB"
	PlantTypeVegetable  PlantType = "VEGETABLE"
)

// Plant is a catalog entry describing a species and how to care for it.
// Catalog plants are shared across all users: they carry no owner and are
// not subject to ownership scoping. Users reference them through UserPlant.
type Plant struct {
	ID             int64          `json:"id"              db:"id"`
	Name           string         `json:"name"            db:"name"`
	ScientificName string         `json:"scientific_name" db:"scientific_name"`
	Type           PlantType      `json:"type"            db:"type"`
	WateringFreq   int            `json:"watering_freq"   db:"watering_freq"`
	WateringPeriod WateringPeriod `json:"watering_period" db:"watering_period"`
	WateringTime   WateringTime   `json:"watering_time"   db:"watering_time"`
	SunRequirement SunRequirement `json:"sun_requirement" db:"sun_requirement"`
	ExternalLink   string         `json:"external_link"   db:"external_link"`
	CreatedAt      time.Time      `json:"created_at"      db:"created_at"`
}
