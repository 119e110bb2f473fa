package models

// Enum values accepted by the store-level CHECK constraints. Repository code
// forwards values as-is; anything outside these sets is rejected by the
// schema, not by application logic.
const (
	SpeciesCat = "cat"
	SpeciesDog = "dog"

	LifeStageAdult = "adult"
	LifeStageYoung = "young"
	LifeStageAll   = "all"

	FoodTypeDry = "dry"
	FoodTypeWet = "wet"

	UnitLb  = "lb"
	UnitCan = "can"
)

// ValidSpecies reports whether value is a known species.
func ValidSpecies(value string) bool {
	return value == SpeciesCat || value == SpeciesDog
}

// ValidLifeStage reports whether value is a known life stage.
func ValidLifeStage(value string) bool {
	return value == LifeStageAdult || value == LifeStageYoung || value == LifeStageAll
}

// ValidFoodType reports whether value is a known food type.
func ValidFoodType(value string) bool {
	return value == FoodTypeDry || value == FoodTypeWet
}

// ValidUnit reports whether value is a known size unit.
func ValidUnit(value string) bool {
	return value == UnitLb || value == UnitCan
}
