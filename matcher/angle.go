package matcher

import "github.com/estateflow/inventorybackend/models"

// Angle is one of the fixed photo viewpoints captured for an item.
type Angle string

const (
	AngleMain   Angle = "main"
	AngleDetail Angle = "detail"
	AngleLabel  Angle = "label"
	AngleDamage Angle = "damage"
	AngleSide   Angle = "angle2"
	AngleBack   Angle = "angle3"
)

// DefaultAngle is the viewpoint selected when nothing more specific is known.
const DefaultAngle = AngleMain

// angleKeywords maps each angle to the filename tokens that imply it. The
// slice order is the evaluation order: the first angle with a keyword present
// in the token set wins.
var angleKeywords = []struct {
	angle    Angle
	keywords []string
}{
	{AngleMain, []string{"main", "primary", "front"}},
	{AngleDetail, []string{"detail", "close", "zoom"}},
	{AngleLabel, []string{"label", "tag", "sticker"}},
	{AngleDamage, []string{"damage", "issue", "problem"}},
	{AngleSide, []string{"side", "left", "right"}},
	{AngleBack, []string{"back", "rear", "behind"}},
}

// categoryKeywords maps catalog categories to filename tokens that suggest
// an item of that category.
var categoryKeywords = map[models.Category][]string{
	models.CategoryFurniture:   {"chair", "table", "desk", "sofa", "couch", "bed"},
	models.CategoryArtDecor:    {"art", "painting", "decor", "frame", "sculpture"},
	models.CategoryElectronics: {"tv", "computer", "phone", "speaker", "device"},
	models.CategoryLighting:    {"lamp", "light", "fixture", "chandelier"},
	models.CategoryRugCarpet:   {"rug", "carpet", "mat"},
}

// Angles lists the full viewpoint vocabulary in declaration order.
func Angles() []Angle {
	return []Angle{AngleMain, AngleDetail, AngleLabel, AngleDamage, AngleSide, AngleBack}
}

// IsValidAngle reports whether s names a known viewpoint.
func IsValidAngle(s string) bool {
	for _, a := range Angles() {
		if Angle(s) == a {
			return true
		}
	}
	return false
}

func isAngleKeyword(token string) bool {
	for _, entry := range angleKeywords {
		for _, kw := range entry.keywords {
			if token == kw {
				return true
			}
		}
	}
	return false
}
