package matcher

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/estateflow/inventorybackend/models"
)

// Hints holds everything that could be guessed from an uploaded filename.
// Empty fields mean the hint was absent; that is not an error, only a quality
// degradation for scoring.
type Hints struct {
	ItemID   string `json:"item_id,omitempty"`
	Room     string `json:"room,omitempty"`
	Angle    Angle  `json:"angle,omitempty"`
	ItemName string `json:"item_name,omitempty"`
}

// itemIDPattern captures the word token following an "item" or "id" marker,
// e.g. "item-042" or "id_abc".
var itemIDPattern = regexp.MustCompile(`(?:^|[-_ ])(?:item|id)[-_ ]?([a-z0-9]+)`)

func tokenize(filename string) []string {
	name := strings.ToLower(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
}

// roomNameMatches reports whether a filename token refers to the given room.
// Comparison is substring in either direction, against both the lowercased
// room name and the name with spaces removed, so "livingroom" matches
// "Living Room".
func roomNameMatches(token string, room models.Room) bool {
	if token == "" {
		return false
	}
	name := strings.ToLower(room.Name)
	compact := strings.ReplaceAll(name, " ", "")
	return strings.Contains(name, token) || strings.Contains(token, name) ||
		strings.Contains(compact, token) || strings.Contains(token, compact)
}

func matchesAnyRoom(token string, rooms []models.Room) bool {
	for _, room := range rooms {
		if roomNameMatches(token, room) {
			return true
		}
	}
	return false
}

// ParseFilename derives best-effort hints from an uploaded filename. Rooms
// are consulted in catalog order; the first room with a matching token wins.
// A filename with nothing extractable yields the zero Hints.
func ParseFilename(filename string, rooms []models.Room) Hints {
	var hints Hints

	name := strings.ToLower(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if m := itemIDPattern.FindStringSubmatch(name); m != nil {
		hints.ItemID = m[1]
	}

	tokens := tokenize(filename)

roomSearch:
	for _, room := range rooms {
		for _, tok := range tokens {
			if roomNameMatches(tok, room) {
				hints.Room = tok
				break roomSearch
			}
		}
	}

angleSearch:
	for _, entry := range angleKeywords {
		for _, kw := range entry.keywords {
			for _, tok := range tokens {
				if tok == kw {
					hints.Angle = entry.angle
					break angleSearch
				}
			}
		}
	}

	var nameTokens []string
	for _, tok := range tokens {
		if len(tok) <= 2 {
			continue
		}
		// the id marker and its captured token carry no name information
		if tok == "item" || tok == "id" || (hints.ItemID != "" && tok == hints.ItemID) {
			continue
		}
		if isAngleKeyword(tok) {
			continue
		}
		if matchesAnyRoom(tok, rooms) {
			continue
		}
		nameTokens = append(nameTokens, tok)
	}
	hints.ItemName = strings.Join(nameTokens, " ")

	return hints
}
