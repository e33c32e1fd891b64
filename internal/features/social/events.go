// Package social tracks favorability between members, special
// relationships and the date mini-game. events.go holds the static
// tables: date scenes, relation kinds and favorability bands.
package social

import (
	"strings"

	"github.com/0d00-Ciallo-0721/astrmarket/internal/weighted"
)

// DateEvent is one scene of a date. Each direction of favorability
// draws its own delta from [Min, Max].
type DateEvent struct {
	ID          string
	Name        string
	Description string
	Min, Max    int
}

var dateEvents = []DateEvent{
	{ID: "movie", Name: "Movie Night", Min: 3, Max: 5,
		Description: "You caught a film together and argued happily about the ending."},
	{ID: "park", Name: "Park Stroll", Min: 1, Max: 2,
		Description: "A slow walk around the lake, feeding ducks that clearly run the place."},
	{ID: "restaurant", Name: "Fancy Dinner", Min: 2, Max: 4,
		Description: "Candlelight, tiny portions, and a bill that built character."},
	{ID: "karaoke", Name: "Karaoke", Min: 1, Max: 3,
		Description: "Both of you sang off-key and neither of you cared."},
	{ID: "library", Name: "Library Afternoon", Min: 1, Max: 3,
		Description: "Quiet reading side by side, passing notes like students."},
	{ID: "arcade", Name: "Arcade Run", Min: 2, Max: 4,
		Description: "You pooled tokens and finally beat the claw machine."},
	{ID: "cafe", Name: "Cozy Cafe", Min: 2, Max: 5,
		Description: "Two lattes and a conversation that outlived them."},
	{ID: "shopping", Name: "Window Shopping", Min: 0, Max: 3,
		Description: "You bought nothing and rated everything."},
	{ID: "picnic", Name: "Picnic", Min: 3, Max: 5,
		Description: "Sandwiches on a hill, clouds shaped like everything."},
	{ID: "zoo", Name: "Zoo Visit", Min: 2, Max: 4,
		Description: "The red pandas stole the show, as always."},
	{ID: "concert", Name: "Live Concert", Min: 2, Max: 4,
		Description: "Front row energy from the back row seats."},
	{ID: "ice_cream", Name: "Ice Cream Stop", Min: 1, Max: 3,
		Description: "One scoop each, one bite traded."},
	{ID: "beach", Name: "Beach Day", Min: 3, Max: 5,
		Description: "Sandcastles, seashells and sunburn shared equally."},
	{ID: "amusement_park", Name: "Amusement Park", Min: 2, Max: 5,
		Description: "Three roller coasters and one very brave face."},
	{ID: "hiking", Name: "Hiking Trail", Min: 3, Max: 4,
		Description: "The summit view was worth every complaint on the way up."},
	{ID: "cooking", Name: "Cooking Together", Min: 2, Max: 5,
		Description: "The kitchen survived and dinner was actually good."},
	{ID: "garden", Name: "Botanical Garden", Min: 1, Max: 3,
		Description: "You learned three flower names and forgot two."},
	{ID: "dance", Name: "Dance Class", Min: 1, Max: 4,
		Description: "Stepped on toes, laughed it off, nailed the last turn."},
	{ID: "star_gazing", Name: "Star Gazing", Min: 3, Max: 5,
		Description: "A blanket, a thermos, and a sky that showed off."},
	{ID: "rain", Name: "Caught in the Rain", Min: -2, Max: 0,
		Description: "One umbrella between two people is a geometry problem."},
	{ID: "argument", Name: "Small Argument", Min: -3, Max: -1,
		Description: "A silly disagreement that took a while to laugh about."},
	{ID: "late", Name: "Running Late", Min: -2, Max: 0,
		Description: "Twenty minutes of waiting and a flustered apology."},
	{ID: "phone", Name: "Phone Checking", Min: -3, Max: -1,
		Description: "The screen got more attention than the company."},
	{ID: "ex", Name: "Awkward Encounter", Min: -4, Max: -2,
		Description: "Of all the cafes in town, the ex walked into this one."},
	{ID: "lost", Name: "Getting Lost", Min: -2, Max: 0,
		Description: "The shortcut was neither short nor a cut."},
	{ID: "bad_weather", Name: "Ruined Plans", Min: -3, Max: -1,
		Description: "The outdoor plan met a very indoor forecast."},
	{ID: "awkward_silence", Name: "Awkward Silence", Min: -2, Max: 0,
		Description: "Both of you reached for a topic and found none."},
	{ID: "wrong_place", Name: "Wrong Venue", Min: -3, Max: -1,
		Description: "Same restaurant name, opposite sides of town."},
	{ID: "spill_drink", Name: "Spilled Drink", Min: -2, Max: -1,
		Description: "The bubble tea chose violence and a white shirt."},
	{ID: "forget_name", Name: "Name Slip", Min: -4, Max: -2,
		Description: "Calling someone by the wrong name only takes once."},
}

// dateChoices wraps the scene table for uniform sampling without
// replacement.
func dateChoices() []weighted.Choice[DateEvent] {
	out := make([]weighted.Choice[DateEvent], len(dateEvents))
	for i, e := range dateEvents {
		out[i] = weighted.Choice[DateEvent]{Value: e, Weight: 1}
	}
	return out
}

// RelationKind identifies a special relationship slot.
type RelationKind string

const (
	RelationLover   RelationKind = "lover"
	RelationBrother RelationKind = "brother"
	RelationPatron  RelationKind = "patron"
)

// RelationKinds lists the kinds in display order.
var RelationKinds = []RelationKind{RelationLover, RelationBrother, RelationPatron}

// RelationName returns the display name of a kind.
func RelationName(k RelationKind) string {
	switch k {
	case RelationLover:
		return "Lover"
	case RelationBrother:
		return "Sworn Brother"
	case RelationPatron:
		return "Patron"
	}
	return string(k)
}

// KindFromName parses a user-typed kind, accepting the internal id or
// the display name, case-insensitive.
func KindFromName(name string) (RelationKind, bool) {
	for _, k := range RelationKinds {
		if strings.EqualFold(name, string(k)) || strings.EqualFold(name, RelationName(k)) {
			return k, true
		}
	}
	return "", false
}

// FavorLevel maps a favorability value to its band name.
func FavorLevel(favor int) string {
	switch {
	case favor <= 19:
		return "Stranger"
	case favor <= 49:
		return "Acquaintance"
	case favor <= 89:
		return "Friend"
	case favor <= 99:
		return "Close Friend"
	case favor == 100:
		return "One and Only"
	default:
		return "Soulmate"
	}
}
