package music

// DefaultInstrument is substituted when the enabled set is empty or a
// selection turns out to be misconfigured. The substitution is logged by
// the engine, never raised as an error.
const DefaultInstrument = "piano"

// familyInstruments groups concrete instrument names by timbral family.
var familyInstruments = map[string][]string{
	"keys":       {"piano", "electric-piano", "celesta"},
	"strings":    {"strings", "violin", "cello", "harp"},
	"winds":      {"flute", "clarinet", "oboe"},
	"brass":      {"trumpet", "horn", "trombone"},
	"pads":       {"pad", "choir", "warm-pad"},
	"percussive": {"marimba", "vibraphone", "xylophone"},
	"electronic": {"lead", "pluck", "bass"},
}

// typePreferences ranks families per file type. The selector walks the
// list in order and settles on the first family with an enabled member.
var typePreferences = map[string][]string{
	"note":       {"keys", "strings", "pads"},
	"daily":      {"keys", "percussive", "pads"},
	"attachment": {"percussive", "electronic", "keys"},
	"image":      {"pads", "strings", "keys"},
	"audio":      {"electronic", "brass", "keys"},
	"video":      {"brass", "electronic", "pads"},
	"pdf":        {"winds", "strings", "keys"},
	"canvas":     {"electronic", "pads", "percussive"},
	"tag":        {"winds", "pads", "keys"},
}

var fallbackPreference = []string{"keys", "pads", "strings"}

// FamilyOf reports the timbral family of a concrete instrument, for hosts
// that map families to synthesis or GM program settings.
func FamilyOf(name string) (string, bool) { return instrumentFamily(name) }

// instrumentFamily reports the family a concrete instrument belongs to.
func instrumentFamily(name string) (string, bool) {
	for family, members := range familyInstruments {
		for _, m := range members {
			if m == name {
				return family, true
			}
		}
	}
	return "", false
}

// SelectInstrument picks one of the enabled instruments for a file type.
// Ranked families are tried first; within a family the pick is a hash
// tie-break over fileType+family so the same vault always sounds the same.
// Enabled instruments outside any known family come next, then any enabled
// instrument at all. The false return means the enabled set was empty and
// the caller must substitute DefaultInstrument itself.
func SelectInstrument(fileType string, enabled []string) (string, bool) {
	if len(enabled) == 0 {
		return "", false
	}
	enabledSet := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		enabledSet[name] = true
	}

	prefs, ok := typePreferences[fileType]
	if !ok {
		prefs = fallbackPreference
	}
	for _, family := range prefs {
		var candidates []string
		for _, name := range familyInstruments[family] {
			if enabledSet[name] {
				candidates = append(candidates, name)
			}
		}
		if len(candidates) > 0 {
			pick := hash32(fileType+family) % uint32(len(candidates))
			return candidates[pick], true
		}
	}

	// No preferred family is enabled: prefer enabled strangers to known
	// families before falling back to anything at all.
	var strangers []string
	for _, name := range enabled {
		if _, known := instrumentFamily(name); !known {
			strangers = append(strangers, name)
		}
	}
	pool := strangers
	if len(pool) == 0 {
		pool = enabled
	}
	pick := hash32(fileType) % uint32(len(pool))
	return pool[pick], true
}
