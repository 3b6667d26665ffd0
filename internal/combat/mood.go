package combat

import "strings"

type Mood string

const (
	MoodBrave   Mood = "brave"
	MoodFierce  Mood = "fierce"
	MoodWild    Mood = "wild"
	MoodCalm    Mood = "calm"
	MoodStoic   Mood = "stoic"
	MoodDevoted Mood = "devoted"
	MoodCunning Mood = "cunning"
	MoodNoble   Mood = "noble"
	MoodMystic  Mood = "mystic"
)

// Moods lists the nine tags in table order.
var Moods = []Mood{
	MoodBrave, MoodFierce, MoodWild,
	MoodCalm, MoodStoic, MoodDevoted,
	MoodCunning, MoodNoble, MoodMystic,
}

type Advantage string

const (
	Advantaged    Advantage = "ADVANTAGE"
	Disadvantaged Advantage = "DISADVANTAGE"
	Neutral       Advantage = "NEUTRAL"
)

const (
	AdvantageMultiplier    = 1.2
	DisadvantageMultiplier = 0.8
	NeutralMultiplier      = 1.0
)

type MatchupResult struct {
	Multiplier float64   `json:"multiplier"`
	Advantage  Advantage `json:"advantage"`
}

type moodEdges struct {
	beats   [2]Mood
	losesTo [2]Mood
}

// Each mood beats two and loses to two; the table is closed under inversion.
var moodTable = map[Mood]moodEdges{
	MoodBrave:   {beats: [2]Mood{MoodWild, MoodCunning}, losesTo: [2]Mood{MoodFierce, MoodDevoted}},
	MoodFierce:  {beats: [2]Mood{MoodBrave, MoodNoble}, losesTo: [2]Mood{MoodWild, MoodCalm}},
	MoodWild:    {beats: [2]Mood{MoodFierce, MoodMystic}, losesTo: [2]Mood{MoodBrave, MoodStoic}},
	MoodCalm:    {beats: [2]Mood{MoodDevoted, MoodFierce}, losesTo: [2]Mood{MoodStoic, MoodCunning}},
	MoodStoic:   {beats: [2]Mood{MoodCalm, MoodWild}, losesTo: [2]Mood{MoodDevoted, MoodMystic}},
	MoodDevoted: {beats: [2]Mood{MoodStoic, MoodBrave}, losesTo: [2]Mood{MoodCalm, MoodNoble}},
	MoodCunning: {beats: [2]Mood{MoodMystic, MoodCalm}, losesTo: [2]Mood{MoodNoble, MoodBrave}},
	MoodNoble:   {beats: [2]Mood{MoodCunning, MoodDevoted}, losesTo: [2]Mood{MoodMystic, MoodFierce}},
	MoodMystic:  {beats: [2]Mood{MoodNoble, MoodStoic}, losesTo: [2]Mood{MoodCunning, MoodWild}},
}

// ParseMood normalises a tag. Unknown or empty input returns "", false.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := moodTable[m]; !ok {
		return "", false
	}
	return m, true
}

func (m Mood) Valid() bool {
	_, ok := moodTable[m]
	return ok
}

// Matchup resolves the attacker's mood against the defender's. Absent or unknown moods
// resolve to neutral.
func Matchup(attacker, defender Mood) MatchupResult {
	neutral := MatchupResult{Multiplier: NeutralMultiplier, Advantage: Neutral}
	edges, ok := moodTable[attacker]
	if !ok || !defender.Valid() || attacker == defender {
		return neutral
	}
	for _, m := range edges.beats {
		if m == defender {
			return MatchupResult{Multiplier: AdvantageMultiplier, Advantage: Advantaged}
		}
	}
	for _, m := range edges.losesTo {
		if m == defender {
			return MatchupResult{Multiplier: DisadvantageMultiplier, Advantage: Disadvantaged}
		}
	}
	return neutral
}

// AdvantageousAgainst lists the moods that hold the advantage over defender.
func AdvantageousAgainst(defender Mood) []Mood {
	var out []Mood
	for _, m := range Moods {
		if Matchup(m, defender).Advantage == Advantaged {
			out = append(out, m)
		}
	}
	return out
}

// MatchupChart returns every attacker/defender pair.
func MatchupChart() map[Mood]map[Mood]MatchupResult {
	chart := make(map[Mood]map[Mood]MatchupResult, len(Moods))
	for _, a := range Moods {
		row := make(map[Mood]MatchupResult, len(Moods))
		for _, d := range Moods {
			row[d] = Matchup(a, d)
		}
		chart[a] = row
	}
	return chart
}
