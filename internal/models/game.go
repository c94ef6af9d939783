package models

// Phase is the coarse lifecycle stage of a game run.
type Phase string

const (
	PhaseStart   Phase = "START"
	PhasePlaying Phase = "PLAYING"
	PhaseEnded   Phase = "ENDED"
)

// EntryType classifies a history entry.
type EntryType string

const (
	EntryNormal      EntryType = "normal"
	EntryChoice      EntryType = "choice"
	EntryDeath       EntryType = "death"
	EntryAchievement EntryType = "achievement"
)

// Stats are the five character attributes. Health is clamped to [0, 100]
// after every update; the other attributes are unbounded in both directions.
type Stats struct {
	Health       int `json:"health"`
	Intelligence int `json:"intelligence"`
	Charm        int `json:"charm"`
	Wealth       int `json:"wealth"`
	Happiness    int `json:"happiness"`
}

// StatChanges is a partial delta to Stats. A zero field means "no change";
// an explicit zero from the model reads the same.
type StatChanges struct {
	Health       int `json:"health,omitempty"`
	Intelligence int `json:"intelligence,omitempty"`
	Charm        int `json:"charm,omitempty"`
	Wealth       int `json:"wealth,omitempty"`
	Happiness    int `json:"happiness,omitempty"`
}

// IsZero reports whether the delta changes nothing.
func (c StatChanges) IsZero() bool {
	return c == StatChanges{}
}

// ApplyChanges returns the stats after adding the delta field-wise.
// Only health is clamped; the rest keep the exact sum.
func (s Stats) ApplyChanges(c *StatChanges) Stats {
	if c == nil {
		return s
	}
	out := Stats{
		Health:       s.Health + c.Health,
		Intelligence: s.Intelligence + c.Intelligence,
		Charm:        s.Charm + c.Charm,
		Wealth:       s.Wealth + c.Wealth,
		Happiness:    s.Happiness + c.Happiness,
	}
	if out.Health < 0 {
		out.Health = 0
	}
	if out.Health > 100 {
		out.Health = 100
	}
	return out
}

// Total returns the sum of all five attributes. Used to validate the
// starting allocation.
func (s Stats) Total() int {
	return s.Health + s.Intelligence + s.Charm + s.Wealth + s.Happiness
}

// HasNegative reports whether any attribute is below zero.
func (s Stats) HasNegative() bool {
	return s.Health < 0 || s.Intelligence < 0 || s.Charm < 0 || s.Wealth < 0 || s.Happiness < 0
}

// ChoiceOption is one branch offered to the player. It lives only between
// the turn that offers it and the turn that resolves it.
type ChoiceOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// LogEntry is one resolved year of the character's life. History is
// append-only; entries are never mutated after creation.
type LogEntry struct {
	Age          int          `json:"age"`
	Content      string       `json:"content"`
	Type         EntryType    `json:"type"`
	StatsChanged *StatChanges `json:"statsChanged,omitempty"`
	Achievements []string     `json:"achievements,omitempty"`
}

// GameState is the aggregate root of one run. It is owned exclusively by
// the game service; handlers only read snapshots of it.
type GameState struct {
	Age           int            `json:"age"`
	Stats         Stats          `json:"stats"`
	Talents       []Talent       `json:"talents"`
	History       []LogEntry     `json:"history"`
	Phase         Phase          `json:"phase"`
	IsProcessing  bool           `json:"isProcessing"`
	PendingChoice []ChoiceOption `json:"pendingChoice,omitempty"`
	DeathReason   string         `json:"deathReason,omitempty"`
	Summary       string         `json:"summary,omitempty"`
	Achievements  []string       `json:"achievements"`
}

// NewGameState returns a fresh state in the START phase, age -1 (before
// birth), with no attributes assigned.
func NewGameState() *GameState {
	return &GameState{
		Age:          -1,
		Phase:        PhaseStart,
		History:      []LogEntry{},
		Achievements: []string{},
	}
}

// MergeAchievements adds the given names to the accumulated set, keeping
// first-seen order and dropping duplicates.
func (g *GameState) MergeAchievements(names []string) {
	for _, name := range names {
		seen := false
		for _, have := range g.Achievements {
			if have == name {
				seen = true
				break
			}
		}
		if !seen {
			g.Achievements = append(g.Achievements, name)
		}
	}
}
