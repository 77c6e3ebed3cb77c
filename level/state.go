package level

// State tracks where a run is in its level progression.
type State uint8

const (
	// Playing means the current level is active.
	Playing State = iota
	// Won means every non-bonus fly in the level was caught.
	Won
	// BonusFound means a bonus prey was caught; the bonus level comes next.
	BonusFound
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case BonusFound:
		return "bonus-found"
	default:
		return "unknown"
	}
}

// Progression walks the level graph as levels are won and bonuses found.
type Progression struct {
	set     *Set
	current *Definition
	state   State
}

// NewProgression starts a progression at the named level, or at the set's
// first level when name is empty.
func NewProgression(set *Set, name string) (*Progression, bool) {
	if name == "" {
		name = set.First
	}
	def, ok := set.Get(name)
	if !ok {
		return nil, false
	}
	return &Progression{set: set, current: def}, true
}

// Current returns the active level.
func (p *Progression) Current() *Definition {
	return p.current
}

// State returns the progression state for the active level.
func (p *Progression) State() State {
	return p.state
}

// Win marks the current level won.
func (p *Progression) Win() {
	if p.state == Playing {
		p.state = Won
	}
}

// FindBonus marks the bonus exit taken. A bonus outranks a plain win.
func (p *Progression) FindBonus() {
	if p.current.Bonus != "" {
		p.state = BonusFound
	}
}

// Advance moves to the next level implied by the state. It returns the new
// level, or false when the run is over.
func (p *Progression) Advance() (*Definition, bool) {
	var name string
	switch p.state {
	case Won:
		name = p.current.Next
	case BonusFound:
		name = p.current.Bonus
	default:
		return p.current, true
	}
	if name == "" {
		return nil, false
	}
	def, ok := p.set.Get(name)
	if !ok {
		return nil, false
	}
	p.current = def
	p.state = Playing
	return def, true
}
