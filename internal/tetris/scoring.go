package tetris

import "time"

// Rules holds the tunable numbers of scoring, leveling and drop speed.
// DefaultRules matches the classic values; config files may override them.
type Rules struct {
	// LineScores[n] is the base score for clearing n rows with one lock.
	LineScores [5]int
	// LinesPerLevel is how many cleared rows advance one level.
	LinesPerLevel int
	// Drop interval = max(MinInterval, BaseInterval - (level-1)*IntervalStep).
	BaseInterval time.Duration
	IntervalStep time.Duration
	MinInterval  time.Duration
	// SpawnX, SpawnY is where new pieces appear (mask top-left corner).
	SpawnX int
	SpawnY int
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		LineScores:    [5]int{0, 40, 100, 300, 1200},
		LinesPerLevel: 10,
		BaseInterval:  500 * time.Millisecond,
		IntervalStep:  30 * time.Millisecond,
		MinInterval:   50 * time.Millisecond,
		SpawnX:        (Width - MaskSize) / 2,
		SpawnY:        0,
	}
}

// LevelFor returns the level reached after clearing lines rows in total.
func (r Rules) LevelFor(lines int) int {
	per := r.LinesPerLevel
	if per <= 0 {
		per = 10
	}
	if lines < 0 {
		lines = 0
	}
	return lines/per + 1
}

// ScoreDelta returns the points for clearing cleared rows at level.
func (r Rules) ScoreDelta(cleared, level int) int {
	if cleared < 0 || cleared >= len(r.LineScores) {
		return 0
	}
	return r.LineScores[cleared] * level
}

// DropInterval returns the automatic soft-drop period at level.
func (r Rules) DropInterval(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	d := r.BaseInterval - time.Duration(level-1)*r.IntervalStep
	if d < r.MinInterval {
		return r.MinInterval
	}
	return d
}

// ApplyLines folds one lock's line clear into the statistics.
// The score multiplier is the level before the clear.
func (r Rules) ApplyLines(s Stats, cleared int) Stats {
	s.Score += r.ScoreDelta(cleared, s.Level)
	s.Lines += cleared
	s.Level = r.LevelFor(s.Lines)
	if s.Score > s.HighScore {
		s.HighScore = s.Score
	}
	return s
}
