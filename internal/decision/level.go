package decision

import "fmt"

// Level is the configured autonomy level. Higher levels accept lower
// quality scores without human review.
type Level int

const (
	LevelManual Level = iota
	LevelSemiAuto
	LevelFullAuto
	LevelExpertAuto
)

var levelNames = map[Level]string{
	LevelManual:     "manual",
	LevelSemiAuto:   "semi_auto",
	LevelFullAuto:   "full_auto",
	LevelExpertAuto: "expert_auto",
}

// Threshold is the minimum overall quality score the level accepts.
func (l Level) Threshold() float64 {
	switch l {
	case LevelSemiAuto:
		return 0.85
	case LevelFullAuto:
		return 0.75
	case LevelExpertAuto:
		return 0.70
	default:
		return 1.0
	}
}

// AutoApprove reports whether the level is allowed to approve stages
// without a human in the loop. Manual runs always stop at gates no matter
// how well the artifact scores.
func (l Level) AutoApprove() bool {
	return l != LevelManual
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func (l Level) MarshalText() ([]byte, error) {
	name, ok := levelNames[l]
	if !ok {
		return nil, fmt.Errorf("unknown autonomy level %d", int(l))
	}
	return []byte(name), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel resolves a configuration string to a Level.
func ParseLevel(name string) (Level, error) {
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	return LevelManual, fmt.Errorf("unknown autonomy level %q", name)
}
