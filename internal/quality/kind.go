package quality

import "fmt"

// Kind selects the stage-specific scorer. The zero value is not a valid
// kind.
type Kind int

const (
	KindStories Kind = iota + 1
	KindDesign
	KindCode
	KindSecurity
	KindTests
	KindQA
)

var kindNames = map[Kind]string{
	KindStories:  "stories",
	KindDesign:   "design",
	KindCode:     "code",
	KindSecurity: "security",
	KindTests:    "tests",
	KindQA:       "qa",
}

var kindValues = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, n := range kindNames {
		m[n] = k
	}
	return m
}()

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	n, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown scorer kind %d", int(k))
	}
	return []byte(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, ok := kindValues[string(text)]
	if !ok {
		return fmt.Errorf("unknown scorer kind %q", string(text))
	}
	*k = v
	return nil
}

// ParseKind resolves a scorer kind name.
func ParseKind(name string) (Kind, error) {
	v, ok := kindValues[name]
	if !ok {
		return 0, fmt.Errorf("unknown scorer kind %q", name)
	}
	return v, nil
}
