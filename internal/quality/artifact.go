package quality

// Artifact is the payload produced at one stage, immutable once produced.
// Text always carries the raw generated output; the typed fields are filled
// for the stages that parse structure out of it.
type Artifact struct {
	Text     string     `json:"text"`
	Stories  []string   `json:"stories,omitempty"`
	Design   *DesignDoc `json:"design,omitempty"`
	Language string     `json:"language,omitempty"`
}

// DesignDoc is a design document split into labeled sections.
type DesignDoc struct {
	Functional  []string `json:"functional"`
	Technical   []string `json:"technical"`
	Assumptions []string `json:"assumptions,omitempty"`
}

// Context carries the upstream artifacts a scorer may need for
// cross-checking, such as the original requirements when assessing stories.
type Context struct {
	Requirements string   `json:"requirements,omitempty"`
	Stories      []string `json:"stories,omitempty"`
	Design       string   `json:"design,omitempty"`
	Code         string   `json:"code,omitempty"`
	TestCases    string   `json:"test_cases,omitempty"`
	Feedback     string   `json:"feedback,omitempty"`
}
