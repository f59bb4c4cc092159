package config

// LanguageSpec describes one supported target language for generated code.
type LanguageSpec struct {
	Name          string   `json:"name"`
	Extensions    []string `json:"extensions"`
	CommentStyle  string   `json:"comment_style"`
	TestFramework string   `json:"test_framework"`
	EntryPoint    string   `json:"entry_point"`
}

var languages = map[string]LanguageSpec{
	"python": {
		Name:          "Python",
		Extensions:    []string{".py"},
		CommentStyle:  "#",
		TestFramework: "pytest",
		EntryPoint:    "main.py",
	},
	"javascript": {
		Name:          "JavaScript",
		Extensions:    []string{".js", ".mjs"},
		CommentStyle:  "//",
		TestFramework: "jest",
		EntryPoint:    "index.js",
	},
	"typescript": {
		Name:          "TypeScript",
		Extensions:    []string{".ts", ".tsx"},
		CommentStyle:  "//",
		TestFramework: "jest",
		EntryPoint:    "index.ts",
	},
	"java": {
		Name:          "Java",
		Extensions:    []string{".java"},
		CommentStyle:  "//",
		TestFramework: "junit",
		EntryPoint:    "Main.java",
	},
	"go": {
		Name:          "Go",
		Extensions:    []string{".go"},
		CommentStyle:  "//",
		TestFramework: "testing",
		EntryPoint:    "main.go",
	},
	"csharp": {
		Name:          "C#",
		Extensions:    []string{".cs"},
		CommentStyle:  "//",
		TestFramework: "nunit",
		EntryPoint:    "Program.cs",
	},
}

// Language returns the spec for a language key, falling back to Python
// for unrecognized keys.
func Language(key string) LanguageSpec {
	if spec, ok := languages[key]; ok {
		return spec
	}
	return languages["python"]
}

// LanguageSupported reports whether key names a known language.
func LanguageSupported(key string) bool {
	_, ok := languages[key]
	return ok
}

// LanguageKeys returns the supported language keys.
func LanguageKeys() []string {
	keys := make([]string, 0, len(languages))
	for k := range languages {
		keys = append(keys, k)
	}
	return keys
}
