package config

// NewTestLogger builds a Logger config without going through flag parsing.
func NewTestLogger(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewTestRepository builds a Repository config without flag parsing.
func NewTestRepository(backend string) *Repository {
	return &Repository{backend: backend}
}
