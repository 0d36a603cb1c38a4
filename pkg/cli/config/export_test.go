package config

// NewAuthForTest creates an Auth config for testing purposes
func NewAuthForTest(jwtSecret, jwksURL, noAuthUID string) *Auth {
	return &Auth{
		jwtSecret: jwtSecret,
		jwksURL:   jwksURL,
		noAuthUID: noAuthUID,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format string) *Logger {
	return &Logger{level: level, format: format}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}
