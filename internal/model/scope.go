package model

// Scope carries the identity of the user driving a request through the
// layers. DisplayName follows the Bot API convention ("@username" when
// available, full name otherwise) and is stored on entries for audit.
type Scope struct {
	UserID      int64
	DisplayName string
}

// Environment is the deployment environment name.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)
