package config

type Config interface {
	EnvConfig
	IdpConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
}

type IdpConfig interface {
	GetIdpIssuer() string
	GetIdpClientID() string
	GetIdpClientSecret() string
	GetIdpSignupURL() string
	GetIdpRevokeURL() string
	GetProfileEndpoint() string
}

type mainConfig struct {
	EnvVars
	Idp
}

func New() Config {
	return mainConfig{}
}
