package config

// EnvPrefix is the envconfig prefix; concrete tags spell the full variable
// names so the prefix only matters for unannotated fields.
const EnvPrefix = "SPENDLEDGER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv = "SPENDLEDGER_APP_ENV"
	EnvPort   = "SPENDLEDGER_APP_PORT"
	EnvDBDSN  = "SPENDLEDGER_DB_DSN"
	EnvDBHost = "SPENDLEDGER_DB_HOST"
	EnvDBUser = "SPENDLEDGER_DB_USER"
	EnvDBName = "SPENDLEDGER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
