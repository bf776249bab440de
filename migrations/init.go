package migrations

import (
	adminauth "github.com/goliatone/go-adminauth"
)

func init() {
	Register(adminauth.GetMigrationsFS())
}
