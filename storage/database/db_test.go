package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatimaschool/website/core"
)

func TestDataSourceName(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Database.Host = "db"
	conf.Database.Port = 5433
	conf.Database.Name = "school"
	conf.Database.User = "app"
	conf.Database.Password = "p@ss"
	conf.Database.AdminUser = "postgres"
	conf.Database.AdminPassword = "root"
	conf.Database.DisableTLS = false

	u, err := url.Parse(dataSourceName(conf.Database.Name, false, conf))
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db:5433", u.Host)
	assert.Equal(t, "/school", u.Path)
	assert.Equal(t, "app", u.User.Username())
	pwd, _ := u.User.Password()
	assert.Equal(t, "p@ss", pwd)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
	assert.Equal(t, "utc", u.Query().Get("timezone"))

	conf.Database.DisableTLS = true
	u, err = url.Parse(dataSourceName("postgres", true, conf))
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.User.Username())
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}
