package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikolayk812/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		env       map[string]string
		check     func(t *testing.T, conf config.Config)
		wantError error
	}{
		{
			name: "full file: ok",
			yaml: `
apiRoot: https://api.shop.example.com/v1
listen: ":9090"
tokenSecret: s3cret
currency: EUR
guard:
  routes:
    admin: ["/admin"]
  targets:
    home: "/"
    adminHome: "/admin/dashboard"
    login: "/login"
    adminLogin: "/admin/login"
`,
			check: func(t *testing.T, conf config.Config) {
				assert.Equal(t, "https://api.shop.example.com/v1", conf.APIRoot)
				assert.Equal(t, ":9090", conf.ListenAddr)
				assert.Equal(t, "EUR", conf.Currency)
				assert.Equal(t, []string{"/admin"}, conf.Guard.Routes.Admin)
			},
		},
		{
			name: "env overrides file",
			yaml: `
apiRoot: https://stale.example.com
tokenSecret: s3cret
`,
			env: map[string]string{
				config.EnvAPIRoot: "https://fresh.example.com",
			},
			check: func(t *testing.T, conf config.Config) {
				assert.Equal(t, "https://fresh.example.com", conf.APIRoot)
			},
		},
		{
			name:      "relative apiRoot: invalid",
			yaml:      "apiRoot: /v1\ntokenSecret: s3cret\n",
			wantError: config.ErrConfigInvalid,
		},
		{
			name:      "missing tokenSecret: invalid",
			yaml:      "apiRoot: https://api.example.com\n",
			wantError: config.ErrConfigInvalid,
		},
		{
			name:      "bad currency: invalid",
			yaml:      "apiRoot: https://api.example.com\ntokenSecret: s\ncurrency: ZZZ\n",
			wantError: config.ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			conf, err := config.Load(writeConfig(t, tt.yaml))
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			tt.check(t, conf)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDefault_HasGuardTables(t *testing.T) {
	conf := config.Default()

	assert.NotEmpty(t, conf.Guard.Routes.Admin)
	assert.NotEmpty(t, conf.Guard.Routes.Customer)
	assert.NotEmpty(t, conf.Guard.Targets.AdminLogin)
}
