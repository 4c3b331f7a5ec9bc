package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/hamed0406/labdash/internal/catalog"
	"github.com/hamed0406/labdash/internal/domain"
)

const sampleDashboard = `
services:
  - id: jellyfin
    name: " Jellyfin "
    desc: Media server
    url: https://jellyfin.lab.local
    icon: Film
    color: text-amber-400
    category: Media
  - id: proxmox
    name: Proxmox
    url: https://pve.lab.local:8006
    icon: Server
    category: Custom
hostedWebsites:
  - id: blog
    name: Blog
    desc: personal writing
    url: https://blog.example.com
    icon: Globe
    category: ignored
`

func TestLoadDashboard_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDashboard), 0o644))

	d, err := LoadDashboard(path)
	require.NoError(t, err)

	require.Len(t, d.Services, 2)
	require.Len(t, d.Websites, 1)
	assert.Equal(t, "Jellyfin", d.Services[0].Name)
	assert.Equal(t, "", d.Websites[0].Category)
	assert.Equal(t, d.Services, d.Targets(domain.GroupServices))
	assert.Equal(t, d.Websites, d.Targets(domain.GroupWebsites))
	assert.Nil(t, d.Targets("other"))

	warnings := d.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Custom")
}

func TestLoadDashboard_MissingFile(t *testing.T) {
	_, err := LoadDashboard(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseDashboard_CollectsAllProblems(t *testing.T) {
	raw := `
services:
  - id: a
    url: https://a.lab
  - id: ""
    url: https://b.lab
  - id: c
    url: ftp://c.lab
    icon: Rocket
hostedWebsites:
  - id: a
    url: https://a.example.com
`
	_, err := ParseDashboard([]byte(raw))
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.True(t, errors.Is(err, ErrMissingID))
	assert.True(t, errors.Is(err, ErrInvalidURL))
	assert.True(t, errors.Is(err, catalog.ErrUnknownIcon))
}

func TestDashboard_ValidateErrorCount(t *testing.T) {
	d := &Dashboard{
		Services: []domain.Target{{ID: "x", URL: "https://x.lab"}, {ID: "x", URL: "nope"}},
	}
	err := d.Validate()
	assert.Len(t, multierr.Errors(err), 2)
}

func TestParseDashboard_Empty(t *testing.T) {
	_, err := ParseDashboard([]byte("services: []\n"))
	assert.True(t, errors.Is(err, ErrNoTargets))

	_, err = ParseDashboard([]byte("services: [\n"))
	assert.Error(t, err)
}

func TestLoadDashboard_ShippedExample(t *testing.T) {
	d, err := LoadDashboard(filepath.Join("..", "..", "dashboard.yaml"))
	require.NoError(t, err)
	assert.Len(t, d.Services, 6)
	assert.Len(t, d.Websites, 2)
	assert.Empty(t, d.Warnings())
}
