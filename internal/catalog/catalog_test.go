package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/labdash/internal/domain"
)

var services = []domain.Target{
	{ID: "jellyfin", Name: "Jellyfin", Category: "Media"},
	{ID: "proxmox", Name: "Proxmox", Category: "System"},
	{ID: "navidrome", Name: "Navidrome", Category: "Media"},
	{ID: "paperless", Name: "Paperless", Category: "Apps & Productivity"},
	{ID: "odd", Name: "Odd One", Category: "Games"},
}

func TestGroupByCategory_FirstSeenOrder(t *testing.T) {
	sections := GroupByCategory(services)
	require.Len(t, sections, 4)

	assert.Equal(t, "Media", sections[0].Category)
	assert.Equal(t, "System", sections[1].Category)
	assert.Equal(t, "Apps & Productivity", sections[2].Category)
	assert.Equal(t, "Games", sections[3].Category)

	require.Len(t, sections[0].Targets, 2)
	assert.Equal(t, domain.TargetID("jellyfin"), sections[0].Targets[0].ID)
	assert.Equal(t, domain.TargetID("navidrome"), sections[0].Targets[1].ID)

	assert.Equal(t, Style{Icon: "Film", Color: "text-amber-400"}, sections[0].Style)
	assert.Equal(t, FallbackStyle, sections[3].Style)
}

func TestFilter_Services(t *testing.T) {
	got := Filter(services, "MEDIA", domain.GroupServices)
	assert.Len(t, got, 2)

	got = Filter(services, "prox", domain.GroupServices)
	require.Len(t, got, 1)
	assert.Equal(t, domain.TargetID("proxmox"), got[0].ID)

	assert.Len(t, Filter(services, "  ", domain.GroupServices), len(services))
	assert.Empty(t, Filter(services, "nothing-matches", domain.GroupServices))
}

func TestFilter_WebsitesUseDescription(t *testing.T) {
	sites := []domain.Target{
		{ID: "blog", Name: "Blog", Desc: "personal writing", Category: "Media"},
		{ID: "cv", Name: "Resume", Desc: "curriculum"},
	}
	got := Filter(sites, "writing", domain.GroupWebsites)
	require.Len(t, got, 1)
	assert.Equal(t, domain.TargetID("blog"), got[0].ID)

	// category is not searched for websites
	assert.Empty(t, Filter(sites, "media", domain.GroupWebsites))
}

func TestValidateIcon(t *testing.T) {
	assert.NoError(t, ValidateIcon(""))
	assert.NoError(t, ValidateIcon("Github"))
	err := ValidateIcon("Rocket")
	assert.True(t, errors.Is(err, ErrUnknownIcon))
}

func TestKnownCategory(t *testing.T) {
	assert.True(t, KnownCategory("System"))
	assert.False(t, KnownCategory("system"))
	assert.Equal(t, FallbackStyle, StyleFor("whatever"))
}
