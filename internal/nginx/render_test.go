package nginx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSiteBindsUpstreamPort(t *testing.T) {
	conf, err := RenderSite(SiteData{AppPort: 8080})
	require.NoError(t, err)

	s := string(conf)
	assert.Contains(t, s, "proxy_pass http://127.0.0.1:8080;")
	assert.Contains(t, s, "listen 80;")
	assert.Contains(t, s, "proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;")
	assert.Contains(t, s, "proxy_set_header X-Forwarded-Proto $scheme;")

	// No unresolved template tokens may survive rendering.
	assert.NotContains(t, s, "{{")
	assert.NotContains(t, s, "}}")
}

func TestRenderSiteRejectsInvalidPort(t *testing.T) {
	for _, port := range []int{0, -5, 65536} {
		_, err := RenderSite(SiteData{AppPort: port})
		assert.Error(t, err, "port %d", port)
	}
}
