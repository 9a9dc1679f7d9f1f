package nginx

import (
	"bytes"
	"fmt"
	"text/template"
)

// SiteName is the fixed name used under sites-available / sites-enabled.
const SiteName = "dockship"

const siteTemplate = `server {
    listen 80;
    server_name _;

    location / {
        proxy_pass http://127.0.0.1:{{ .AppPort }};
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
    }
}
`

// SiteData parameterizes the rendered server block. The upstream port is the
// only variable; everything else is fixed.
type SiteData struct {
	AppPort int
}

var siteTmpl = template.Must(template.New("site").Parse(siteTemplate))

// RenderSite produces the proxy server block for the given application port.
func RenderSite(data SiteData) ([]byte, error) {
	if data.AppPort < 1 || data.AppPort > 65535 {
		return nil, fmt.Errorf("app port %d is out of range", data.AppPort)
	}

	var buf bytes.Buffer
	if err := siteTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute site template: %w", err)
	}
	return buf.Bytes(), nil
}
