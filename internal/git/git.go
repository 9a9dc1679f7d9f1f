package git

import (
	"bytes"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// CommitHash returns the short hash of HEAD in the current directory, used to
// label deployments in the log.
func CommitHash() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--short=7", "HEAD")

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}

// AuthenticatedURL injects an access token into an HTTPS repository URL so
// the remote host can clone private repositories. Non-HTTPS URLs are returned
// unchanged.
//
// The pipeline deploys the local tree and does not clone on the remote host,
// so nothing calls this today; it is kept as the one real use of the
// collected access token, for callers that fetch instead of transfer.
func AuthenticatedURL(repoURL, token string) (string, error) {
	if token == "" || !strings.HasPrefix(repoURL, "https://") {
		return repoURL, nil
	}

	u, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("parse repository URL: %w", err)
	}
	u.User = url.UserPassword("oauth2", token)
	return u.String(), nil
}
