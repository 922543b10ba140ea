package version

import (
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "nixopus-installer/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
	if !strings.Contains(Info(), Version) {
		t.Errorf("Info() = %q does not contain the version", Info())
	}
}
