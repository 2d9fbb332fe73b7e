package vercel

import (
	"fmt"
	"strings"
)

// Validate checks the request before it is sent. Vercel rejects the same
// cases, but with a less helpful message.
func (r CreateLogDrainRequest) Validate() error {
	if err := validateStruct(&r); err != nil {
		return err
	}
	var schemes []string
	switch r.Type {
	case LogDrainJSON, LogDrainNDJSON:
		schemes = []string{"https://", "http://"}
	case LogDrainSyslog:
		schemes = []string{"syslog+tls:", "syslog:"}
	}
	for _, s := range schemes {
		if strings.HasPrefix(r.URL, s) {
			return nil
		}
	}
	return fmt.Errorf("url for a %s drain must start with %s", r.Type, strings.Join(schemes, " or "))
}
