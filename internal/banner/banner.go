// Package banner renders the CLI startup banner.
package banner

import "fmt"

// Banner returns the startup banner for the given version string.
func Banner(version string) string {
	return fmt.Sprintf("coref %s / latent structured coreference resolver\n", version)
}
