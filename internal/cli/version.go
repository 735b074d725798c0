package cli

import (
	"fmt"

	"dcat-launcher/internal/version"
)

// Represents the 'dcat-launcher version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run() error {
	fmt.Println(version.String())
	return nil
}
