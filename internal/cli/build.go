package cli

import (
	"context"

	"dcat-launcher/internal/target"
)

// Represents the 'dcat-launcher build' command.
type BuildCmd struct {
	Target string `arg:"" help:"Target to build."`
}

// Executes the build command without running the image afterwards.
func (c *BuildCmd) Run(ctx context.Context) error {
	t, err := target.Lookup(c.Target)
	if err != nil {
		return err
	}

	a, err := setup(!RootCmd.DryRun)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.launcher.Build(ctx, t)
}
