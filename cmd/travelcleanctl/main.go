// Command travelcleanctl runs maintenance tasks for the Travel Clean & Legal
// site: database migrations, category seeding, the legacy HTML import and
// sitemap generation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
