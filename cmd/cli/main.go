package main

import (
	"fmt"
	"os"

	"github.com/de-tools/cost-monitor/pkg/runtime/terminal"
	"github.com/de-tools/cost-monitor/pkg/services/billing"
	"github.com/de-tools/cost-monitor/pkg/services/billing/aws"
	"github.com/de-tools/cost-monitor/pkg/services/billing/azure"
	"github.com/de-tools/cost-monitor/pkg/services/billing/databricks"
	"github.com/de-tools/cost-monitor/pkg/services/billing/snowflake"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Registry: billing.NewRegistry(map[string]billing.ProviderFactory{
			"azure":      azure.ProviderFactory,
			"aws":        aws.ProviderFactory,
			"databricks": databricks.ProviderFactory,
			"snowflake":  snowflake.ProviderFactory,
		}),
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
