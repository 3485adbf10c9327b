package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/freight-agent/internal/observability"
	"github.com/jonathan/freight-agent/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a city or material name without creating anything",
}

var resolveCityCmd = &cobra.Command{
	Use:   "city <name>",
	Short: "Resolve a city name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd, "city", args[0])
	},
}

var resolveMaterialCmd = &cobra.Command{
	Use:   "material <name>",
	Short: "Resolve a material name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd, "material", args[0])
	},
}

func init() {
	resolveCmd.AddCommand(resolveCityCmd)
	resolveCmd.AddCommand(resolveMaterialCmd)
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, kind, name string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}

	var res *resolve.Resolution
	if kind == "city" {
		res, err = a.orchestrator.ResolveCity(ctx, name)
	} else {
		res, err = a.orchestrator.ResolveMaterial(ctx, name)
	}
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintResolution(kind, name, res)
	if res.Kind == resolve.NotFound {
		return fmt.Errorf("no %s matches %q", kind, name)
	}
	return nil
}
