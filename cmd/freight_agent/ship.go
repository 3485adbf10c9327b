package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/freight-agent/internal/observability"
	"github.com/jonathan/freight-agent/internal/parsing"
	"github.com/jonathan/freight-agent/internal/selection"
	"github.com/jonathan/freight-agent/internal/types"
	"github.com/jonathan/freight-agent/internal/workflow"
)

var shipCmd = &cobra.Command{
	Use:   "ship",
	Short: "Create a shipment from a chat message",
	Long: `Parses a free-text shipment request, resolves the city and material names,
creates the trip and parcel, and walks through consigner/consignee selection
interactively. Ambiguous names prompt for confirmation before anything is
created.`,
	RunE: runShip,
}

var (
	shipMessage  string
	shipFrom     string
	shipTo       string
	shipMaterial string
	shipQuantity float64
	shipUnit     string
	shipCost     float64
	shipPartLoad bool
	shipVerbose  bool
)

func init() {
	shipCmd.Flags().StringVarP(&shipMessage, "message", "m", "", "Free-text shipment request (mutually exclusive with the structured flags)")
	shipCmd.Flags().StringVar(&shipFrom, "from", "", "Origin city name")
	shipCmd.Flags().StringVar(&shipTo, "to", "", "Destination city name")
	shipCmd.Flags().StringVar(&shipMaterial, "material", "", "Material name")
	shipCmd.Flags().Float64Var(&shipQuantity, "quantity", 0, "Quantity")
	shipCmd.Flags().StringVar(&shipUnit, "unit", "", "Quantity unit (kg, tonnes)")
	shipCmd.Flags().Float64Var(&shipCost, "cost", 0, "Agreed cost")
	shipCmd.Flags().BoolVar(&shipPartLoad, "part-load", false, "Parcel shares the vehicle with other loads")
	shipCmd.Flags().BoolVarP(&shipVerbose, "verbose", "v", false, "Print detailed progress")
	rootCmd.AddCommand(shipCmd)
}

func runShip(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	a.warm(ctx)

	shipment, err := shipmentFromInput(ctx, a)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if shipVerbose {
		printer.PrintShipment(shipment)
	}

	vehicles := parsing.DeriveVehicleRequirements(shipment)
	req := workflow.StartRequest{Shipment: shipment, Vehicles: &vehicles}

	in := bufio.NewReader(os.Stdin)
	result, err := runWithConfirmations(ctx, a, in, req)
	if err != nil {
		return err
	}

	if shipVerbose {
		printer.PrintWorkflowResult(result)
	}
	if result.Failed {
		return fmt.Errorf("workflow stopped at %s", result.FailedStep())
	}
	fmt.Printf("Created trip %s with parcel %s\n", result.TripID, result.ParcelID)

	return runSelection(ctx, a, in, printer, result)
}

func shipmentFromInput(ctx context.Context, a *app) (*types.ShipmentRequest, error) {
	if shipMessage != "" {
		if a.parser != nil {
			return a.parser.ParseShipmentRequest(ctx, shipMessage)
		}
		return parsing.ParseShipmentRequestBasic(shipMessage)
	}

	if shipFrom == "" || shipTo == "" {
		return nil, fmt.Errorf("either --message or both --from and --to are required")
	}
	shipment := &types.ShipmentRequest{
		FromCityName: shipFrom,
		ToCityName:   shipTo,
		MaterialName: shipMaterial,
		Quantity:     shipQuantity,
		QuantityUnit: types.NormalizeUnit(shipUnit),
		Cost:         shipCost,
		PartLoad:     shipPartLoad,
	}
	if err := shipment.Validate(); err != nil {
		return nil, err
	}
	return shipment, nil
}

// runWithConfirmations runs the workflow, prompting whenever a name needs
// confirmation and retrying with the confirmed identifier.
func runWithConfirmations(ctx context.Context, a *app, in *bufio.Reader, req workflow.StartRequest) (*types.WorkflowResult, error) {
	for {
		result, err := a.orchestrator.Run(ctx, req)
		if err == nil {
			return result, nil
		}

		var ambiguous *workflow.AmbiguousReferenceError
		if !errors.As(err, &ambiguous) {
			return nil, err
		}

		ref, confirmErr := promptCandidate(in, ambiguous)
		if confirmErr != nil {
			return nil, confirmErr
		}

		switch {
		case ambiguous.Collection == "materials":
			req.MaterialID = ref.ID
		case ambiguous.Query == req.Shipment.FromCityName && req.FromCityID == "":
			req.FromCityID = ref.ID
		default:
			req.ToCityID = ref.ID
		}
	}
}

func promptCandidate(in *bufio.Reader, ambiguous *workflow.AmbiguousReferenceError) (*types.ScoredRef, error) {
	fmt.Printf("%q did not match a %s exactly. Did you mean:\n", ambiguous.Query, singularCollection(ambiguous.Collection))
	for i, c := range ambiguous.Candidates {
		fmt.Printf("  %d. %s\n", i+1, c.Display())
	}
	fmt.Print("Enter a number, or 0 to abort: ")

	line, err := in.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read confirmation: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 0 || n > len(ambiguous.Candidates) {
		return nil, fmt.Errorf("invalid choice %q", strings.TrimSpace(line))
	}
	if n == 0 {
		return nil, fmt.Errorf("aborted")
	}
	return &ambiguous.Candidates[n-1], nil
}

func singularCollection(collection string) string {
	if collection == "cities" {
		return "city"
	}
	return strings.TrimSuffix(collection, "s")
}

// runSelection walks the consigner and consignee picks. Entering s at
// either prompt skips the rest and leaves the parcel without partners.
func runSelection(ctx context.Context, a *app, in *bufio.Reader, printer *observability.Printer, result *types.WorkflowResult) error {
	if len(result.Candidates) == 0 {
		fmt.Println("No partner candidates for your company; leaving the parcel without partners.")
		if _, err := a.orchestrator.Skip(ctx, result.SessionID); err != nil {
			return err
		}
		return nil
	}

	printer.PrintCandidates(result.Candidates)

	for _, phase := range []selection.Phase{selection.PhaseConsigner, selection.PhaseConsignee} {
		candidate, skip, err := promptPartner(in, result.Candidates, string(phase))
		if err != nil {
			return err
		}
		if skip {
			outcome, err := a.orchestrator.Skip(ctx, result.SessionID)
			if err != nil {
				return err
			}
			if outcome.Skipped {
				fmt.Println("Selection skipped; parcel left without partners.")
			}
			return nil
		}

		outcome, err := a.orchestrator.Select(ctx, result.SessionID, phase, candidate.ID)
		if err != nil {
			return err
		}
		if outcome.Done {
			if outcome.UpdateError != "" {
				return fmt.Errorf("parcel update failed: %s", outcome.UpdateError)
			}
			fmt.Printf("Parcel %s updated with consigner %s and consignee %s\n",
				result.ParcelID, outcome.Pair.Consigner.Name, outcome.Pair.Consignee.Name)
		}
	}
	return nil
}

func promptPartner(in *bufio.Reader, candidates []types.PartnerCandidate, role string) (*types.PartnerCandidate, bool, error) {
	fmt.Printf("Pick the %s [1-%d], or s to skip: ", role, len(candidates))

	line, err := in.ReadString('\n')
	if err != nil {
		return nil, false, fmt.Errorf("read selection: %w", err)
	}
	choice := strings.TrimSpace(line)
	if strings.EqualFold(choice, "s") {
		return nil, true, nil
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(candidates) {
		return nil, false, fmt.Errorf("invalid choice %q", choice)
	}
	return &candidates[n-1], false, nil
}
