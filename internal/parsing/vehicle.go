package parsing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/freight-agent/internal/types"
)

// DefaultVehicleCapacityTonnes is the assumed per-truck capacity when the
// user does not state one.
const DefaultVehicleCapacityTonnes = 9.0

var (
	wheelsPattern = regexp.MustCompile(`\b(4|four|6|six|8|eight|10|ten)[- ]wheel`)
	pricePattern  = regexp.MustCompile(`(?:price|cost|budget)\D*?(\d+(?:,\d{3})*(?:\.\d{1,2})?)`)
)

var wheelWords = map[string]int{"four": 4, "six": 6, "eight": 8, "ten": 10}

// DeriveVehicleRequirements fills in vehicle needs from the shipment
// quantity, then overlays whatever vehicle specifics the raw message states
// (wheels, body type, axle type, expected price). Part loads share vehicle
// space, so they need no dedicated vehicle.
func DeriveVehicleRequirements(req *types.ShipmentRequest) types.VehicleRequirements {
	if req.PartLoad {
		return types.VehicleRequirements{Count: 0}
	}

	reqs := types.VehicleRequirements{
		Count:          1,
		VehicleType:    "truck",
		CapacityTonnes: DefaultVehicleCapacityTonnes,
	}
	if tonnes := req.QuantityKilograms() / 1000; tonnes > 0 {
		reqs.Count = int(math.Ceil(tonnes / DefaultVehicleCapacityTonnes))
		if reqs.Count < 1 {
			reqs.Count = 1
		}
	}

	applyVehicleHints(&reqs, req.RawText)
	return reqs
}

// applyVehicleHints parses vehicle specifics out of the utterance the way a
// dispatcher would read them: stated wheels, body type, axle type and an
// expected price, each optional.
func applyVehicleHints(reqs *types.VehicleRequirements, message string) {
	lower := strings.ToLower(message)
	if lower == "" {
		return
	}

	if m := wheelsPattern.FindStringSubmatch(lower); m != nil {
		if n, ok := wheelWords[m[1]]; ok {
			reqs.NumberOfWheels = n
		} else if n, err := strconv.Atoi(m[1]); err == nil {
			reqs.NumberOfWheels = n
		}
	}

	for _, body := range []string{"trailer", "container", "tanker", "truck"} {
		if strings.Contains(lower, body) {
			reqs.BodyType = body
			reqs.VehicleType = body
			break
		}
	}

	switch {
	case strings.Contains(lower, "single axle"):
		reqs.AxleType = "single"
	case strings.Contains(lower, "double axle"), strings.Contains(lower, "dual axle"):
		reqs.AxleType = "double"
	case strings.Contains(lower, "triple axle"):
		reqs.AxleType = "triple"
	}

	if m := pricePattern.FindStringSubmatch(lower); m != nil {
		if price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			reqs.ExpectedPrice = price
		}
	}
}
