package scoring

// Percentile thresholds for the card tiers, in ascending order.
const (
	GoldPercentile   = 0.10
	SilverPercentile = 0.37
	BronzePercentile = 0.70
)

// Tier is the visual identity derived from a player's percentile. The tokens
// are consumed by the card frontend; only their ordering is semantically
// meaningful.
type Tier struct {
	Token        string `json:"token"`
	Gradient     string `json:"gradient"`
	PrimaryColor string `json:"firstColor"`
}

var (
	tierGold = Tier{
		Token:        "gold",
		Gradient:     "linear-gradient(65deg,rgba(255, 217, 0, 0.46), #C27E00,rgb(126, 109, 16), #8B6A00)",
		PrimaryColor: "#FFD700",
	}
	tierSilver = Tier{
		Token:        "silver",
		Gradient:     "linear-gradient(65deg,rgba(192, 192, 192, 0.8), #A8A8A8, #E0E0E0,#b0b0b0)",
		PrimaryColor: "#C0C0C0",
	}
	tierBronze = Tier{
		Token:        "bronze",
		Gradient:     "linear-gradient(65deg,#3282cd,rgba(139, 89, 43, 0.77),#999c9c,#304b61)",
		PrimaryColor: "#b0b0b0",
	}
	tierBaseline = Tier{
		Token:        "baseline",
		Gradient:     "linear-gradient(65deg,rgb(219, 219, 219),rgb(0, 0, 0),rgb(37, 35, 35),rgb(139, 139, 139))",
		PrimaryColor: "#FFFFFF",
	}
	tierNeutral = Tier{
		Token:        "neutral",
		Gradient:     "linear-gradient(135deg, #2a2d3a, #1f212b)",
		PrimaryColor: "#2a2d3a",
	}
)

// TierFor maps (rank, totalPlayers) to a card tier. An empty platform
// (totalPlayers == 0) is the degenerate case and maps to the neutral tier.
func TierFor(rank, totalPlayers int) Tier {
	if totalPlayers == 0 {
		return tierNeutral
	}

	percentile := float64(rank) / float64(totalPlayers)
	switch {
	case percentile <= GoldPercentile:
		return tierGold
	case percentile <= SilverPercentile:
		return tierSilver
	case percentile <= BronzePercentile:
		return tierBronze
	default:
		return tierBaseline
	}
}
