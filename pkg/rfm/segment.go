package rfm

import (
	"fmt"

	"rfm-segmentation/pkg/models"
)

// Segment is a named marketing cluster.
type Segment string

const (
	Hibernating        Segment = "Hibernating"
	AtRisk             Segment = "At_Risk"
	CantLoose          Segment = "Cant_Loose"
	AboutToSleep       Segment = "About_to_Sleep"
	NeedAttention      Segment = "Need_Attention"
	LoyalCustomers     Segment = "Loyal_Customers"
	Promising          Segment = "Promising"
	NewCustomers       Segment = "New_Customers"
	PotentialLoyalists Segment = "Potential_Loyalists"
	Champions          Segment = "Champions"
)

// segmentGrid[recency-1][frequency-1]
var segmentGrid = [Quintiles][Quintiles]Segment{
	{Hibernating, Hibernating, AtRisk, AtRisk, CantLoose},
	{Hibernating, Hibernating, AtRisk, AtRisk, CantLoose},
	{AboutToSleep, AboutToSleep, NeedAttention, LoyalCustomers, LoyalCustomers},
	{Promising, PotentialLoyalists, PotentialLoyalists, LoyalCustomers, LoyalCustomers},
	{NewCustomers, PotentialLoyalists, PotentialLoyalists, Champions, Champions},
}

var segmentOrder = []Segment{
	Hibernating, AtRisk, CantLoose, AboutToSleep, NeedAttention,
	LoyalCustomers, Promising, NewCustomers, PotentialLoyalists, Champions,
}

// Segments lists the ten labels in rule-table order.
func Segments() []Segment {
	out := make([]Segment, len(segmentOrder))
	copy(out, segmentOrder)
	return out
}

// Grid returns the lookup table indexed by [recency-1][frequency-1].
func Grid() [Quintiles][Quintiles]Segment {
	return segmentGrid
}

// Classify maps a (recency, frequency) score pair to its segment.
func Classify(recency, frequency int) (Segment, error) {
	if recency < 1 || recency > Quintiles || frequency < 1 || frequency > Quintiles {
		return "", fmt.Errorf("classify (%d,%d): %w", recency, frequency, ErrInvalidScore)
	}
	return segmentGrid[recency-1][frequency-1], nil
}

// ClassifyKey classifies a two-digit score key such as "51".
func ClassifyKey(key string) (Segment, error) {
	if len(key) != 2 {
		return "", fmt.Errorf("classify key %q: %w", key, ErrInvalidScore)
	}
	return Classify(int(key[0])-'0', int(key[1])-'0')
}

// Assign classifies every scored customer.
func Assign(scored []models.ScoredCustomer) ([]models.SegmentedCustomer, error) {
	out := make([]models.SegmentedCustomer, len(scored))
	for i, s := range scored {
		seg, err := Classify(s.RecencyScore, s.FrequencyScore)
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", s.CustomerID, err)
		}
		out[i] = models.SegmentedCustomer{
			ScoredCustomer: s,
			ScoreKey:       ScoreKey(s),
			RFMScore:       RFMScore(s),
			Segment:        string(seg),
		}
	}
	return out, nil
}
