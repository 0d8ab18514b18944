package rfm

import "rfm-segmentation/pkg/models"

// Summarize groups customers by segment. Segments without customers are
// omitted; the rest follow Segments() order.
func Summarize(customers []models.SegmentedCustomer) []models.SegmentSummary {
	bySegment := make(map[string]*models.SegmentSummary)
	for _, c := range customers {
		s := bySegment[c.Segment]
		if s == nil {
			s = &models.SegmentSummary{Segment: c.Segment}
			bySegment[c.Segment] = s
		}
		s.Customers++
		s.MeanRecency += float64(c.RecencyDays)
		s.MeanFrequency += float64(c.Frequency)
		s.TotalMonetary += c.Monetary
	}

	out := make([]models.SegmentSummary, 0, len(bySegment))
	for _, seg := range segmentOrder {
		s := bySegment[string(seg)]
		if s == nil {
			continue
		}
		n := float64(s.Customers)
		s.MeanRecency /= n
		s.MeanFrequency /= n
		s.MeanMonetary = s.TotalMonetary / n
		s.Share = n / float64(len(customers))
		out = append(out, *s)
	}
	return out
}

// Find returns the row of one customer.
func Find(customers []models.SegmentedCustomer, customerID string) (models.SegmentedCustomer, bool) {
	for _, c := range customers {
		if c.CustomerID == customerID {
			return c, true
		}
	}
	return models.SegmentedCustomer{}, false
}
