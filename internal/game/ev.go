package game

// ComputeEV returns the remaining-inventory-weighted expected value of one
// ticket: sum(value*remaining) / sum(remaining) over the prize tiers.
//
// A tier flagged as a free-ticket prize is valued at the ticket price when
// the price is known (a free ticket is worth a new play at face value).
// With no tiers the EV is undefined and ok is false; with tiers whose
// remaining counts are all zero the EV is exactly 0.
func ComputeEV(price *float64, tiers []PrizeTier) (float64, bool) {
	if len(tiers) == 0 {
		return 0, false
	}

	totalRemaining := 0
	totalValue := 0.0
	for _, t := range tiers {
		value := t.Value
		if t.IsTicket && price != nil {
			value = *price
		}
		totalRemaining += t.Remaining
		totalValue += value * float64(t.Remaining)
	}

	if totalRemaining == 0 {
		return 0, true
	}
	return totalValue / float64(totalRemaining), true
}
