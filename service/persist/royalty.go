package persist

// Royalty is one recipient's share of secondary sale payments
type Royalty struct {
	Recipient Address `json:"recipient"`
	Rate      uint16  `json:"rate"`
}

// RoyaltyInfo is the secondary sale payment split attached to a token, or
// the contract-level default. Rate arithmetic is the marketplace's concern;
// the registry only stores and gates it.
type RoyaltyInfo struct {
	DecimalPlacesInRates uint8     `json:"decimal_places_in_rates"`
	Royalties            []Royalty `json:"royalties"`
}

// DisplayRoyalty is a royalty as shown to viewers; the recipient is elided
// unless the viewer is entitled to see it
type DisplayRoyalty struct {
	Recipient *Address `json:"recipient,omitempty"`
	Rate      uint16   `json:"rate"`
}

// DisplayRoyaltyInfo is royalty info prepared for a specific viewer
type DisplayRoyaltyInfo struct {
	DecimalPlacesInRates uint8            `json:"decimal_places_in_rates"`
	Royalties            []DisplayRoyalty `json:"royalties"`
}

// Display converts royalty info into its viewer-facing form, revealing
// recipients only when hideRecipients is false
func (r RoyaltyInfo) Display(hideRecipients bool) DisplayRoyaltyInfo {
	display := DisplayRoyaltyInfo{
		DecimalPlacesInRates: r.DecimalPlacesInRates,
		Royalties:            make([]DisplayRoyalty, len(r.Royalties)),
	}
	for i, roy := range r.Royalties {
		display.Royalties[i] = DisplayRoyalty{Rate: roy.Rate}
		if !hideRecipients {
			recipient := roy.Recipient
			display.Royalties[i].Recipient = &recipient
		}
	}
	return display
}
