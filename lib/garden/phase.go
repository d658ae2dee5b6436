package garden

// Phase is the lifecycle stage of an asset.
type Phase int

const (
	// PhasePresale: the deadline has not passed.
	PhasePresale Phase = iota
	// PhaseEnded: the deadline passed and the pool has not been funded.
	PhaseEnded
	// PhaseLaunched: liquidity was provided. Terminal.
	PhaseLaunched
)

func (p Phase) String() string {
	switch p {
	case PhasePresale:
		return "presale"
	case PhaseEnded:
		return "ended"
	case PhaseLaunched:
		return "launched"
	}
	return "unknown"
}

func PhaseAt(presaleEnd, now uint64, launched bool) Phase {
	switch {
	case launched:
		return PhaseLaunched
	case now >= presaleEnd:
		return PhaseEnded
	default:
		return PhasePresale
	}
}

// ClaimState is the per participant claim flag. Once claimed, always claimed.
type ClaimState int

const (
	Unclaimed ClaimState = iota
	Claimed
)

func ClaimStateOf(claimed bool) ClaimState {
	if claimed {
		return Claimed
	}
	return Unclaimed
}
