package mirror

import (
	"fmt"

	"github.com/shitcoingarden/garden.go/lib/garden"
)

const DefaultIconURL = "/static/shitcoin.png"

// DegenView is a participant's stake in one presale.
type DegenView struct {
	PresaleSubmission garden.Amount `json:"presale_submission"`
	ShitcoinsClaimed  bool          `json:"shitcoins_claimed"`
	PercentOfPresale  string        `json:"percent_of_presale"`
	PercentOfSupply   string        `json:"percent_of_supply"`
	// Claimable is the estimate at the current raise.
	Claimable garden.Amount `json:"claimable"`
}

type PresaleView struct {
	Denom            string        `json:"denom"`
	Creator          string        `json:"creator"`
	Ticker           string        `json:"ticker"`
	Name             string        `json:"name"`
	URL              string        `json:"url"`
	IconURL          string        `json:"icon_url"`
	PresaleEnd       uint64        `json:"presale_end"`
	PresaleRaise     garden.Amount `json:"presale_raise"`
	Supply           garden.Amount `json:"supply"`
	Phase            string        `json:"phase"`
	Ended            bool          `json:"ended"`
	Launched         bool          `json:"launched"`
	SecondsRemaining uint64        `json:"seconds_remaining"`
	LastBlockTime    uint64        `json:"last_block_time"`
	Degen            *DegenView    `json:"degen,omitempty"`
}

// NewPresaleView derives the display fields of an asset at time now.
// participant is nil for anonymous views.
func NewPresaleView(denom string, a AssetMeta, now uint64, participant *ParticipantMeta) PresaleView {
	v := PresaleView{
		Denom:         denom,
		Creator:       a.Creator,
		Ticker:        a.Ticker,
		Name:          a.Name,
		URL:           a.URL,
		IconURL:       a.URL,
		PresaleEnd:    a.PresaleEnd,
		PresaleRaise:  a.PresaleRaise,
		Supply:        a.Supply,
		Phase:         garden.PhaseAt(a.PresaleEnd, now, a.Launched).String(),
		Ended:         now >= a.PresaleEnd,
		Launched:      a.Launched,
		LastBlockTime: now,
	}
	if v.IconURL == "" {
		v.IconURL = DefaultIconURL
	}
	if !v.Ended {
		v.SecondsRemaining = a.PresaleEnd - now
	}
	if participant != nil {
		v.Degen = newDegenView(a, *participant)
	}
	return v
}

func newDegenView(a AssetMeta, p ParticipantMeta) *DegenView {
	d := &DegenView{
		PresaleSubmission: p.Submission,
		ShitcoinsClaimed:  p.Claimed,
		PercentOfPresale:  formatBasisPoints(0),
		PercentOfSupply:   formatBasisPoints(0),
	}
	if a.PresaleRaise.IsZero() || p.Submission.IsZero() {
		return d
	}
	// submission never exceeds raise, so none of these overflow
	bps, err := p.Submission.MulDiv(garden.NewAmount(garden.FeeRateDenominator), a.PresaleRaise)
	if err == nil {
		d.PercentOfPresale = formatBasisPoints(bps.Uint128().Lo)
		d.PercentOfSupply = formatBasisPoints(bps.Half().Uint128().Lo)
	}
	if claimable, err := a.Supply.Half().MulDiv(p.Submission, a.PresaleRaise); err == nil {
		d.Claimable = claimable
	}
	return d
}

// formatBasisPoints renders 1234 as "12.34".
func formatBasisPoints(bps uint64) string {
	return fmt.Sprintf("%d.%02d", bps/100, bps%100)
}

// Presales lists every asset, newest first.
func (m *Mirror) Presales(now uint64, participant string) []PresaleView {
	var views []PresaleView
	m.Read(func(st *State) {
		views = make([]PresaleView, 0, len(st.Indexes))
		for _, denom := range st.Denoms() {
			a, ok := st.Assets[denom]
			if !ok {
				continue
			}
			views = append(views, NewPresaleView(denom, a, now, participantOf(st, denom, participant)))
		}
	})
	return views
}

// Presale is the view of one asset. ok is false for an unknown denom.
func (m *Mirror) Presale(denom string, now uint64, participant string) (view PresaleView, ok bool) {
	m.Read(func(st *State) {
		var a AssetMeta
		a, ok = st.Assets[denom]
		if ok {
			view = NewPresaleView(denom, a, now, participantOf(st, denom, participant))
		}
	})
	return view, ok
}

func participantOf(st *State, denom, participant string) *ParticipantMeta {
	if participant == "" {
		return nil
	}
	p := st.Participants[ParticipantKey{denom, participant}]
	return &p
}
