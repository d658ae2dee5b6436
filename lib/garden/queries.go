package garden

import (
	"errors"

	"github.com/shitcoingarden/garden.go/lib/ledger"
)

// DefaultPageLimit applies when a listing query names no limit.
const DefaultPageLimit = 10

type ShitcoinMetadata struct {
	Denom        string `json:"denom"`
	Creator      string `json:"creator"`
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	PresaleEnd   uint64 `json:"presale_end"`
	PresaleRaise Amount `json:"presale_raise"`
	Supply       Amount `json:"supply"`
	Ended        bool   `json:"ended"`
	Launched     bool   `json:"launched"`
}

type ShitcoinPage struct {
	Page      uint64             `json:"page"`
	Limit     uint64             `json:"limit"`
	Total     uint64             `json:"total"`
	Shitcoins []ShitcoinMetadata `json:"shitcoins"`
}

type DegenMetadata struct {
	PresaleSubmission Amount `json:"presale_submission"`
	ShitcoinsClaimed  bool   `json:"shitcoins_claimed"`
}

func (c *Contract) Config(r ledger.Reader) (Params, error) {
	return LoadParams(r)
}

func (c *Contract) ShitcoinMetadata(r ledger.Reader, env Env, denom string) (ShitcoinMetadata, error) {
	m := ShitcoinMetadata{Denom: denom}
	var err error
	if m.Creator, err = lookup(r, denom, ledger.ShitcoinCreator); err != nil {
		return m, err
	}
	if m.Ticker, err = lookup(r, denom, ledger.ShitcoinTicker); err != nil {
		return m, err
	}
	if m.Name, err = lookup(r, denom, ledger.ShitcoinName); err != nil {
		return m, err
	}
	// the url is only written once the creator sets one
	if m.URL, err = ledger.ShitcoinURL(r, denom); err != nil && !errors.Is(err, ledger.ErrNotFound) {
		return m, err
	}
	if m.PresaleEnd, err = lookup(r, denom, ledger.PresaleEnd); err != nil {
		return m, err
	}
	raise, err := lookup(r, denom, ledger.PresaleRaise)
	if err != nil {
		return m, err
	}
	m.PresaleRaise = AmountFromUint128(raise)
	supply, err := lookup(r, denom, ledger.ShitcoinSupply)
	if err != nil {
		return m, err
	}
	m.Supply = AmountFromUint128(supply)
	if m.Launched, err = ledger.ShitcoinLaunched(r, denom); err != nil {
		return m, err
	}
	m.Ended = env.Now >= m.PresaleEnd
	return m, nil
}

// Shitcoins lists assets in creation order. Page is zero-based; a limit
// larger than the number of assets is clamped and an out of range page is
// empty.
func (c *Contract) Shitcoins(r ledger.Reader, env Env, page, limit *uint64) (ShitcoinPage, error) {
	total, err := ledger.ShitcoinCount(r)
	if err != nil {
		return ShitcoinPage{}, err
	}
	p := uint64(0)
	if page != nil {
		p = *page
	}
	l := uint64(DefaultPageLimit)
	if limit != nil {
		l = *limit
	}
	l = min(l, total)

	res := ShitcoinPage{Page: p, Limit: l, Total: total, Shitcoins: []ShitcoinMetadata{}}
	if l == 0 {
		return res, nil
	}
	// guard the multiplication; any page that far out is empty anyway
	if p > total/l {
		return res, nil
	}
	start := p * l
	end := min(total, start+l)
	for i := start; i < end; i++ {
		denom, err := ledger.ShitcoinDenom(r, i)
		if err != nil {
			return res, err
		}
		m, err := c.ShitcoinMetadata(r, env, denom)
		if err != nil {
			return res, err
		}
		res.Shitcoins = append(res.Shitcoins, m)
	}
	return res, nil
}

// DegenMetadata reports a participant's position. An unseen participant has
// a zero submission and no claim.
func (c *Contract) DegenMetadata(r ledger.Reader, denom, participant string) (DegenMetadata, error) {
	if _, err := lookup(r, denom, ledger.ShitcoinCreator); err != nil {
		return DegenMetadata{}, err
	}
	sub, err := ledger.PresaleSubmission(r, denom, participant)
	if err != nil {
		return DegenMetadata{}, err
	}
	claimed, err := ledger.PresaleClaimed(r, denom, participant)
	if err != nil {
		return DegenMetadata{}, err
	}
	return DegenMetadata{PresaleSubmission: AmountFromUint128(sub), ShitcoinsClaimed: claimed}, nil
}
