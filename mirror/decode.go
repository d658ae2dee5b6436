package mirror

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/ledger"
	"github.com/ziflex/lecho/v3"
)

// Decode builds a State from raw cells. Cells with an unknown tag are
// ignored and malformed ones are logged and skipped.
func Decode(models []ledger.Model, logger *lecho.Logger) *State {
	st := NewState()
	for _, m := range models {
		if err := decodeModel(st, m); err != nil && logger != nil {
			logger.Debugf("skipping cell %q: %v", m.Key, err)
		}
	}
	return st
}

func decodeModel(st *State, m ledger.Model) error {
	tag, rest, _ := bytes.Cut(m.Key, []byte{ledger.Delimiter})
	switch string(tag) {
	case ledger.TagPresaleEnd:
		v, err := ledger.DecodeU64(m.Value)
		if err != nil {
			return err
		}
		return withAsset(st, rest, func(a *AssetMeta) { a.PresaleEnd = v })
	case ledger.TagPresaleRaise:
		v, err := ledger.DecodeU128(m.Value)
		if err != nil {
			return err
		}
		return withAsset(st, rest, func(a *AssetMeta) { a.PresaleRaise = garden.AmountFromUint128(v) })
	case ledger.TagShitcoinSupply:
		v, err := ledger.DecodeU128(m.Value)
		if err != nil {
			return err
		}
		return withAsset(st, rest, func(a *AssetMeta) { a.Supply = garden.AmountFromUint128(v) })
	case ledger.TagShitcoinLaunched:
		v, err := ledger.DecodeBool(m.Value)
		if err != nil {
			return err
		}
		return withAsset(st, rest, func(a *AssetMeta) { a.Launched = v })
	case ledger.TagShitcoinCreator, ledger.TagShitcoinTicker, ledger.TagShitcoinName, ledger.TagShitcoinURL:
		v, err := ledger.DecodeString(m.Value)
		if err != nil {
			return err
		}
		return withAsset(st, rest, func(a *AssetMeta) {
			switch string(tag) {
			case ledger.TagShitcoinCreator:
				a.Creator = v
			case ledger.TagShitcoinTicker:
				a.Ticker = v
			case ledger.TagShitcoinName:
				a.Name = v
			default:
				a.URL = v
			}
		})
	case ledger.TagPresaleSubmission:
		v, err := ledger.DecodeU128(m.Value)
		if err != nil {
			return err
		}
		return withParticipant(st, rest, func(p *ParticipantMeta) { p.Submission = garden.AmountFromUint128(v) })
	case ledger.TagPresaleClaimed:
		v, err := ledger.DecodeBool(m.Value)
		if err != nil {
			return err
		}
		return withParticipant(st, rest, func(p *ParticipantMeta) { p.Claimed = v })
	case ledger.TagShitcoinDenom:
		index, err := strconv.ParseUint(string(rest), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: index %q", ledger.ErrMalformed, rest)
		}
		denom, err := ledger.DecodeString(m.Value)
		if err != nil {
			return err
		}
		st.Indexes[index] = denom
	}
	return nil
}

func withAsset(st *State, denom []byte, fn func(a *AssetMeta)) error {
	if len(denom) == 0 || bytes.IndexByte(denom, ledger.Delimiter) >= 0 {
		return fmt.Errorf("%w: denom segment %q", ledger.ErrMalformed, denom)
	}
	a := st.Assets[string(denom)]
	fn(&a)
	st.Assets[string(denom)] = a
	return nil
}

func withParticipant(st *State, rest []byte, fn func(p *ParticipantMeta)) error {
	denom, participant, ok := bytes.Cut(rest, []byte{ledger.Delimiter})
	if !ok || len(denom) == 0 || len(participant) == 0 {
		return fmt.Errorf("%w: participant key %q", ledger.ErrMalformed, rest)
	}
	k := ParticipantKey{Denom: string(denom), Participant: string(participant)}
	p := st.Participants[k]
	fn(&p)
	st.Participants[k] = p
	return nil
}
