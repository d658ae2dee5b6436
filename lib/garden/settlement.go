package garden

import (
	"errors"
	"strings"

	"github.com/shitcoingarden/garden.go/lib/ledger"
)

// Env is the execution environment of a single call.
type Env struct {
	// Now is the block time in unix seconds.
	Now uint64
}

// Caller identifies who invoked an operation and what they attached.
type Caller struct {
	Sender string
	Funds  []Coin
}

// PoolQuerier resolves the pool trading a pair of assets.
type PoolQuerier interface {
	PairAddress(assetA, assetB string) (string, error)
}

// Response carries the commands and the event of a successful operation.
type Response struct {
	Commands []Command
	Event    Event
}

type Contract struct {
	Address string
	Pools   PoolQuerier
	Addrs   AddressValidator
}

func NewContract(address string, pools PoolQuerier, addrs AddressValidator) *Contract {
	return &Contract{Address: address, Pools: pools, Addrs: addrs}
}

// Denom returns the denom the garden at contract creates for ticker.
func Denom(contract, ticker string) string {
	return "factory/" + contract + "/" + strings.ToLower(ticker)
}

func (c *Contract) Denom(ticker string) string {
	return Denom(c.Address, ticker)
}

// mustPay requires exactly one coin of denom with a non-zero amount.
func mustPay(funds []Coin, denom string) (Amount, error) {
	if len(funds) != 1 {
		return ZeroAmount, validationf(ErrWrongPayment, "you must send exactly one coin of %s, got %d", denom, len(funds))
	}
	if funds[0].Denom != denom {
		return ZeroAmount, validationf(ErrWrongPayment, "you must send %s, got %s", denom, funds[0].Denom)
	}
	if funds[0].Amount.IsZero() {
		return ZeroAmount, validationf(ErrWrongPayment, "you must send a non-zero amount of %s", denom)
	}
	return funds[0].Amount, nil
}

// lookup maps an absent per-asset cell to a not-found error naming denom.
func lookup[T any](r ledger.Reader, denom string, get func(ledger.Reader, string) (T, error)) (T, error) {
	v, err := get(r, denom)
	if errors.Is(err, ledger.ErrNotFound) {
		return v, notFound(denom)
	}
	return v, err
}

func (c *Contract) presaleEnd(r ledger.Reader, denom string) (uint64, error) {
	return lookup(r, denom, ledger.PresaleEnd)
}

// checkSender rejects callers whose address the garden could not key
// participant records under.
func (c *Contract) checkSender(caller Caller) error {
	if c.Addrs == nil {
		return nil
	}
	return c.Addrs.ValidateAddress(caller.Sender)
}

func validTicker(ticker string) error {
	if ticker == "" {
		return validationf(ErrInvalidTicker, "ticker must not be empty")
	}
	if strings.ContainsAny(ticker, ":/ ") {
		return validationf(ErrInvalidTicker, "ticker %q must not contain ':', '/' or spaces", ticker)
	}
	return nil
}

// CreateShitcoin registers a new asset, opens its presale and emits the
// commands creating the denom, its supply and its pool.
func (c *Contract) CreateShitcoin(store ledger.Store, env Env, caller Caller, ticker, name string, supply Amount) (*Response, error) {
	if err := c.checkSender(caller); err != nil {
		return nil, err
	}
	if supply.IsZero() {
		return nil, validationf(nil, "supply must be greater than zero")
	}
	if err := validTicker(ticker); err != nil {
		return nil, err
	}
	params, err := LoadParams(store)
	if err != nil {
		return nil, err
	}
	payment, err := mustPay(caller.Funds, params.CreateFeeDenom)
	if err != nil {
		return nil, err
	}
	if payment.Cmp(params.CreateFee) < 0 {
		return nil, validationf(ErrWrongPayment, "you must pay %s %s to create a shitcoin", params.CreateFee, params.CreateFeeDenom)
	}
	totalSupply, err := supply.MulDiv(decimalScale, NewAmount(1))
	if err != nil {
		return nil, err
	}

	subdenom := strings.ToLower(ticker)
	denom := c.Denom(ticker)
	if _, err := ledger.ShitcoinCreator(store, denom); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return nil, err
	}

	index, err := ledger.ShitcoinCount(store)
	if err != nil {
		return nil, err
	}

	ledger.SetShitcoinCount(store, index+1)
	ledger.SetShitcoinDenom(store, index, denom)
	ledger.SetShitcoinCreator(store, denom, caller.Sender)
	ledger.SetShitcoinTicker(store, denom, ticker)
	ledger.SetShitcoinName(store, denom, name)
	ledger.SetShitcoinSupply(store, denom, totalSupply.Uint128())
	ledger.SetPresaleEnd(store, denom, env.Now+params.PresaleLength)
	ledger.SetPresaleRaise(store, denom, ZeroAmount.Uint128())

	return &Response{
		Commands: []Command{
			MintDenom{Subdenom: subdenom},
			NewSetMetadata(denom, ticker, name, ""),
			Mint{Coin: NewCoin(denom, totalSupply), Recipient: c.Address},
			CreatePool{Factory: params.PoolFactoryAddress, AssetA: denom, AssetB: params.PresaleDenom},
			Transfer{Coin: NewCoin(params.CreateFeeDenom, payment), Recipient: params.FeeRecipient},
		},
		Event: Event{Kind: EventShitcoinCreated, Denom: denom},
	}, nil
}

// EnterPresale records a contribution net of the presale fee and forwards
// the fee, split between the creator and the platform.
func (c *Contract) EnterPresale(store ledger.Store, env Env, caller Caller, denom string) (*Response, error) {
	if err := c.checkSender(caller); err != nil {
		return nil, err
	}
	end, err := c.presaleEnd(store, denom)
	if err != nil {
		return nil, err
	}
	launched, err := ledger.ShitcoinLaunched(store, denom)
	if err != nil {
		return nil, err
	}
	if PhaseAt(end, env.Now, launched) != PhasePresale {
		return nil, ErrTooLate
	}
	params, err := LoadParams(store)
	if err != nil {
		return nil, err
	}
	amount, err := mustPay(caller.Funds, params.PresaleDenom)
	if err != nil {
		return nil, validationf(err, "you must send %s to enter the presale", params.PresaleDenom)
	}

	fee, err := amount.MulDiv(NewAmount(uint64(params.PresaleFeeRate)), NewAmount(FeeRateDenominator))
	if err != nil {
		return nil, err
	}
	if fee.IsZero() {
		return nil, ErrBagTooSmall
	}
	submission, err := amount.Sub(fee)
	if err != nil {
		return nil, err
	}

	raise, err := lookup(store, denom, ledger.PresaleRaise)
	if err != nil {
		return nil, err
	}
	prev, err := ledger.PresaleSubmission(store, denom, caller.Sender)
	if err != nil {
		return nil, err
	}
	newRaise, err := AmountFromUint128(raise).Add(submission)
	if err != nil {
		return nil, err
	}
	newSubmission, err := AmountFromUint128(prev).Add(submission)
	if err != nil {
		return nil, err
	}
	creator, err := lookup(store, denom, ledger.ShitcoinCreator)
	if err != nil {
		return nil, err
	}

	ledger.SetPresaleRaise(store, denom, newRaise.Uint128())
	ledger.SetPresaleSubmission(store, denom, caller.Sender, newSubmission.Uint128())

	creatorFee := fee.Half()
	platformFee, err := fee.Sub(creatorFee)
	if err != nil {
		return nil, err
	}

	return &Response{
		Commands: []Command{
			Transfer{Coin: NewCoin(params.PresaleDenom, creatorFee), Recipient: creator},
			Transfer{Coin: NewCoin(params.PresaleDenom, platformFee), Recipient: params.FeeRecipient},
		},
		Event: Event{Kind: EventPresaleEntered, Denom: denom, Participant: caller.Sender},
	}, nil
}

// ExtendPresale restarts the presale window of an unfunded asset.
func (c *Contract) ExtendPresale(store ledger.Store, env Env, denom string) (*Response, error) {
	end, err := c.presaleEnd(store, denom)
	if err != nil {
		return nil, err
	}
	launched, err := ledger.ShitcoinLaunched(store, denom)
	if err != nil {
		return nil, err
	}
	switch PhaseAt(end, env.Now, launched) {
	case PhasePresale:
		return nil, ErrNotOverYet
	case PhaseLaunched:
		return nil, ErrAlreadyLaunched
	}
	raise, err := lookup(store, denom, ledger.PresaleRaise)
	if err != nil {
		return nil, err
	}
	if !raise.IsZero() {
		return nil, ErrAlreadyFunded
	}
	length, err := ledger.PresaleLength(store)
	if err != nil {
		return nil, loadErr("presale length", err)
	}

	ledger.SetPresaleEnd(store, denom, env.Now+length)

	return &Response{Event: Event{Kind: EventPresaleExtended, Denom: denom}}, nil
}

// LaunchShitcoin seeds the asset's pool with half the supply and the whole
// raise. The launched flag is set before the liquidity command is emitted.
func (c *Contract) LaunchShitcoin(store ledger.Store, env Env, denom string) (*Response, error) {
	end, err := c.presaleEnd(store, denom)
	if err != nil {
		return nil, err
	}
	launched, err := ledger.ShitcoinLaunched(store, denom)
	if err != nil {
		return nil, err
	}
	switch PhaseAt(end, env.Now, launched) {
	case PhasePresale:
		return nil, ErrNotOverYet
	case PhaseLaunched:
		return nil, ErrAlreadyLaunched
	}
	supply, err := lookup(store, denom, ledger.ShitcoinSupply)
	if err != nil {
		return nil, err
	}
	raise, err := lookup(store, denom, ledger.PresaleRaise)
	if err != nil {
		return nil, err
	}
	presaleDenom, err := ledger.PresaleDenom(store)
	if err != nil {
		return nil, loadErr("presale denom", err)
	}
	pool, err := c.Pools.PairAddress(denom, presaleDenom)
	if err != nil {
		return nil, err
	}

	ledger.SetShitcoinLaunched(store, denom, true)

	return &Response{
		Commands: []Command{
			ProvideLiquidity{
				Pool: pool,
				Assets: []Coin{
					NewCoin(denom, AmountFromUint128(supply).Half()),
					NewCoin(presaleDenom, AmountFromUint128(raise)),
				},
			},
		},
		Event: Event{Kind: EventShitcoinLaunched, Denom: denom},
	}, nil
}

// ClaimShitcoin pays a participant their pro-rata share of the half of the
// supply reserved for presale participants.
func (c *Contract) ClaimShitcoin(store ledger.Store, env Env, caller Caller, denom string) (*Response, error) {
	if err := c.checkSender(caller); err != nil {
		return nil, err
	}
	end, err := c.presaleEnd(store, denom)
	if err != nil {
		return nil, err
	}
	launched, err := ledger.ShitcoinLaunched(store, denom)
	if err != nil {
		return nil, err
	}
	switch PhaseAt(end, env.Now, launched) {
	case PhasePresale:
		return nil, ErrNotOverYet
	case PhaseEnded:
		return nil, ErrNotLaunched
	}
	claimed, err := ledger.PresaleClaimed(store, denom, caller.Sender)
	if err != nil {
		return nil, err
	}
	if ClaimStateOf(claimed) == Claimed {
		return nil, ErrAlreadyClaimed
	}
	raise, err := lookup(store, denom, ledger.PresaleRaise)
	if err != nil {
		return nil, err
	}
	submission, err := ledger.PresaleSubmission(store, denom, caller.Sender)
	if err != nil {
		return nil, err
	}
	if submission.IsZero() {
		return nil, ErrDidNotEnter
	}
	supply, err := lookup(store, denom, ledger.ShitcoinSupply)
	if err != nil {
		return nil, err
	}
	claimable, err := AmountFromUint128(supply).Half().MulDiv(AmountFromUint128(submission), AmountFromUint128(raise))
	if err != nil {
		return nil, err
	}

	ledger.SetPresaleClaimed(store, denom, caller.Sender, true)

	return &Response{
		Commands: []Command{
			Transfer{Coin: NewCoin(denom, claimable), Recipient: caller.Sender},
		},
		Event: Event{Kind: EventShitcoinClaimed, Denom: denom, Participant: caller.Sender},
	}, nil
}

// SetURL replaces the asset's url and re-issues its metadata. Only the
// creator may do this.
func (c *Contract) SetURL(store ledger.Store, caller Caller, denom, url string) (*Response, error) {
	if err := c.checkSender(caller); err != nil {
		return nil, err
	}
	creator, err := lookup(store, denom, ledger.ShitcoinCreator)
	if err != nil {
		return nil, err
	}
	if caller.Sender != creator {
		return nil, ErrNotCreator
	}
	ticker, err := lookup(store, denom, ledger.ShitcoinTicker)
	if err != nil {
		return nil, err
	}
	name, err := lookup(store, denom, ledger.ShitcoinName)
	if err != nil {
		return nil, err
	}

	ledger.SetShitcoinURL(store, denom, url)

	return &Response{
		Commands: []Command{NewSetMetadata(denom, ticker, name, url)},
		Event:    Event{Kind: EventShitcoinURLSet, Denom: denom},
	}, nil
}
