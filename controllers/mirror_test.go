package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shitcoingarden/garden.go/fanout"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziflex/lecho/v3"
)

const (
	contract = "neutron1contract"
	alice    = "neutron1alice"
	bob      = "neutron1bob"
)

type fixedClock uint64

func (c fixedClock) Now(ctx context.Context) uint64 { return uint64(c) }

func testMirror() *mirror.Mirror {
	st := mirror.NewState()
	for i, ticker := range []string{"one", "two"} {
		denom := garden.Denom(contract, ticker)
		st.Indexes[uint64(i)] = denom
		st.Assets[denom] = mirror.AssetMeta{
			Creator:      "neutron1creator",
			Ticker:       ticker,
			Name:         ticker,
			PresaleEnd:   1_000,
			PresaleRaise: garden.NewAmount(300),
			Supply:       garden.NewAmount(1_000_000),
		}
	}
	st.Participants[mirror.ParticipantKey{Denom: garden.Denom(contract, "one"), Participant: alice}] = mirror.ParticipantMeta{
		Submission: garden.NewAmount(100),
	}
	m := mirror.NewMirror()
	m.Replace(st)
	return m
}

func get(handler echo.HandlerFunc, path string, names []string, values []string) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestPresales(t *testing.T) {
	ctrl := NewMirrorController(testMirror(), fixedClock(400), contract)

	rec := get(ctrl.Presales, "/presales", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []mirror.PresaleView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "two", views[0].Ticker)
	assert.Equal(t, uint64(600), views[0].SecondsRemaining)
	assert.Nil(t, views[0].Degen)

	rec = get(ctrl.Presales, "/presales/"+alice, []string{"degen"}, []string{alice})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.NotNil(t, views[1].Degen)
	assert.Equal(t, "33.33", views[1].Degen.PercentOfPresale)
	// a degen without a record sees zeroes
	require.NotNil(t, views[0].Degen)
	assert.True(t, views[0].Degen.PresaleSubmission.IsZero())
}

func TestPresaleByTicker(t *testing.T) {
	ctrl := NewMirrorController(testMirror(), fixedClock(1_000), contract)

	rec := get(ctrl.Presale, "/presale/one", []string{"ticker"}, []string{"one"})
	require.Equal(t, http.StatusOK, rec.Code)
	var view mirror.PresaleView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.Ended)
	assert.Zero(t, view.SecondsRemaining)

	rec = get(ctrl.Presale, "/presale/missing", []string{"ticker"}, []string{"missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDump(t *testing.T) {
	ctrl := NewMirrorController(testMirror(), fixedClock(0), contract)
	rec := get(ctrl.Dump, "/dump", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), alice)
}

// stream runs the SSE handler until ctx ends and returns what it wrote.
func stream(t *testing.T, ctrl *StreamController, ctx context.Context, degen string) <-chan string {
	out := make(chan string, 1)
	go func() {
		e := echo.New()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/sse", nil).WithContext(ctx)
		c := e.NewContext(req, rec)
		if degen != "" {
			c.SetParamNames("degen")
			c.SetParamValues(degen)
		}
		assert.NoError(t, ctrl.SSE(c))
		out <- rec.Body.String()
	}()
	return out
}

func TestSSEKeepalive(t *testing.T) {
	ctrl := NewStreamController(testMirror(), fanout.NewBroadcaster(4), 10*time.Millisecond, lecho.New(io.Discard))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	body := <-stream(t, ctrl, ctx, "")
	assert.Contains(t, body, ": keep-alive\n\n")
}

func TestSSEDeliversOnlyOwnClaims(t *testing.T) {
	m := testMirror()
	b := fanout.NewBroadcaster(4)
	ctrl := NewStreamController(m, b, time.Minute, lecho.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	out := stream(t, ctrl, ctx, alice)
	require.Eventually(t, func() bool { return b.Subscribers() == 1 }, time.Second, time.Millisecond)

	denom := garden.Denom(contract, "one")
	asset, _ := m.Asset(denom)
	b.Publish(mirror.Update{Kind: garden.EventShitcoinClaimed, Denom: denom, Participant: bob, Asset: asset})
	b.Publish(mirror.Update{Kind: garden.EventShitcoinClaimed, Denom: denom, Participant: alice, Asset: asset})
	b.Publish(mirror.Update{Kind: garden.EventPresaleExtended, Denom: denom, Asset: asset})

	time.Sleep(50 * time.Millisecond)
	cancel()
	body := <-out
	assert.Equal(t, 1, strings.Count(body, "event: ShitcoinClaimed\n"))
	assert.Equal(t, 1, strings.Count(body, "event: PresaleExtended\n"))
	assert.Contains(t, body, `"presale_submission":"100"`)
}
