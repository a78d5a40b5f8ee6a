package commands

import (
	"context"
	"sync"
	"testing"

	"socsbot/internal/components/telemetry/teltest"
	"socsbot/internal/state"

	"github.com/stretchr/testify/require"
)

type sent struct {
	channel int64
	list    []string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recordingNotifier) Send(_ context.Context, channel int64, list []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{channel: channel, list: list})
}

func setup() (Dispatcher, *state.State, *recordingNotifier) {
	st := state.New(7, "")
	notifier := &recordingNotifier{}
	return NewDispatcher(st, notifier, &teltest.Recorder{}), st, notifier
}

func TestSetCookieRoundTrip(t *testing.T) {
	d, st, _ := setup()

	reply, err := d.SetCookie("a", "b")
	require.NoError(t, err)
	require.Equal(t, "COOKIE: a=b", reply)
	require.Equal(t, "a=b", st.Cookie())

	require.Contains(t, d.GetCookie(), "a=b")
}

func TestSetCookieRequiresBothParts(t *testing.T) {
	d, st, _ := setup()
	st.SetCookie("old=1")

	table := [][2]string{{"", "b"}, {"a", ""}, {"", ""}}
	for _, args := range table {
		reply, err := d.SetCookie(args[0], args[1])
		require.ErrorIs(t, err, ErrInvalidArgument)
		require.Equal(t, InvalidCookieReply, reply)
	}
	require.Equal(t, "old=1", st.Cookie())
}

func TestGetCookieNotSet(t *testing.T) {
	d, _, _ := setup()
	require.Equal(t, NoCookieReply, d.GetCookie())
}

func TestGetCache(t *testing.T) {
	d, st, _ := setup()
	require.Equal(t, EmptyCacheReply, d.GetCache())

	st.ReplaceCache(state.List{"Robotics Open", "Math"})
	require.Equal(t, `CACHE: ["Robotics Open" "Math"]`, d.GetCache())
}

func TestForceLatestEmptyCache(t *testing.T) {
	d, _, notifier := setup()

	require.Equal(t, EmptyCacheReply, d.ForceLatest(context.Background()))
	require.Empty(t, notifier.sent)
}

func TestForceLatestSendsCache(t *testing.T) {
	d, st, notifier := setup()
	st.ReplaceCache(state.List{"A", "B"})

	require.Equal(t, "", d.ForceLatest(context.Background()))
	require.Equal(t, []sent{{channel: 7, list: []string{"A", "B"}}}, notifier.sent)
}

func TestDispatch(t *testing.T) {
	d, st, notifier := setup()
	ctx := context.Background()

	reply, err := d.Dispatch(ctx, SetCookie, []string{"PHPSESSID", "xyz"})
	require.NoError(t, err)
	require.Equal(t, "COOKIE: PHPSESSID=xyz", reply)

	reply, err = d.Dispatch(ctx, GetCookie, nil)
	require.NoError(t, err)
	require.Equal(t, "COOKIE: PHPSESSID=xyz", reply)

	reply, err = d.Dispatch(ctx, GetCache, nil)
	require.NoError(t, err)
	require.Equal(t, EmptyCacheReply, reply)

	st.ReplaceCache(state.List{"A"})
	reply, err = d.Dispatch(ctx, Latest, nil)
	require.NoError(t, err)
	require.Equal(t, "", reply)
	require.Len(t, notifier.sent, 1)

	reply, err = d.Dispatch(ctx, SetCookie, []string{"only-key"})
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, InvalidCookieReply, reply)

	_, err = d.Dispatch(ctx, "hello", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestSpecsCoverEveryCommand(t *testing.T) {
	var names []string
	for _, s := range Specs {
		names = append(names, s.Name)
	}
	require.ElementsMatch(t, []string{SetCookie, GetCookie, GetCache, Latest}, names)
}

func TestSuggest(t *testing.T) {
	suggestion, ok := Suggest("set_cooki")
	require.True(t, ok)
	require.Equal(t, SetCookie, suggestion)

	suggestion, ok = Suggest("lates")
	require.True(t, ok)
	require.Equal(t, Latest, suggestion)

	_, ok = Suggest("start")
	require.False(t, ok)
}

func TestDispatchUnknownCommandSuggests(t *testing.T) {
	d, _, _ := setup()

	reply, err := d.Dispatch(context.Background(), "get_cach", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)
	require.Equal(t, "Unknown command /get_cach, did you mean /get_cache?", reply)

	reply, err = d.Dispatch(context.Background(), "start", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)
	require.Empty(t, reply)
}
